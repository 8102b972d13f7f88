package facades

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type fakeHealthClient struct {
	healthpb.HealthClient
	status healthpb.HealthCheckResponse_ServingStatus
	err    error
}

func (f *fakeHealthClient) Check(ctx context.Context, _ *healthpb.HealthCheckRequest, _ ...grpc.CallOption) (*healthpb.HealthCheckResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &healthpb.HealthCheckResponse{Status: f.status}, nil
}

func TestWorkerHealthGRPCFacade_Ping(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeHealthClient
		wantErr bool
	}{
		{name: "serving", client: &fakeHealthClient{status: healthpb.HealthCheckResponse_SERVING}},
		{name: "not serving", client: &fakeHealthClient{status: healthpb.HealthCheckResponse_NOT_SERVING}, wantErr: true},
		{name: "unreachable", client: &fakeHealthClient{err: errors.New("connection refused")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewWorkerHealthGRPCFacade(tt.client).Ping(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
