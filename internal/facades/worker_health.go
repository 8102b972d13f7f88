package facades

import (
	"context"
	"fmt"

	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sbilibin2017/microblog/internal/logger"
)

// WorkerHealthGRPCFacade asks the worker's gRPC health service whether it
// is consuming jobs.
type WorkerHealthGRPCFacade struct {
	client healthpb.HealthClient
}

// NewWorkerHealthGRPCFacade creates a new facade with a gRPC client.
func NewWorkerHealthGRPCFacade(client healthpb.HealthClient) *WorkerHealthGRPCFacade {
	return &WorkerHealthGRPCFacade{client: client}
}

// Ping returns nil when the worker reports SERVING.
func (f *WorkerHealthGRPCFacade) Ping(ctx context.Context) error {
	resp, err := f.client.Check(ctx, &healthpb.HealthCheckRequest{})
	if err != nil {
		logger.Log.Warnw("worker health check failed", "error", err)
		return err
	}
	if st := resp.GetStatus(); st != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("worker status %s", st)
	}
	return nil
}
