package worker

import (
	"context"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/sbilibin2017/microblog/internal/logger"
)

// Health exposes the standard gRPC health service for the worker.
type Health struct {
	server *grpc.Server
	status *health.Server
}

// NewHealth creates a health server reporting NOT_SERVING until SetServing.
func NewHealth() *Health {
	srv := grpc.NewServer()
	status := health.NewServer()
	status.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(srv, status)
	return &Health{server: srv, status: status}
}

// SetServing flips the overall status.
func (h *Health) SetServing(serving bool) {
	st := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		st = healthpb.HealthCheckResponse_SERVING
	}
	h.status.SetServingStatus("", st)
}

// Serve blocks until ctx is cancelled or the listener fails.
func (h *Health) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Log.Infow("health server listening", "addr", lis.Addr().String())
		errCh <- h.server.Serve(lis)
	}()

	select {
	case <-ctx.Done():
		h.status.Shutdown()
		h.server.GracefulStop()
		return nil
	case err := <-errCh:
		return err
	}
}
