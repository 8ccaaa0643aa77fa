// Package grpc runs the gRPC listener. It currently carries the standard
// health service so orchestrators can probe library readiness.
package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"net"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// ServiceName is the health-check service name reported alongside "".
const ServiceName = "signbridge.Signs"

// Server wraps a grpc.Server with a health service.
type Server struct {
	port   int
	server *grpc.Server
	health *health.Server
}

// New creates a new gRPC server on the given port. Both the overall and the
// named service start as NOT_SERVING.
func New(port int, opts ...grpc.ServerOption) *Server {
	s := &Server{
		port:   port,
		server: grpc.NewServer(opts...),
		health: health.NewServer(),
	}
	healthpb.RegisterHealthServer(s.server, s.health)
	reflection.Register(s.server)

	s.SetServing(false)
	return s
}

// SetServing flips the health status of the signbridge service.
func (s *Server) SetServing(serving bool) {
	status := healthpb.HealthCheckResponse_NOT_SERVING
	if serving {
		status = healthpb.HealthCheckResponse_SERVING
	}
	s.health.SetServingStatus("", status)
	s.health.SetServingStatus(ServiceName, status)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, lis net.Listener) error {
	go func() {
		<-ctx.Done()
		slog.Info("gRPC server shutting down")
		s.health.Shutdown()
		s.server.GracefulStop()
	}()

	return s.server.Serve(lis)
}

// ListenAndServe listens on the configured port and serves until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("grpc listen: %w", err)
	}

	slog.Info("gRPC server listening", "port", s.port)
	return s.Serve(ctx, lis)
}
