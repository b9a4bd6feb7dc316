// Package handler exposes readiness over HTTP and the standard gRPC health protocol.
package handler

import (
	"context"

	"go.uber.org/zap"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// ReadinessChecker reports whether the process can serve traffic.
type ReadinessChecker interface {
	Ready(ctx context.Context) error
}

// Server implements grpc.health.v1.Health. Check answers for every service name with the
// process readiness; Watch and List are left unimplemented.
type Server struct {
	healthpb.UnimplementedHealthServer
	checker ReadinessChecker
	log     *zap.Logger
}

// NewServer returns a gRPC health server. checker may be nil (always SERVING).
func NewServer(checker ReadinessChecker, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{checker: checker, log: log}
}

// Check returns SERVING when all readiness checks pass. Check failures are reported as NOT_SERVING, not as gRPC errors.
func (s *Server) Check(ctx context.Context, req *healthpb.HealthCheckRequest) (*healthpb.HealthCheckResponse, error) {
	if s.checker != nil {
		if err := s.checker.Ready(ctx); err != nil {
			s.log.Warn("health: not ready", zap.String("service", req.GetService()), zap.Error(err))
			return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_NOT_SERVING}, nil
		}
	}
	return &healthpb.HealthCheckResponse{Status: healthpb.HealthCheckResponse_SERVING}, nil
}
