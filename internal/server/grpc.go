package server

import (
	"go.uber.org/zap"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	healthhandler "github.com/karan399/milkman/internal/health/handler"
)

// RegisterGRPC registers the grpc.health.v1 service (backed by readiness) and server reflection.
func RegisterGRPC(s *grpc.Server, readiness healthhandler.ReadinessChecker, log *zap.Logger) {
	healthpb.RegisterHealthServer(s, healthhandler.NewServer(readiness, log))
	reflection.Register(s)
}
