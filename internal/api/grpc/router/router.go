package router

import (
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/recovery"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/credcheck/internal/api/grpc/health"
	"github.com/dtroode/credcheck/internal/api/grpc/middleware"
	"github.com/dtroode/credcheck/internal/logger"
)

// Router builds the operational gRPC server.
type Router struct {
	reporter *health.Reporter
	logger   *logger.Logger
}

func New(reporter *health.Reporter, logger *logger.Logger) *Router {
	return &Router{
		reporter: reporter,
		logger:   logger,
	}
}

// Register returns a gRPC server with logging and panic recovery that serves
// the health service.
func (r *Router) Register() *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	recoveryOpt := recovery.WithRecoveryHandler(r.recoverPanic)

	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			logging.HandleGRPC,
			recovery.UnaryServerInterceptor(recoveryOpt),
		),
		grpc.ChainStreamInterceptor(
			logging.HandleGRPCStream,
			recovery.StreamServerInterceptor(recoveryOpt),
		),
	)
	r.reporter.Register(s)

	return s
}

func (r *Router) recoverPanic(p any) error {
	r.logger.Error("gRPC handler panicked", "panic", p)
	return status.Error(codes.Internal, "internal server error")
}
