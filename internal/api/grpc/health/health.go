// Package health reports the service loop state over grpc.health.v1.
package health

import (
	"google.golang.org/grpc"
	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/credcheck/internal/api/reqrep"
	"github.com/dtroode/credcheck/internal/logger"
)

// ServiceName is the health service name of the credential check.
const ServiceName = "credcheck.CredentialService"

// Reporter mirrors loop state transitions into health statuses.
type Reporter struct {
	server *grpchealth.Server
	logger *logger.Logger
}

// NewReporter creates a Reporter that reports NOT_SERVING until the loop listens.
func NewReporter(logger *logger.Logger) *Reporter {
	r := &Reporter{
		server: grpchealth.NewServer(),
		logger: logger,
	}
	r.set(healthpb.HealthCheckResponse_NOT_SERVING)
	return r
}

// Register adds the health service to s.
func (r *Reporter) Register(s grpc.ServiceRegistrar) {
	healthpb.RegisterHealthServer(s, r.server)
}

// Observe is a reqrep.Loop state observer.
func (r *Reporter) Observe(state reqrep.State) {
	switch state {
	case reqrep.StateListening, reqrep.StateProcessing:
		r.set(healthpb.HealthCheckResponse_SERVING)
	default:
		r.set(healthpb.HealthCheckResponse_NOT_SERVING)
	}
}

// Shutdown reports NOT_SERVING permanently.
func (r *Reporter) Shutdown() {
	r.server.Shutdown()
}

func (r *Reporter) set(status healthpb.HealthCheckResponse_ServingStatus) {
	r.server.SetServingStatus("", status)
	r.server.SetServingStatus(ServiceName, status)
}
