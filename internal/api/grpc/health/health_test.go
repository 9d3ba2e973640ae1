package health

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	"github.com/dtroode/credcheck/internal/api/reqrep"
	"github.com/dtroode/credcheck/internal/testutil"
)

func check(t *testing.T, r *Reporter, service string) healthpb.HealthCheckResponse_ServingStatus {
	t.Helper()
	resp, err := r.server.Check(context.Background(), &healthpb.HealthCheckRequest{Service: service})
	require.NoError(t, err)
	return resp.GetStatus()
}

func TestReporter_Observe(t *testing.T) {
	r := NewReporter(testutil.MakeNoopLogger())
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, r, ""))
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, r, ServiceName))

	tests := []struct {
		state reqrep.State
		want  healthpb.HealthCheckResponse_ServingStatus
	}{
		{reqrep.StateListening, healthpb.HealthCheckResponse_SERVING},
		{reqrep.StateProcessing, healthpb.HealthCheckResponse_SERVING},
		{reqrep.StateShuttingDown, healthpb.HealthCheckResponse_NOT_SERVING},
		{reqrep.StateStopped, healthpb.HealthCheckResponse_NOT_SERVING},
	}
	for _, tt := range tests {
		r.Observe(tt.state)
		assert.Equal(t, tt.want, check(t, r, ServiceName), tt.state.String())
		assert.Equal(t, tt.want, check(t, r, ""), tt.state.String())
	}
}

func TestReporter_Shutdown(t *testing.T) {
	r := NewReporter(testutil.MakeNoopLogger())
	r.Shutdown()

	r.Observe(reqrep.StateListening)
	assert.Equal(t, healthpb.HealthCheckResponse_NOT_SERVING, check(t, r, ServiceName))
}

func TestReporter_Register(t *testing.T) {
	s := grpc.NewServer()
	NewReporter(testutil.MakeNoopLogger()).Register(s)

	_, ok := s.GetServiceInfo()[healthpb.Health_ServiceDesc.ServiceName]
	assert.True(t, ok)
}
