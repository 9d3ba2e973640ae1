package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"

	"github.com/dtroode/credcheck/internal/logger"
	"github.com/dtroode/credcheck/internal/testutil"
)

func TestLogging_HandleGRPC(t *testing.T) {
	t.Parallel()

	lg := NewLogging(testutil.MakeNoopLogger())

	tests := []struct {
		name    string
		handler grpc.UnaryHandler
		wantErr bool
	}{
		{
			name: "success path",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return "ok", nil
			},
		},
		{
			name: "grpc error propagates",
			handler: func(ctx context.Context, req interface{}) (interface{}, error) {
				return nil, status.Error(codes.Unavailable, "not serving")
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
			resp, err := lg.HandleGRPC(context.Background(), struct{}{}, info, tt.handler)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, resp)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, "ok", resp)
		})
	}
}

func TestLogging_WritesPeerAndStatus(t *testing.T) {
	var buf bytes.Buffer
	lg := NewLogging(logger.NewWithWriter(int(slog.LevelDebug), &buf))

	ctx := peer.NewContext(context.Background(), &peer.Peer{Addr: &net.TCPAddr{IP: net.IPv4(10, 0, 0, 7), Port: 4242}})
	info := &grpc.UnaryServerInfo{FullMethod: "/grpc.health.v1.Health/Check"}
	_, _ = lg.HandleGRPC(ctx, nil, info, func(context.Context, interface{}) (interface{}, error) {
		return nil, errors.New("boom")
	})

	out := buf.String()
	assert.Contains(t, out, "peer=10.0.0.7:4242")
	assert.Contains(t, out, "status=Internal")
}

type fakeStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (f fakeStream) Context() context.Context { return f.ctx }

func TestLogging_HandleGRPCStream(t *testing.T) {
	lg := NewLogging(testutil.MakeNoopLogger())
	info := &grpc.StreamServerInfo{FullMethod: "/grpc.health.v1.Health/Watch"}

	err := lg.HandleGRPCStream(nil, fakeStream{ctx: context.Background()}, info, func(interface{}, grpc.ServerStream) error {
		return nil
	})
	assert.NoError(t, err)

	err = lg.HandleGRPCStream(nil, fakeStream{ctx: context.Background()}, info, func(interface{}, grpc.ServerStream) error {
		return status.Error(codes.Canceled, "client went away")
	})
	assert.Equal(t, codes.Canceled, status.Code(err))
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, codes.OK, statusCode(nil))
	assert.Equal(t, codes.NotFound, statusCode(status.Error(codes.NotFound, "x")))
	assert.Equal(t, codes.Internal, statusCode(errors.New("plain")))
}
