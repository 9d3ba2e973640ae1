package reqrep

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net"

	"github.com/go-zeromq/zmq4"

	"github.com/dtroode/credcheck/internal/logger"
	"github.com/dtroode/credcheck/internal/model"
)

var _ model.Socket = (*ZMQSocket)(nil)

// ZMQSocket adapts a ZeroMQ REP socket to model.Socket.
type ZMQSocket struct {
	sock zmq4.Socket
}

// NewZMQSocket creates a REP socket. The socket lives until Close or until ctx is done,
// so ctx should not be the shutdown context of the service loop.
func NewZMQSocket(ctx context.Context, logger *logger.Logger) *ZMQSocket {
	return &ZMQSocket{
		sock: zmq4.NewRep(ctx, zmq4.WithLogger(logger.StdLogger(slog.LevelWarn))),
	}
}

func (s *ZMQSocket) Listen(endpoint string) error {
	if err := s.sock.Listen(endpoint); err != nil {
		return fmt.Errorf("failed to listen on %s: %w", endpoint, err)
	}
	return nil
}

// Recv blocks for the next request. Multi-frame messages are joined.
func (s *ZMQSocket) Recv() ([]byte, error) {
	msg, err := s.sock.Recv()
	if err != nil {
		return nil, err
	}
	return bytes.Join(msg.Frames, nil), nil
}

func (s *ZMQSocket) Send(reply []byte) error {
	return s.sock.Send(zmq4.NewMsg(reply))
}

func (s *ZMQSocket) Close() error {
	return s.sock.Close()
}

// Addr returns the bound address, or nil before Listen.
func (s *ZMQSocket) Addr() net.Addr {
	return s.sock.Addr()
}
