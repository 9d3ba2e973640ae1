package model

import (
	"context"
	"net"
)

type SecurityLayer interface {
	Listen(protocol, addr string) (net.Listener, error)
}

type Server interface {
	Start(securityLayer SecurityLayer) error
	Stop(ctx context.Context) error
	Address() string
}

// Replier sends exactly one reply for the message currently being handled.
type Replier interface {
	Send(reply []byte) error
}

// Socket is a strict request-reply transport endpoint.
// Recv and Send must alternate; Recv blocks until a message arrives or the socket is closed.
type Socket interface {
	Replier
	Listen(endpoint string) error
	Recv() ([]byte, error)
	Close() error
}

// RequestHandler turns one inbound message into one reply.
type RequestHandler interface {
	Dispatch(ctx context.Context, replier Replier, raw []byte) error
}
