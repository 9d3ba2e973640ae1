// Package reqrep runs the request-reply service loop over a strict
// request-reply socket.
package reqrep

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/credcheck/internal/logger"
	"github.com/dtroode/credcheck/internal/model"
	"github.com/dtroode/credcheck/internal/service"
)

// State is a phase of the service loop.
type State int32

const (
	StateIdle State = iota
	StateListening
	StateProcessing
	StateShuttingDown
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateProcessing:
		return "processing"
	case StateShuttingDown:
		return "shutting_down"
	case StateStopped:
		return "stopped"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}

const defaultDrainTimeout = 5 * time.Second

// Loop owns the socket and alternates receive, dispatch and reply until its
// context is cancelled.
type Loop struct {
	socket       model.Socket
	endpoint     string
	handler      model.RequestHandler
	logger       *logger.Logger
	observer     func(State)
	drainTimeout time.Duration
	state        atomic.Int32
}

// Option configures a Loop.
type Option func(*Loop)

// WithStateObserver registers fn to be called on every state transition.
// fn runs on the loop goroutine and must not block.
func WithStateObserver(fn func(State)) Option {
	return func(l *Loop) {
		l.observer = fn
	}
}

// WithDrainTimeout bounds how long shutdown waits for the receiver to observe the closed socket.
func WithDrainTimeout(d time.Duration) Option {
	return func(l *Loop) {
		l.drainTimeout = d
	}
}

func NewLoop(socket model.Socket, endpoint string, handler model.RequestHandler, logger *logger.Logger, opts ...Option) *Loop {
	l := &Loop{
		socket:       socket,
		endpoint:     endpoint,
		handler:      handler,
		logger:       logger,
		drainTimeout: defaultDrainTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// State returns the current phase of the loop.
func (l *Loop) State() State {
	return State(l.state.Load())
}

type inbound struct {
	payload []byte
	err     error
}

// Serve binds the socket and serves requests until ctx is cancelled.
// Cancellation is honoured only between requests: a received request is always
// dispatched and replied to first. Serve returns nil after a requested shutdown
// and an error when receiving or a store lookup fails.
func (l *Loop) Serve(ctx context.Context) error {
	if err := l.socket.Listen(l.endpoint); err != nil {
		return fmt.Errorf("failed to bind request socket: %w", err)
	}
	l.logger.Info("ServiceLoop: listening", "endpoint", l.endpoint)
	l.setState(StateListening)

	inbox := make(chan inbound)
	resume := make(chan struct{})
	stop := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		l.receive(inbox, resume, stop)
	}()

	work := context.WithoutCancel(ctx)

	for {
		var in inbound
		select {
		case in = <-inbox:
		case <-ctx.Done():
			select {
			case in = <-inbox:
			default:
				l.logger.Info("ServiceLoop: shutdown requested")
				l.shutdown(stop, done)
				return nil
			}
		}

		if err := l.process(work, in); err != nil {
			l.logger.Error("ServiceLoop: stopping after failure", "error", err.Error())
			l.shutdown(stop, done)
			return err
		}
		resume <- struct{}{}
	}
}

// receive performs one Recv at a time and waits for the loop to finish the
// reply before receiving again.
func (l *Loop) receive(inbox chan<- inbound, resume, stop <-chan struct{}) {
	for {
		payload, err := l.socket.Recv()
		select {
		case inbox <- inbound{payload: payload, err: err}:
		case <-stop:
			return
		}
		if err != nil {
			return
		}

		select {
		case <-resume:
		case <-stop:
			return
		}
	}
}

func (l *Loop) process(ctx context.Context, in inbound) error {
	if in.err != nil {
		return fmt.Errorf("failed to receive request: %w", in.err)
	}

	l.setState(StateProcessing)
	reqID := uuid.NewString()
	l.logger.Debug("ServiceLoop: request received", "request_id", reqID, "bytes", len(in.payload))

	err := l.handler.Dispatch(service.WithRequestID(ctx, reqID), l.socket, in.payload)
	if err != nil {
		if errors.Is(err, model.ErrLookup) {
			return err
		}
		l.logger.Warn("ServiceLoop: request finished with error", "request_id", reqID, "error", err.Error())
	}

	l.setState(StateListening)
	return nil
}

func (l *Loop) shutdown(stop chan struct{}, done <-chan struct{}) {
	l.setState(StateShuttingDown)
	close(stop)

	if err := l.socket.Close(); err != nil {
		l.logger.Warn("ServiceLoop: failed to close socket", "error", err.Error())
	}

	select {
	case <-done:
	case <-time.After(l.drainTimeout):
		l.logger.Warn("ServiceLoop: receiver did not stop in time", "timeout", l.drainTimeout.String())
	}

	l.setState(StateStopped)
	l.logger.Info("ServiceLoop: stopped")
}

func (l *Loop) setState(s State) {
	l.state.Store(int32(s))
	if l.observer != nil {
		l.observer(s)
	}
}
