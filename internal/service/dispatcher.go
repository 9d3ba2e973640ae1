package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/credcheck/internal/logger"
	"github.com/dtroode/credcheck/internal/model"
	"github.com/dtroode/credcheck/internal/validator"
)

var _ model.RequestHandler = (*Dispatcher)(nil)

type requestIDKey struct{}

// WithRequestID attaches a correlation id to ctx for log records.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func requestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// Dispatcher validates a raw request, checks it against the store and sends
// exactly one verdict.
type Dispatcher struct {
	store  model.CredentialStore
	logger *logger.Logger
}

func NewDispatcher(store model.CredentialStore, logger *logger.Logger) *Dispatcher {
	return &Dispatcher{
		store:  store,
		logger: logger,
	}
}

// Dispatch handles one inbound message. Schema failures and wrong credentials
// both produce the "invalid" reply. A store failure produces no reply and is
// returned wrapped in model.ErrLookup, whatever its origin.
func (d *Dispatcher) Dispatch(ctx context.Context, replier model.Replier, raw []byte) error {
	reqID := requestID(ctx)

	req, err := validator.Validate(raw)
	if err != nil {
		d.logger.Info("Dispatcher: rejected malformed request",
			"request_id", reqID,
			"error", err.Error())
		return d.reply(replier, reqID, model.AuthInvalid)
	}

	result, err := d.store.Authenticate(ctx, req)
	if err != nil {
		d.logger.Error("Dispatcher: credential lookup failed",
			"request_id", reqID,
			"username", req.Username,
			"error", err.Error())
		if errors.Is(err, model.ErrLookup) {
			return fmt.Errorf("failed to authenticate request %s: %w", reqID, err)
		}
		return fmt.Errorf("%w: failed to authenticate request %s: %w", model.ErrLookup, reqID, err)
	}

	d.logger.Debug("Dispatcher: credential check finished",
		"request_id", reqID,
		"username", req.Username,
		"result", result.String())

	return d.reply(replier, reqID, result)
}

func (d *Dispatcher) reply(replier model.Replier, reqID string, result model.AuthResult) error {
	if err := replier.Send([]byte(result.String())); err != nil {
		d.logger.Warn("Dispatcher: failed to send reply",
			"request_id", reqID,
			"error", err.Error())
		return fmt.Errorf("failed to send reply: %w", err)
	}
	return nil
}
