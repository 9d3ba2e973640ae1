package model

import (
	"context"
	"io"
)

// ObjectSource reads objects from a remote bucket.
type ObjectSource interface {
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Exists(ctx context.Context, key string) (bool, error)
}
