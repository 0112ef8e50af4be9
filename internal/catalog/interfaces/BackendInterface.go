package interfaces

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by Read when nothing has been persisted yet.
var ErrNoDocument = errors.New("no catalog document")

// BackendInterface stores the whole catalog as one opaque blob.
type BackendInterface interface {
	Read(ctx context.Context) ([]byte, error)
	Write(ctx context.Context, data []byte) error
	Close() error
}
