package server

import (
	"context"
	"errors"

	"github.com/abhisek/syntaxiz/internal/session"
)

// ErrSessionNotFound is returned for unknown or expired session IDs.
var ErrSessionNotFound = errors.New("session not found")

// Registry holds live session state between requests. Put refreshes the
// entry's time to live.
type Registry interface {
	Get(ctx context.Context, id string) (*session.State, error)
	Put(ctx context.Context, st *session.State) error
	Delete(ctx context.Context, id string) error
}
