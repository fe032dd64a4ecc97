// Package logging defines the log context shared by the packages that
// handle a received frame.
package logging

import (
	"context"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
)

// ContextKey defines the context key type.
type ContextKey string

// ContextIDKey holds the key of the context ID.
const ContextIDKey ContextKey = "ctx_id"

// NewContextWithID returns a context with a fresh ctx_id set. The id
// correlates all log lines, storage writes and published events for a
// single frame.
func NewContextWithID(ctx context.Context) (context.Context, uuid.UUID, error) {
	ctxID, err := uuid.NewV4()
	if err != nil {
		return nil, uuid.Nil, errors.Wrap(err, "new uuid error")
	}

	return context.WithValue(ctx, ContextIDKey, ctxID), ctxID, nil
}
