package test

import (
	"context"

	"github.com/rfxtrx/rfxtrx-gateway/internal/integration"
)

// Integration is an integration for testing, recording every
// published event.
type Integration struct {
	Events chan integration.Event
}

// NewIntegration creates a new test integration.
func NewIntegration() *Integration {
	return &Integration{
		Events: make(chan integration.Event, 100),
	}
}

// PublishEvent records the given event.
func (i *Integration) PublishEvent(ctx context.Context, event integration.Event) error {
	i.Events <- event
	return nil
}

// Close closes the integration.
func (i *Integration) Close() error {
	return nil
}
