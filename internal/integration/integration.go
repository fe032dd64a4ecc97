// Package integration defines the interface used to publish decoded
// packets to downstream consumers.
package integration

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofrs/uuid"
)

var active Integration

// GetIntegration returns the configured integration.
func GetIntegration() Integration {
	return active
}

// SetIntegration sets the given integration.
func SetIntegration(i Integration) {
	active = i
}

// Event is the envelope published for every received frame.
type Event struct {
	CtxID         uuid.UUID       `json:"ctx_id"`
	ReceivedAt    time.Time       `json:"received_at"`
	PacketType    byte            `json:"packet_type"`
	PacketSubtype byte            `json:"packet_subtype"`
	DeviceID      string          `json:"device_id,omitempty"`
	Data          string          `json:"data"`
	Object        json.RawMessage `json:"object"`
}

// Integration is the interface of an event integration.
type Integration interface {
	// PublishEvent publishes the given event.
	PublishEvent(ctx context.Context, event Event) error

	// Close closes the integration.
	Close() error
}
