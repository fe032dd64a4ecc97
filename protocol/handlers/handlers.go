// Package handlers wires the default set of packet handlers into a
// dispatch registry.
package handlers

import (
	"github.com/rfxtrx/rfxtrx-gateway/protocol"
	"github.com/rfxtrx/rfxtrx-gateway/protocol/energy"
	"github.com/rfxtrx/rfxtrx-gateway/protocol/lighting"
	"github.com/rfxtrx/rfxtrx-gateway/protocol/security"
	"github.com/rfxtrx/rfxtrx-gateway/protocol/status"
	"github.com/rfxtrx/rfxtrx-gateway/protocol/temperature"
	"github.com/rfxtrx/rfxtrx-gateway/protocol/temphumidity"
)

// Default returns a registry with all family handlers registered and
// the catch-all raw handler last, so every frame resolves to some
// packet.
func Default() *protocol.Registry {
	return protocol.NewRegistry(
		status.New(),
		temperature.New(),
		temphumidity.New(),
		lighting.New(),
		security.New(),
		energy.New(),
		&protocol.RawHandler{},
	)
}
