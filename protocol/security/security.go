// Package security implements the packet handler for security and
// motion sensors (packet type 0x20).
package security

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

// payloadLength is the number of bytes a security frame carries, the
// header included.
const payloadLength = 9

// Sensor status codes.
var statuses = map[byte]string{
	0x00: "normal",
	0x01: "normal delayed",
	0x02: "alarm",
	0x03: "alarm delayed",
	0x04: "motion",
	0x05: "no motion",
	0x06: "panic",
	0x07: "end panic",
	0x08: "IR",
	0x09: "arm away",
	0x0A: "arm away delayed",
	0x0B: "arm home",
	0x0C: "arm home delayed",
	0x0D: "disarm",
	0x10: "light 1 off",
	0x11: "light 1 on",
	0x12: "light 2 off",
	0x13: "light 2 on",
	0x14: "dark detected",
	0x15: "light detected",
	0x16: "battery low",
	0x17: "pairing KD101",
	0x80: "normal tamper",
	0x81: "normal delayed tamper",
	0x82: "alarm tamper",
	0x83: "alarm delayed tamper",
	0x84: "motion tamper",
	0x85: "no motion tamper",
}

// Packet is a decoded security sensor event.
type Packet struct {
	protocol.PacketInfo
	protocol.Header
	ID           string `json:"id"`
	Status       byte   `json:"status"`
	StatusName   string `json:"status_name,omitempty"`
	SignalLevel  byte   `json:"signal_level"`
	BatteryLevel byte   `json:"battery_level"`
}

// DeviceID returns the sensor id.
func (p *Packet) DeviceID() string {
	return p.ID
}

// Handler decodes security sensor packets.
type Handler struct {
	protocol.Decoder
}

// New creates a security packet handler.
func New() *Handler {
	return &Handler{
		Decoder: protocol.Decoder{
			Types: protocol.TypeTable{
				0x20: "Security sensors",
			},
			Subtypes: protocol.TypeTable{
				0x00: "X10 security door/window sensor",
				0x01: "X10 security motion sensor",
				0x02: "X10 security remote",
				0x03: "KD101 smoke detector",
				0x04: "Visonic PowerCode door/window sensor, primary contact",
				0x05: "Visonic PowerCode motion sensor",
				0x06: "Visonic CodeSecure",
				0x07: "Visonic PowerCode door/window sensor, auxiliary contact",
				0x08: "Meiantech",
				0x09: "SA30 smoke detector",
			},
		},
	}
}

// Load stamps the load metadata and decodes the frame.
func (h *Handler) Load(data []byte) (protocol.Packet, error) {
	info := protocol.NewPacketInfo(data)

	p, err := h.parse(data)
	if err != nil {
		return nil, err
	}
	p.PacketInfo = info

	return p, nil
}

func (h *Handler) parse(data []byte) (*Packet, error) {
	if err := h.Validate(data); err != nil {
		return nil, err
	}

	if len(data) < payloadLength {
		return nil, errors.Errorf("expected a security frame of %d bytes, got %d bytes", payloadLength, len(data))
	}

	return &Packet{
		Header:       h.ParseHeader(data),
		ID:           fmt.Sprintf("0x%02X%02X%02X", data[4], data[5], data[6]),
		Status:       data[7],
		StatusName:   statuses[data[7]],
		SignalLevel:  data[8] >> 4,
		BatteryLevel: data[8] & 0x0f,
	}, nil
}
