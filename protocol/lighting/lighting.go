// Package lighting implements the packet handler for Lighting5
// switches and dimmers (packet type 0x14).
package lighting

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

// payloadLength is the number of bytes a Lighting5 frame carries, the
// header included.
const payloadLength = 11

// Commands supported by Lighting5 devices. Not every subtype supports
// every command.
var commands = map[byte]string{
	0x00: "off",
	0x01: "on",
	0x02: "group off",
	0x03: "mood 1 / learn",
	0x04: "mood 2",
	0x05: "mood 3",
	0x06: "mood 4",
	0x07: "mood 5",
	0x0A: "unlock",
	0x0B: "lock",
	0x0C: "all lock",
	0x0D: "close relay",
	0x0E: "stop relay",
	0x0F: "open relay",
	0x10: "set level",
}

// Packet is a decoded Lighting5 command.
type Packet struct {
	protocol.PacketInfo
	protocol.Header
	ID          string `json:"id"`
	UnitCode    byte   `json:"unit_code"`
	Command     byte   `json:"command"`
	CommandName string `json:"command_name,omitempty"`
	Level       byte   `json:"level"`
	SignalLevel byte   `json:"signal_level"`
}

// DeviceID returns the switch id.
func (p *Packet) DeviceID() string {
	return p.ID
}

// Handler decodes Lighting5 packets.
type Handler struct {
	protocol.Decoder
}

// New creates a Lighting5 packet handler.
func New() *Handler {
	return &Handler{
		Decoder: protocol.Decoder{
			Types: protocol.TypeTable{
				0x14: "Lighting5",
			},
			Subtypes: protocol.TypeTable{
				0x00: "LightwaveRF, Siemens",
				0x01: "EMW100 GAO/Everflourish",
				0x02: "BBSB new types",
				0x03: "MDREMOTE LED dimmer",
				0x04: "Conrad RSL2",
				0x05: "Livolo",
				0x06: "TRC02",
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
		return nil, errors.Errorf("expected a Lighting5 frame of %d bytes, got %d bytes", payloadLength, len(data))
	}

	return &Packet{
		Header:      h.ParseHeader(data),
		ID:          fmt.Sprintf("0x%02X%02X%02X", data[4], data[5], data[6]),
		UnitCode:    data[7],
		Command:     data[8],
		CommandName: commands[data[8]],
		Level:       data[9],
		SignalLevel: data[10] >> 4,
	}, nil
}
