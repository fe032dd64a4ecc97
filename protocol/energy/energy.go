// Package energy implements the packet handler for power meters
// (packet type 0x5A).
package energy

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

// The total usage counter is reported in units of 1/223.666 Wh.
const totalUsageDivisor = 223.666

// payloadLength is the number of bytes an energy frame carries, the
// header included.
const payloadLength = 18

// Packet is a decoded power meter reading. CurrentWatts is the
// instantaneous draw, TotalWattHours the lifetime counter of the
// meter.
type Packet struct {
	protocol.PacketInfo
	protocol.Header
	ID             string  `json:"id"`
	Count          byte    `json:"count"`
	CurrentWatts   uint32  `json:"current_watts"`
	TotalWattHours float64 `json:"total_watt_hours"`
	SignalLevel    byte    `json:"signal_level"`
	BatteryLevel   byte    `json:"battery_level"`
}

// DeviceID returns the meter id.
func (p *Packet) DeviceID() string {
	return p.ID
}

// Handler decodes power meter packets.
type Handler struct {
	protocol.Decoder
}

// New creates an energy packet handler.
func New() *Handler {
	return &Handler{
		Decoder: protocol.Decoder{
			Types: protocol.TypeTable{
				0x5A: "Energy usage sensors",
			},
			Subtypes: protocol.TypeTable{
				0x01: "CM119/160",
				0x02: "CM180",
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
		return nil, errors.Errorf("expected an energy frame of %d bytes, got %d bytes", payloadLength, len(data))
	}

	current := uint32(data[7])<<24 | uint32(data[8])<<16 | uint32(data[9])<<8 | uint32(data[10])

	var total float64
	for _, b := range data[11:17] {
		total = total*256 + float64(b)
	}
	total /= totalUsageDivisor

	return &Packet{
		Header:         h.ParseHeader(data),
		ID:             fmt.Sprintf("0x%02X%02X", data[4], data[5]),
		Count:          data[6],
		CurrentWatts:   current,
		TotalWattHours: total,
		SignalLevel:    data[17] >> 4,
		BatteryLevel:   data[17] & 0x0f,
	}, nil
}
