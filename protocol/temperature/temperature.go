// Package temperature implements the packet handler for temperature
// sensors (packet type 0x50).
package temperature

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

// payloadLength is the number of bytes a temperature frame carries,
// the header included.
const payloadLength = 9

// Packet is a decoded temperature sensor reading. Temperature is in
// degrees Celsius.
type Packet struct {
	protocol.PacketInfo
	protocol.Header
	ID           string  `json:"id"`
	Temperature  float64 `json:"temperature"`
	SignalLevel  byte    `json:"signal_level"`
	BatteryLevel byte    `json:"battery_level"`
}

// DeviceID returns the sensor id.
func (p *Packet) DeviceID() string {
	return p.ID
}

// Handler decodes temperature sensor packets.
type Handler struct {
	protocol.Decoder
}

// New creates a temperature packet handler.
func New() *Handler {
	return &Handler{
		Decoder: protocol.Decoder{
			Types: protocol.TypeTable{
				0x50: "Temperature sensors",
			},
			Subtypes: protocol.TypeTable{
				0x01: "THR128/138, THC138",
				0x02: "THC238/268, THN132, THWR288, THRN122, THN122, AW129/131",
				0x03: "THWR800",
				0x04: "RTHN318",
				0x05: "La Crosse TX2, TX3, TX4, TX17",
				0x06: "TS15C",
				0x07: "Viking 02811",
				0x08: "La Crosse WS2300",
				0x09: "RUBiCSON",
				0x0A: "TFA 30.3133",
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

	// A frame can pass validation with a consistent but short length
	// byte. The payload fields must not be read past the frame end.
	if len(data) < payloadLength {
		return nil, errors.Errorf("expected a temperature frame of %d bytes, got %d bytes", payloadLength, len(data))
	}

	// Bit 7 of the temperature high byte is the sign.
	temp := float64(int(data[6]&0x7f)<<8|int(data[7])) / 10
	if data[6]&0x80 != 0 {
		temp = -temp
	}

	return &Packet{
		Header:       h.ParseHeader(data),
		ID:           fmt.Sprintf("0x%02X%02X", data[4], data[5]),
		Temperature:  temp,
		SignalLevel:  data[8] >> 4,
		BatteryLevel: data[8] & 0x0f,
	}, nil
}
