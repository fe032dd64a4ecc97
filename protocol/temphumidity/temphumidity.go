// Package temphumidity implements the packet handler for combined
// temperature and humidity sensors (packet type 0x52).
package temphumidity

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

// payloadLength is the number of bytes a temperature/humidity frame
// carries, the header included.
const payloadLength = 11

// Humidity status codes as reported by the sensor.
var humidityStatus = map[byte]string{
	0x00: "dry",
	0x01: "comfort",
	0x02: "normal",
	0x03: "wet",
}

// Packet is a decoded temperature/humidity reading. Temperature is in
// degrees Celsius, humidity in percent.
type Packet struct {
	protocol.PacketInfo
	protocol.Header
	ID                 string  `json:"id"`
	Temperature        float64 `json:"temperature"`
	Humidity           byte    `json:"humidity"`
	HumidityStatus     byte    `json:"humidity_status"`
	HumidityStatusName string  `json:"humidity_status_name,omitempty"`
	SignalLevel        byte    `json:"signal_level"`
	BatteryLevel       byte    `json:"battery_level"`
}

// DeviceID returns the sensor id.
func (p *Packet) DeviceID() string {
	return p.ID
}

// Handler decodes temperature/humidity sensor packets.
type Handler struct {
	protocol.Decoder
}

// New creates a temperature/humidity packet handler.
func New() *Handler {
	return &Handler{
		Decoder: protocol.Decoder{
			Types: protocol.TypeTable{
				0x52: "Temperature and humidity sensors",
			},
			Subtypes: protocol.TypeTable{
				0x01: "THGN122/123, THGN132, THGR122/228/238/268",
				0x02: "THGR810, THGN800",
				0x03: "RTGR328",
				0x04: "THGR328",
				0x05: "WTGR800",
				0x06: "THGR918, THGRN228, THGN500",
				0x07: "TFA TS34C, Cresta",
				0x08: "WT260, WT260H, WT440H, WT450, WT450H",
				0x09: "Viking 02035, 02038",
				0x0A: "Rubicson",
				0x0B: "EW109",
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
		return nil, errors.Errorf("expected a temperature/humidity frame of %d bytes, got %d bytes", payloadLength, len(data))
	}

	temp := float64(int(data[6]&0x7f)<<8|int(data[7])) / 10
	if data[6]&0x80 != 0 {
		temp = -temp
	}

	return &Packet{
		Header:             h.ParseHeader(data),
		ID:                 fmt.Sprintf("0x%02X%02X", data[4], data[5]),
		Temperature:        temp,
		Humidity:           data[8],
		HumidityStatus:     data[9],
		HumidityStatusName: humidityStatus[data[9]],
		SignalLevel:        data[10] >> 4,
		BatteryLevel:       data[10] & 0x0f,
	}, nil
}
