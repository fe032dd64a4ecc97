// Package status implements the packet handler for interface status
// messages sent by the transceiver itself (packet type 0x01), e.g. in
// response to the get-status command issued at startup.
package status

import (
	"github.com/pkg/errors"

	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

// payloadLength is the number of bytes of an interface status message
// the handler reads, the header included.
const payloadLength = 10

// Transceiver hardware variants by frequency.
var transceiverTypes = map[byte]string{
	0x50: "310MHz",
	0x51: "315MHz",
	0x52: "433.92MHz receiver only",
	0x53: "433.92MHz transceiver",
	0x55: "868.00MHz",
	0x56: "868.00MHz FSK",
	0x57: "868.30MHz",
	0x58: "868.30MHz FSK",
	0x59: "868.35MHz",
	0x5A: "868.35MHz FSK",
	0x5B: "868.95MHz",
}

// Receiver protocol flags, keyed by message byte offset and bit mask.
var protocols = []struct {
	offset int
	mask   byte
	name   string
}{
	{7, 0x80, "undecoded"},
	{7, 0x40, "RFU"},
	{7, 0x20, "Byron SX"},
	{7, 0x10, "RSL"},
	{7, 0x08, "Lighting4"},
	{7, 0x04, "FineOffset/Viking"},
	{7, 0x02, "Rubicson"},
	{7, 0x01, "AE Blyss"},
	{8, 0x80, "BlindsT1/T2/T3/T4"},
	{8, 0x40, "BlindsT0"},
	{8, 0x20, "ProGuard"},
	{8, 0x10, "FS20"},
	{8, 0x08, "La Crosse"},
	{8, 0x04, "Hideki/UPM"},
	{8, 0x02, "AD LightwaveRF"},
	{8, 0x01, "Mertik"},
	{9, 0x80, "Visonic"},
	{9, 0x40, "ATI"},
	{9, 0x20, "Oregon Scientific"},
	{9, 0x10, "Meiantech"},
	{9, 0x08, "HomeEasy EU"},
	{9, 0x04, "AC"},
	{9, 0x02, "ARC"},
	{9, 0x01, "X10"},
}

// Packet is a decoded interface status message.
type Packet struct {
	protocol.PacketInfo
	protocol.Header
	Command             byte     `json:"command"`
	TransceiverType     byte     `json:"transceiver_type"`
	TransceiverTypeName string   `json:"transceiver_type_name,omitempty"`
	FirmwareVersion     byte     `json:"firmware_version"`
	EnabledProtocols    []string `json:"enabled_protocols"`
}

// Handler decodes interface status packets.
type Handler struct {
	protocol.Decoder
}

// New creates an interface status packet handler.
func New() *Handler {
	return &Handler{
		Decoder: protocol.Decoder{
			Types: protocol.TypeTable{
				0x01: "Interface message",
			},
			Subtypes: protocol.TypeTable{
				0x00: "Interface response",
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
		return nil, errors.Errorf("expected an interface status frame of at least %d bytes, got %d bytes", payloadLength, len(data))
	}

	enabled := []string{}
	for _, p := range protocols {
		if data[p.offset]&p.mask != 0 {
			enabled = append(enabled, p.name)
		}
	}

	return &Packet{
		Header:              h.ParseHeader(data),
		Command:             data[4],
		TransceiverType:     data[5],
		TransceiverTypeName: transceiverTypes[data[5]],
		FirmwareVersion:     data[6],
		EnabledProtocols:    enabled,
	}, nil
}
