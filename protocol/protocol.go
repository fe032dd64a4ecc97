// Package protocol implements the framing layer shared by all RFXtrx
// packet handlers: the common four-byte header, the frame validation
// rules and the handler contract consumed by the dispatch registry.
package protocol

import (
	"encoding/hex"
	"strings"
	"time"
)

// HeaderLength is the number of bytes every valid frame carries before
// the device-specific payload: packet length, packet type, packet
// subtype and sequence number.
const HeaderLength = 4

// TypeTable maps a packet type or subtype code to a human-readable
// name. A nil or empty table does not constrain validation: any code
// is accepted.
type TypeTable map[byte]string

// Handler is the interface of a packet handler. A handler understands
// the frames of a single device family, plus the catch-all RawHandler
// which accepts anything.
type Handler interface {
	// CanHandle reports whether this handler understands the given
	// frame. It must not return an error: validation rejections are
	// absorbed and reported as false.
	CanHandle(data []byte) bool

	// Load decodes the frame into a packet. It does not absorb
	// anything: callers that skip CanHandle get the validation error.
	Load(data []byte) (Packet, error)
}

// DevicePacket is implemented by packets that identify a single
// device, e.g. a sensor reading or a switch command. Family is
// promoted from the embedded Header.
type DevicePacket interface {
	Packet

	// DeviceID returns the device id reported in the packet.
	DeviceID() string

	// Family returns the resolved packet type name.
	Family() string
}

// Packet is implemented by every decoded packet.
type Packet interface {
	// Bytes returns the raw frame the packet was decoded from.
	Bytes() []byte

	// ReceivedAt returns the time at which the frame was loaded.
	ReceivedAt() time.Time
}

// PacketInfo holds the load metadata common to every packet variant.
// It is stamped once by Load and not mutated afterwards.
type PacketInfo struct {
	LoadedAt time.Time `json:"loaded_at"`
	Raw      []byte    `json:"-"`
}

// Bytes implements the Packet interface.
func (p PacketInfo) Bytes() []byte {
	return p.Raw
}

// ReceivedAt implements the Packet interface.
func (p PacketInfo) ReceivedAt() time.Time {
	return p.LoadedAt
}

// NewPacketInfo stamps the load time and stores a copy of the raw
// frame, so that the packet stays valid when the read buffer is
// reused.
func NewPacketInfo(data []byte) PacketInfo {
	raw := make([]byte, len(data))
	copy(raw, data)

	return PacketInfo{
		LoadedAt: time.Now().UTC(),
		Raw:      raw,
	}
}

// DumpHex returns the frame formatted as an uppercase hex string,
// e.g. "0x0850020B".
func DumpHex(data []byte) string {
	return "0x" + strings.ToUpper(hex.EncodeToString(data))
}
