package protocol

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Error is implemented by every validation error in the protocol
// taxonomy. Errors outside the taxonomy indicate a handler bug, not a
// rejected frame, and must never be absorbed by CanHandle.
type Error interface {
	error
	protocolError()
}

// InvalidPacketLengthError is returned when the length byte of a frame
// does not match the actual number of bytes received.
type InvalidPacketLengthError struct {
	Expected int
	Actual   int
}

func (e *InvalidPacketLengthError) Error() string {
	return fmt.Sprintf("expected packet length to be %d bytes, got %d bytes", e.Expected, e.Actual)
}

func (e *InvalidPacketLengthError) protocolError() {}

// MalformedPacketError is returned when a frame is too short to carry
// the common header.
type MalformedPacketError struct {
	Length int
}

func (e *MalformedPacketError) Error() string {
	return fmt.Sprintf("expected packet length to be at least %d bytes, got %d bytes", HeaderLength, e.Length)
}

func (e *MalformedPacketError) protocolError() {}

// UnknownPacketTypeError is returned when the packet type byte is not
// in the handler's type table.
type UnknownPacketTypeError struct {
	Type     byte
	Accepted []byte
}

func (e *UnknownPacketTypeError) Error() string {
	return fmt.Sprintf("expected packet type to be one of [%s], got 0x%02x", formatCodes(e.Accepted), e.Type)
}

func (e *UnknownPacketTypeError) protocolError() {}

// UnknownPacketSubtypeError is returned when the packet subtype byte
// is not in the handler's subtype table.
type UnknownPacketSubtypeError struct {
	Subtype  byte
	Accepted []byte
}

func (e *UnknownPacketSubtypeError) Error() string {
	return fmt.Sprintf("expected packet subtype to be one of [%s], got 0x%02x", formatCodes(e.Accepted), e.Subtype)
}

func (e *UnknownPacketSubtypeError) protocolError() {}

// IsProtocolError reports whether the given error (or its cause)
// belongs to the validation taxonomy.
func IsProtocolError(err error) bool {
	_, ok := errors.Cause(err).(Error)
	return ok
}

func formatCodes(codes []byte) string {
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		out = append(out, fmt.Sprintf("0x%02x", c))
	}
	sort.Strings(out)
	return strings.Join(out, ",")
}
