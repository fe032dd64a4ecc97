package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	decoder := Decoder{
		Types: TypeTable{
			0x50: "Temperature sensors",
			0x52: "Temperature and humidity sensors",
		},
		Subtypes: TypeTable{
			0x01: "Subtype 1",
			0x02: "Subtype 2",
		},
	}

	tests := []struct {
		Name          string
		Data          []byte
		ExpectedError error
	}{
		{
			Name: "valid frame",
			Data: []byte{0x08, 0x50, 0x02, 0x01, 0x70, 0x02, 0x00, 0xe1, 0x79},
		},
		{
			Name:          "length byte does not match frame size",
			Data:          []byte{0x08, 0x50, 0x02, 0x01, 0x70, 0x02, 0x00, 0xe1},
			ExpectedError: &InvalidPacketLengthError{Expected: 9, Actual: 8},
		},
		{
			Name:          "frame too short for the header",
			Data:          []byte{0x02, 0x50, 0x02},
			ExpectedError: &MalformedPacketError{Length: 3},
		},
		{
			Name:          "unknown packet type",
			Data:          []byte{0x08, 0x20, 0x02, 0x01, 0x70, 0x02, 0x00, 0xe1, 0x79},
			ExpectedError: &UnknownPacketTypeError{Type: 0x20, Accepted: []byte{0x50, 0x52}},
		},
		{
			Name:          "unknown packet subtype",
			Data:          []byte{0x08, 0x50, 0x0a, 0x01, 0x70, 0x02, 0x00, 0xe1, 0x79},
			ExpectedError: &UnknownPacketSubtypeError{Subtype: 0x0a, Accepted: []byte{0x01, 0x02}},
		},
		{
			Name:          "length check runs before the type check",
			Data:          []byte{0x08, 0xff, 0xff, 0x01, 0x70, 0x02, 0x00, 0xe1},
			ExpectedError: &InvalidPacketLengthError{Expected: 9, Actual: 8},
		},
	}

	for _, tst := range tests {
		t.Run(tst.Name, func(t *testing.T) {
			assert := require.New(t)

			err := decoder.Validate(tst.Data)
			if tst.ExpectedError == nil {
				assert.NoError(err)
				return
			}

			assert.Error(err)
			assert.True(IsProtocolError(err))

			switch expected := tst.ExpectedError.(type) {
			case *InvalidPacketLengthError:
				var got *InvalidPacketLengthError
				assert.ErrorAs(err, &got)
				assert.Equal(expected.Expected, got.Expected)
				assert.Equal(expected.Actual, got.Actual)
			case *MalformedPacketError:
				var got *MalformedPacketError
				assert.ErrorAs(err, &got)
				assert.Equal(expected.Length, got.Length)
			case *UnknownPacketTypeError:
				var got *UnknownPacketTypeError
				assert.ErrorAs(err, &got)
				assert.Equal(expected.Type, got.Type)
				assert.ElementsMatch(expected.Accepted, got.Accepted)
			case *UnknownPacketSubtypeError:
				var got *UnknownPacketSubtypeError
				assert.ErrorAs(err, &got)
				assert.Equal(expected.Subtype, got.Subtype)
				assert.ElementsMatch(expected.Accepted, got.Accepted)
			}
		})
	}
}

func TestValidateEmptyTables(t *testing.T) {
	assert := require.New(t)

	// A decoder without tables accepts any type and subtype once the
	// length rules pass.
	decoder := Decoder{}

	assert.NoError(decoder.Validate([]byte{0x04, 0xff, 0xff, 0x00, 0xab}))
	assert.Error(decoder.Validate([]byte{0x05, 0xff, 0xff, 0x00, 0xab}))
}

func TestCanHandle(t *testing.T) {
	decoder := Decoder{
		Types:    TypeTable{0x50: "Temperature sensors"},
		Subtypes: TypeTable{0x01: "Subtype 1"},
	}

	tests := []struct {
		Name     string
		Data     []byte
		Expected bool
	}{
		{
			Name:     "valid frame",
			Data:     []byte{0x08, 0x50, 0x01, 0x2a, 0x70, 0x02, 0x00, 0xe1, 0x79},
			Expected: true,
		},
		{
			Name:     "invalid length",
			Data:     []byte{0x09, 0x50, 0x01, 0x2a, 0x70, 0x02, 0x00, 0xe1, 0x79},
			Expected: false,
		},
		{
			Name:     "unknown type",
			Data:     []byte{0x08, 0x5a, 0x01, 0x2a, 0x70, 0x02, 0x00, 0xe1, 0x79},
			Expected: false,
		},
		{
			Name:     "unknown subtype",
			Data:     []byte{0x08, 0x50, 0x03, 0x2a, 0x70, 0x02, 0x00, 0xe1, 0x79},
			Expected: false,
		},
	}

	for _, tst := range tests {
		t.Run(tst.Name, func(t *testing.T) {
			assert := require.New(t)
			assert.Equal(tst.Expected, decoder.CanHandle(tst.Data))
		})
	}
}

func TestParseHeader(t *testing.T) {
	assert := require.New(t)

	decoder := Decoder{
		Types:    TypeTable{0x20: "Security sensors"},
		Subtypes: TypeTable{0x01: "X10 security motion sensor"},
	}

	header := decoder.ParseHeader([]byte{0x07, 0x20, 0x01, 0x05, 0xaa, 0xbb, 0xcc, 0xdd})
	assert.Equal(Header{
		PacketLength:      7,
		PacketType:        0x20,
		PacketTypeName:    "Security sensors",
		PacketSubtype:     0x01,
		PacketSubtypeName: "X10 security motion sensor",
		SequenceNumber:    0x05,
	}, header)

	// Codes missing from the tables resolve to an empty name.
	header = decoder.ParseHeader([]byte{0x07, 0x21, 0x02, 0x05, 0xaa, 0xbb, 0xcc, 0xdd})
	assert.Equal("", header.PacketTypeName)
	assert.Equal("", header.PacketSubtypeName)
}
