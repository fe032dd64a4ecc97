package protocol

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type testHandler struct {
	Decoder
}

func (h *testHandler) Load(data []byte) (Packet, error) {
	if err := h.Validate(data); err != nil {
		return nil, err
	}

	return &RawPacket{
		PacketInfo:    NewPacketInfo(data),
		PacketLength:  data[0],
		PacketType:    data[1],
		PacketSubtype: data[2],
		Packet:        data,
	}, nil
}

func TestRegistryDispatch(t *testing.T) {
	temperature := &testHandler{Decoder{Types: TypeTable{0x50: "Temperature sensors"}}}
	security := &testHandler{Decoder{Types: TypeTable{0x20: "Security sensors"}}}

	t.Run("first claiming handler wins", func(t *testing.T) {
		assert := require.New(t)

		r := NewRegistry(temperature, security, &RawHandler{})
		packet, err := r.Dispatch([]byte{0x04, 0x20, 0x00, 0x01, 0xaa})
		assert.NoError(err)
		assert.EqualValues(0x20, packet.(*RawPacket).PacketType)
	})

	t.Run("unclaimed frame falls back to the catch-all", func(t *testing.T) {
		assert := require.New(t)

		r := NewRegistry(temperature, security, &RawHandler{})
		packet, err := r.Dispatch([]byte{0x04, 0x5a, 0x00, 0x01, 0xaa})
		assert.NoError(err)

		_, ok := packet.(*RawPacket)
		assert.True(ok)
	})

	t.Run("no handler without a catch-all", func(t *testing.T) {
		assert := require.New(t)

		r := NewRegistry(temperature, security)
		_, err := r.Dispatch([]byte{0x04, 0x5a, 0x00, 0x01, 0xaa})
		assert.Equal(ErrNoHandler, err)
	})

	t.Run("register keeps order", func(t *testing.T) {
		assert := require.New(t)

		r := NewRegistry()
		r.Register(temperature)
		r.Register(&RawHandler{})

		packet, err := r.Dispatch([]byte{0x08, 0x50, 0x02, 0x01, 0x70, 0x02, 0x00, 0xe1, 0x79})
		assert.NoError(err)
		assert.EqualValues(0x50, packet.(*RawPacket).PacketType)
	})
}
