package lighting

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	h := New()

	t.Run("switch on", func(t *testing.T) {
		assert := require.New(t)

		data := []byte{0x0a, 0x14, 0x00, 0x2d, 0xf3, 0x94, 0x01, 0x10, 0x01, 0x00, 0x70}
		assert.True(h.CanHandle(data))

		packet, err := h.Load(data)
		assert.NoError(err)

		p := packet.(*Packet)
		assert.Equal("Lighting5", p.PacketTypeName)
		assert.Equal("LightwaveRF, Siemens", p.PacketSubtypeName)
		assert.Equal("0xF39401", p.ID)
		assert.EqualValues(0x10, p.UnitCode)
		assert.EqualValues(0x01, p.Command)
		assert.Equal("on", p.CommandName)
		assert.EqualValues(0, p.Level)
		assert.EqualValues(7, p.SignalLevel)
	})

	t.Run("set level", func(t *testing.T) {
		assert := require.New(t)

		packet, err := h.Load([]byte{0x0a, 0x14, 0x00, 0x2e, 0xf3, 0x94, 0x01, 0x10, 0x10, 0x14, 0x70})
		assert.NoError(err)

		p := packet.(*Packet)
		assert.Equal("set level", p.CommandName)
		assert.EqualValues(0x14, p.Level)
	})

	t.Run("unsupported subtype", func(t *testing.T) {
		assert := require.New(t)
		assert.False(h.CanHandle([]byte{0x0a, 0x14, 0x10, 0x2d, 0xf3, 0x94, 0x01, 0x10, 0x01, 0x00, 0x70}))
	})
}

func TestLoadTruncatedFrame(t *testing.T) {
	assert := require.New(t)

	h := New()

	data := []byte{0x05, 0x14, 0x01, 0x00, 0xaa, 0xbb}
	assert.True(h.CanHandle(data))

	_, err := h.Load(data)
	assert.EqualError(err, "expected a Lighting5 frame of 11 bytes, got 6 bytes")
}
