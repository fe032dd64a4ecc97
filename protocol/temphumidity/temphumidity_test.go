package temphumidity

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

func TestLoad(t *testing.T) {
	h := New()

	t.Run("decode", func(t *testing.T) {
		assert := require.New(t)

		data := []byte{0x0a, 0x52, 0x01, 0x2b, 0x96, 0x03, 0x00, 0xd7, 0x36, 0x01, 0x79}
		packet, err := h.Load(data)
		assert.NoError(err)

		p := packet.(*Packet)
		assert.EqualValues(10, p.PacketLength)
		assert.EqualValues(0x52, p.PacketType)
		assert.Equal("Temperature and humidity sensors", p.PacketTypeName)
		assert.Equal("THGN122/123, THGN132, THGR122/228/238/268", p.PacketSubtypeName)
		assert.EqualValues(0x2b, p.SequenceNumber)
		assert.Equal("0x9603", p.ID)
		assert.Equal(21.5, p.Temperature)
		assert.EqualValues(54, p.Humidity)
		assert.EqualValues(1, p.HumidityStatus)
		assert.Equal("comfort", p.HumidityStatusName)
		assert.EqualValues(7, p.SignalLevel)
		assert.EqualValues(9, p.BatteryLevel)
		assert.Equal(data, p.Bytes())
	})

	t.Run("unknown humidity status resolves to an empty name", func(t *testing.T) {
		assert := require.New(t)

		packet, err := h.Load([]byte{0x0a, 0x52, 0x01, 0x2b, 0x96, 0x03, 0x00, 0xd7, 0x36, 0x0f, 0x79})
		assert.NoError(err)
		assert.Equal("", packet.(*Packet).HumidityStatusName)
	})

	t.Run("temperature-only frame is rejected", func(t *testing.T) {
		assert := require.New(t)

		data := []byte{0x08, 0x50, 0x02, 0x11, 0x70, 0x02, 0x00, 0xa8, 0x89}
		assert.False(h.CanHandle(data))

		_, err := h.Load(data)
		assert.True(protocol.IsProtocolError(err))
	})
}

func TestLoadTruncatedFrame(t *testing.T) {
	assert := require.New(t)

	h := New()

	data := []byte{0x05, 0x52, 0x01, 0x00, 0xaa, 0xbb}
	assert.True(h.CanHandle(data))

	_, err := h.Load(data)
	assert.EqualError(err, "expected a temperature/humidity frame of 11 bytes, got 6 bytes")
}
