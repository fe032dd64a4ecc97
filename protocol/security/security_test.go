package security

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	h := New()

	tests := []struct {
		Name               string
		Data               []byte
		ExpectedID         string
		ExpectedStatus     byte
		ExpectedStatusName string
	}{
		{
			Name:               "motion detected",
			Data:               []byte{0x08, 0x20, 0x01, 0x04, 0x12, 0x34, 0x56, 0x04, 0x89},
			ExpectedID:         "0x123456",
			ExpectedStatus:     0x04,
			ExpectedStatusName: "motion",
		},
		{
			Name:               "door sensor alarm",
			Data:               []byte{0x08, 0x20, 0x00, 0x05, 0xaa, 0xbb, 0xcc, 0x02, 0x79},
			ExpectedID:         "0xAABBCC",
			ExpectedStatus:     0x02,
			ExpectedStatusName: "alarm",
		},
		{
			Name:               "tamper status",
			Data:               []byte{0x08, 0x20, 0x04, 0x06, 0xaa, 0xbb, 0xcc, 0x84, 0x79},
			ExpectedID:         "0xAABBCC",
			ExpectedStatus:     0x84,
			ExpectedStatusName: "motion tamper",
		},
	}

	for _, tst := range tests {
		t.Run(tst.Name, func(t *testing.T) {
			assert := require.New(t)

			assert.True(h.CanHandle(tst.Data))
			packet, err := h.Load(tst.Data)
			assert.NoError(err)

			p := packet.(*Packet)
			assert.Equal(tst.ExpectedID, p.ID)
			assert.Equal(tst.ExpectedStatus, p.Status)
			assert.Equal(tst.ExpectedStatusName, p.StatusName)
			assert.Equal(tst.Data, p.Bytes())
		})
	}
}

func TestCanHandleRejectsUnknownSubtype(t *testing.T) {
	assert := require.New(t)

	h := New()
	assert.False(h.CanHandle([]byte{0x08, 0x20, 0x7f, 0x04, 0x12, 0x34, 0x56, 0x04, 0x89}))
}

func TestLoadTruncatedFrame(t *testing.T) {
	assert := require.New(t)

	h := New()

	data := []byte{0x05, 0x20, 0x01, 0x00, 0xaa, 0xbb}
	assert.True(h.CanHandle(data))

	_, err := h.Load(data)
	assert.EqualError(err, "expected a security frame of 9 bytes, got 6 bytes")
}
