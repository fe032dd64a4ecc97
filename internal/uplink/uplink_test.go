package uplink

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rfxtrx/rfxtrx-gateway/internal/backend/transceiver"
	"github.com/rfxtrx/rfxtrx-gateway/internal/integration"
	"github.com/rfxtrx/rfxtrx-gateway/internal/logging"
	"github.com/rfxtrx/rfxtrx-gateway/internal/test"
)

func TestHandleFrame(t *testing.T) {
	i := test.NewIntegration()
	integration.SetIntegration(i)
	defer integration.SetIntegration(nil)

	newContext := func(t *testing.T) context.Context {
		ctx, _, err := logging.NewContextWithID(context.Background())
		require.NoError(t, err)
		return ctx
	}

	t.Run("temperature frame", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(HandleFrame(newContext(t), []byte{0x08, 0x50, 0x02, 0x11, 0x70, 0x02, 0x00, 0xa8, 0x89}))

		event := <-i.Events
		assert.EqualValues(0x50, event.PacketType)
		assert.EqualValues(0x02, event.PacketSubtype)
		assert.Equal("0x7002", event.DeviceID)
		assert.Equal("0x0850021170020000A889", event.Data)
		assert.NotEqual(event.CtxID.String(), "00000000-0000-0000-0000-000000000000")

		var object map[string]interface{}
		assert.NoError(json.Unmarshal(event.Object, &object))
		assert.Equal(16.8, object["temperature"])
		assert.Equal("Temperature sensors", object["packet_type_name"])
	})

	t.Run("unknown frame falls back to the raw handler", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(HandleFrame(newContext(t), []byte{0x06, 0x42, 0x00, 0x01, 0xaa, 0xbb, 0xcc}))

		event := <-i.Events
		assert.EqualValues(0x42, event.PacketType)
		assert.Equal("", event.DeviceID)

		var object map[string]interface{}
		assert.NoError(json.Unmarshal(event.Object, &object))
		assert.NotNil(object["packet"])
	})

	t.Run("truncated sensor frame reports an error", func(t *testing.T) {
		assert := require.New(t)

		err := HandleFrame(newContext(t), []byte{0x05, 0x50, 0x01, 0x00, 0xaa, 0xbb})
		assert.Error(err)

		select {
		case event := <-i.Events:
			t.Fatalf("unexpected event published: %+v", event)
		default:
		}
	})

	t.Run("frame too short for any record is dropped", func(t *testing.T) {
		assert := require.New(t)

		assert.NoError(HandleFrame(newContext(t), []byte{0x01, 0x00}))

		select {
		case event := <-i.Events:
			t.Fatalf("unexpected event published: %+v", event)
		default:
		}
	})
}

func TestServer(t *testing.T) {
	assert := require.New(t)

	backend := test.NewTransceiverBackend()
	transceiver.SetBackend(backend)

	i := test.NewIntegration()
	integration.SetIntegration(i)
	defer integration.SetIntegration(nil)

	server := NewServer()
	assert.NoError(server.Start())

	backend.RXFrames <- []byte{0x08, 0x20, 0x01, 0x04, 0x12, 0x34, 0x56, 0x04, 0x89}

	select {
	case event := <-i.Events:
		assert.EqualValues(0x20, event.PacketType)
		assert.Equal("0x123456", event.DeviceID)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}

	assert.NoError(server.Stop())
}

func TestServerStopWaitsForPendingFrames(t *testing.T) {
	assert := require.New(t)

	backend := test.NewTransceiverBackend()
	transceiver.SetBackend(backend)

	i := test.NewIntegration()
	integration.SetIntegration(i)
	defer integration.SetIntegration(nil)

	server := NewServer()
	assert.NoError(server.Start())

	// Stop right after a frame arrived. Stop must block until the
	// frame has been handled, so the event is there when it returns.
	backend.RXFrames <- []byte{0x08, 0x50, 0x02, 0x11, 0x70, 0x02, 0x00, 0xa8, 0x89}
	assert.NoError(server.Stop())

	select {
	case event := <-i.Events:
		assert.Equal("0x7002", event.DeviceID)
	default:
		t.Fatal("no event published before Stop returned")
	}
}
