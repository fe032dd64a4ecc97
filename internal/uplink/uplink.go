// Package uplink implements the server consuming the frames received
// by the transceiver backend.
package uplink

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"

	"github.com/rfxtrx/rfxtrx-gateway/internal/backend/transceiver"
	"github.com/rfxtrx/rfxtrx-gateway/internal/framelog"
	"github.com/rfxtrx/rfxtrx-gateway/internal/integration"
	"github.com/rfxtrx/rfxtrx-gateway/internal/logging"
	"github.com/rfxtrx/rfxtrx-gateway/internal/storage"
	"github.com/rfxtrx/rfxtrx-gateway/protocol"
	"github.com/rfxtrx/rfxtrx-gateway/protocol/handlers"
)

var (
	rxFrameCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_frame_count",
		Help: "The number of received frames.",
	})

	rxRawCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_frame_raw_count",
		Help: "The number of received frames only the catch-all handler accepted.",
	})

	rxErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "uplink_frame_error_count",
		Help: "The number of frames that could not be processed.",
	})
)

// registry holds the packet handlers tried in order for every frame.
var registry = handlers.Default()

// Server represents a server listening for frames from the
// transceiver.
type Server struct {
	wg sync.WaitGroup
}

// NewServer creates a new server.
func NewServer() *Server {
	return &Server{}
}

// Start starts the frame handling.
func (s *Server) Start() error {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		HandleFrames(&s.wg)
	}()
	return nil
}

// Stop closes the transceiver backend and waits for the pending
// frames to complete.
func (s *Server) Stop() error {
	if err := transceiver.Backend().Close(); err != nil {
		return errors.Wrap(err, "close transceiver backend error")
	}
	log.Info("uplink: waiting for pending frames to complete")
	s.wg.Wait()
	return nil
}

// HandleFrames consumes the frames received by the transceiver
// backend and handles each in a separate go-routine. Errors are
// logged.
func HandleFrames(wg *sync.WaitGroup) {
	for data := range transceiver.Backend().RXFrameChan() {
		// counted before the goroutine starts, so Stop cannot return
		// between receiving a frame and waiting for it
		wg.Add(1)
		go func(data []byte) {
			defer wg.Done()

			ctx, ctxID, err := logging.NewContextWithID(context.Background())
			if err != nil {
				log.WithError(err).Error("uplink: get context id error")
				return
			}

			if err := HandleFrame(ctx, data); err != nil {
				rxErrorCounter.Inc()
				log.WithFields(log.Fields{
					"data":   protocol.DumpHex(data),
					"ctx_id": ctxID,
				}).WithError(err).Error("uplink: processing frame error")
			}
		}(data)
	}
}

// HandleFrame dispatches a single frame to the packet handler
// registry and forwards the decoded packet to the device registry, the
// frame log and the integration.
func HandleFrame(ctx context.Context, data []byte) error {
	rxFrameCounter.Inc()

	// Sub-header noise can not be attributed to any handler, not even
	// the catch-all.
	if len(data) < 3 {
		log.WithFields(log.Fields{
			"data":   protocol.DumpHex(data),
			"ctx_id": ctx.Value(logging.ContextIDKey),
		}).Warning("uplink: frame too short, ignored")
		return nil
	}

	packet, err := registry.Dispatch(data)
	if err != nil {
		return errors.Wrap(err, "dispatch frame error")
	}

	fields := log.Fields{
		"data":   protocol.DumpHex(data),
		"ctx_id": ctx.Value(logging.ContextIDKey),
	}

	var deviceID string
	if dp, ok := packet.(protocol.DevicePacket); ok {
		deviceID = dp.DeviceID()
		fields["device_id"] = deviceID
	}

	if _, ok := packet.(*protocol.RawPacket); ok {
		rxRawCounter.Inc()
		log.WithFields(fields).Warning("uplink: frame not claimed by any handler")
	} else {
		log.WithFields(fields).Info("uplink: frame received")
	}

	packetB, err := json.Marshal(packet)
	if err != nil {
		return errors.Wrap(err, "marshal packet error")
	}

	if err := saveDevice(ctx, packet, deviceID, packetB); err != nil {
		return err
	}

	if err := logFrame(ctx, packet, deviceID, packetB); err != nil {
		// the frame log is a diagnostics stream, losing a frame is
		// not fatal to the uplink flow
		log.WithFields(fields).WithError(err).Error("uplink: log frame error")
	}

	if i := integration.GetIntegration(); i != nil {
		event := integration.Event{
			ReceivedAt:    packet.ReceivedAt(),
			PacketType:    data[1],
			PacketSubtype: data[2],
			DeviceID:      deviceID,
			Data:          protocol.DumpHex(data),
			Object:        packetB,
		}
		if ctxID, ok := ctx.Value(logging.ContextIDKey).(uuid.UUID); ok {
			event.CtxID = ctxID
		}

		if err := i.PublishEvent(ctx, event); err != nil {
			return errors.Wrap(err, "publish event error")
		}
	}

	return nil
}

func saveDevice(ctx context.Context, packet protocol.Packet, deviceID string, packetB []byte) error {
	if deviceID == "" || storage.DB() == nil {
		return nil
	}

	dp := packet.(protocol.DevicePacket)
	data := packet.Bytes()

	err := storage.UpsertDeviceSeen(ctx, storage.DB(), &storage.Device{
		ID:            deviceID,
		PacketType:    data[1],
		PacketSubtype: data[2],
		Family:        dp.Family(),
		LastPacket:    packetB,
	})
	if err != nil {
		return errors.Wrap(err, "upsert device error")
	}

	return nil
}

func logFrame(ctx context.Context, packet protocol.Packet, deviceID string, packetB []byte) error {
	if storage.RedisClient() == nil {
		return nil
	}

	fl := framelog.FrameLog{
		ReceivedAt: packet.ReceivedAt(),
		DeviceID:   deviceID,
		Data:       protocol.DumpHex(packet.Bytes()),
		Packet:     packetB,
	}
	if ctxID, ok := ctx.Value(logging.ContextIDKey).(uuid.UUID); ok {
		fl.CtxID = ctxID
	}

	return framelog.LogFrame(ctx, fl)
}
