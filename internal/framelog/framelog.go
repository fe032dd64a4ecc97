// Package framelog publishes every received frame to Redis pub-sub
// channels, so that a live frame log can be followed globally or per
// device.
package framelog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofrs/uuid"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/rfxtrx/rfxtrx-gateway/internal/storage"
)

const (
	frameLogChannel            = "rfx:gw:frame"
	deviceFrameLogChannelTempl = "rfx:gw:device:%s:frame"
)

// FrameLog contains a received frame and its decoded packet.
type FrameLog struct {
	CtxID      uuid.UUID       `json:"ctx_id"`
	ReceivedAt time.Time       `json:"received_at"`
	DeviceID   string          `json:"device_id,omitempty"`
	Data       string          `json:"data"`
	Packet     json.RawMessage `json:"packet"`
}

// LogFrame publishes the frame log to the global channel and, when the
// packet identifies a device, to the per-device channel.
func LogFrame(ctx context.Context, fl FrameLog) error {
	b, err := json.Marshal(fl)
	if err != nil {
		return errors.Wrap(err, "marshal frame log error")
	}

	pipe := storage.RedisClient().TxPipeline()
	pipe.Publish(ctx, frameLogChannel, b)
	if fl.DeviceID != "" {
		pipe.Publish(ctx, fmt.Sprintf(deviceFrameLogChannelTempl, fl.DeviceID), b)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrap(err, "publish frame log error")
	}

	return nil
}

// GetFrameLog subscribes to the global frame log and sends the
// received logs to the given channel, until the context is done.
func GetFrameLog(ctx context.Context, frameLogChan chan FrameLog) error {
	return getFrameLogs(ctx, frameLogChannel, frameLogChan)
}

// GetFrameLogForDevice subscribes to the frame log of the given device
// and sends the received logs to the given channel, until the context
// is done.
func GetFrameLogForDevice(ctx context.Context, deviceID string, frameLogChan chan FrameLog) error {
	return getFrameLogs(ctx, fmt.Sprintf(deviceFrameLogChannelTempl, deviceID), frameLogChan)
}

func getFrameLogs(ctx context.Context, channel string, frameLogChan chan FrameLog) error {
	sub := storage.RedisClient().Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()

	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var fl FrameLog
			if err := json.Unmarshal([]byte(msg.Payload), &fl); err != nil {
				log.WithError(err).WithField("channel", channel).Error("framelog: unmarshal frame log error")
				continue
			}

			frameLogChan <- fl
		case <-ctx.Done():
			return nil
		}
	}
}
