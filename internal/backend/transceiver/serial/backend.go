// Package serial implements a transceiver backend for an RFXtrx
// device connected over (USB) serial.
package serial

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
	goserial "go.bug.st/serial"

	"github.com/rfxtrx/rfxtrx-gateway/internal/backend/transceiver"
	"github.com/rfxtrx/rfxtrx-gateway/internal/config"
	"github.com/rfxtrx/rfxtrx-gateway/protocol"
)

var (
	rxFrameCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backend_serial_rx_count",
		Help: "The number of frames received by the serial backend.",
	})

	txCommandCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backend_serial_tx_count",
		Help: "The number of commands sent by the serial backend.",
	})

	readErrorCounter = promauto.NewCounter(prometheus.CounterOpts{
		Name: "backend_serial_read_error_count",
		Help: "The number of read errors on the serial port.",
	})
)

// The device expects the reset command after power-up, a short period
// of silence, and then the get-status command. It answers the latter
// with an interface status frame (packet type 0x01).
var (
	resetCommand  = []byte{0x0d, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
	statusCommand = []byte{0x0d, 0x00, 0x00, 0x01, 0x02, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}
)

// Backend implements a serial transceiver backend.
type Backend struct {
	sync.Mutex

	wg          sync.WaitGroup
	port        goserial.Port
	rxFrameChan chan []byte
	closed      bool
}

// NewBackend creates a new serial backend, resets the transceiver and
// starts reading frames.
func NewBackend(c config.Config) (transceiver.Transceiver, error) {
	conf := c.Transceiver.Serial

	log.WithFields(log.Fields{
		"port":      conf.Port,
		"baud_rate": conf.BaudRate,
	}).Info("backend/serial: connecting to transceiver")

	port, err := goserial.Open(conf.Port, &goserial.Mode{
		BaudRate: conf.BaudRate,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open serial port error")
	}

	if err := port.SetReadTimeout(conf.ReadTimeout); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "set read timeout error")
	}

	b := Backend{
		port:        port,
		rxFrameChan: make(chan []byte),
	}

	if err := b.reset(); err != nil {
		port.Close()
		return nil, errors.Wrap(err, "reset transceiver error")
	}

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.readLoop()
	}()

	return &b, nil
}

// RXFrameChan returns the channel containing the received frames.
func (b *Backend) RXFrameChan() chan []byte {
	return b.rxFrameChan
}

// Send writes the given command frame to the device.
func (b *Backend) Send(data []byte) error {
	b.Lock()
	defer b.Unlock()

	log.WithField("data", protocol.DumpHex(data)).Debug("backend/serial: sending command")

	if _, err := b.port.Write(data); err != nil {
		return errors.Wrap(err, "write to serial port error")
	}
	txCommandCounter.Inc()

	return nil
}

// Close closes the serial port and waits for the read loop to
// complete. The frame channel is closed afterwards.
func (b *Backend) Close() error {
	log.Info("backend/serial: closing transceiver backend")

	b.Lock()
	b.closed = true
	b.Unlock()

	if err := b.port.Close(); err != nil {
		return errors.Wrap(err, "close serial port error")
	}
	b.wg.Wait()

	return nil
}

func (b *Backend) reset() error {
	if err := b.Send(resetCommand); err != nil {
		return err
	}

	// the device needs at least 50ms of silence after a reset before
	// it accepts the next command
	time.Sleep(100 * time.Millisecond)

	if err := b.port.ResetInputBuffer(); err != nil {
		return errors.Wrap(err, "flush input buffer error")
	}

	return b.Send(statusCommand)
}

func (b *Backend) readLoop() {
	defer close(b.rxFrameChan)

	buf := make([]byte, 1)

	for {
		n, err := b.port.Read(buf)
		if err != nil {
			if b.isClosed() {
				return
			}
			readErrorCounter.Inc()
			log.WithError(err).Error("backend/serial: read error")
			time.Sleep(time.Second)
			continue
		}
		if n == 0 {
			// read timeout
			continue
		}

		// The first byte encodes the number of bytes following it. A
		// zero between frames is line noise.
		length := buf[0]
		if length == 0 {
			continue
		}

		frame := make([]byte, int(length)+1)
		frame[0] = length
		if err := b.readFull(frame[1:]); err != nil {
			if b.isClosed() {
				return
			}
			readErrorCounter.Inc()
			log.WithError(err).Error("backend/serial: read frame error")
			continue
		}

		rxFrameCounter.Inc()
		log.WithField("data", protocol.DumpHex(frame)).Debug("backend/serial: frame received")
		b.rxFrameChan <- frame
	}
}

func (b *Backend) readFull(p []byte) error {
	var read int
	for read < len(p) {
		n, err := b.port.Read(p[read:])
		if err != nil {
			return err
		}
		read += n
	}
	return nil
}

func (b *Backend) isClosed() bool {
	b.Lock()
	defer b.Unlock()
	return b.closed
}
