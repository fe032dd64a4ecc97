package test

import (
	"sync"
)

// TransceiverBackend is a transceiver backend for testing.
type TransceiverBackend struct {
	mu sync.Mutex

	RXFrames   chan []byte
	SentFrames [][]byte

	closed bool
}

// NewTransceiverBackend creates a new test transceiver backend.
func NewTransceiverBackend() *TransceiverBackend {
	return &TransceiverBackend{
		RXFrames: make(chan []byte, 100),
	}
}

// RXFrameChan returns the frame channel.
func (b *TransceiverBackend) RXFrameChan() chan []byte {
	return b.RXFrames
}

// Send records the sent command frame.
func (b *TransceiverBackend) Send(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.SentFrames = append(b.SentFrames, data)
	return nil
}

// Close closes the frame channel.
func (b *TransceiverBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.closed {
		b.closed = true
		close(b.RXFrames)
	}
	return nil
}
