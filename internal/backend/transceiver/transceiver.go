// Package transceiver defines the interface of the backend that talks
// to the RFXtrx device.
package transceiver

var backend Transceiver

// Backend returns the transceiver backend.
func Backend() Transceiver {
	return backend
}

// SetBackend sets the given transceiver backend.
func SetBackend(b Transceiver) {
	backend = b
}

// Transceiver is the interface of a transceiver backend. A backend is
// responsible for the communication with the device and delivers one
// complete frame per channel element; re-assembly of the
// length-prefixed wire format happens inside the backend.
type Transceiver interface {
	RXFrameChan() chan []byte // channel containing the received frames
	Send(data []byte) error   // send the given command frame to the device
	Close() error             // close the transceiver backend
}
