package protocol

import "github.com/pkg/errors"

// ErrNoHandler is returned by Dispatch when no registered handler
// claims the frame. With the catch-all RawHandler registered this
// does not happen.
var ErrNoHandler = errors.New("no handler for frame")

// Registry is an ordered collection of packet handlers. Handlers are
// tried in registration order, so the most specific handlers must be
// registered first and the catch-all last.
type Registry struct {
	handlers []Handler
}

// NewRegistry creates a registry with the given handlers.
func NewRegistry(handlers ...Handler) *Registry {
	return &Registry{
		handlers: handlers,
	}
}

// Register appends a handler to the registry.
func (r *Registry) Register(h Handler) {
	r.handlers = append(r.handlers, h)
}

// Dispatch loads the frame with the first handler that claims it.
func (r *Registry) Dispatch(data []byte) (Packet, error) {
	for _, h := range r.handlers {
		if h.CanHandle(data) {
			return h.Load(data)
		}
	}
	return nil, ErrNoHandler
}
