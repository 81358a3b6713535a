package relay

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
)

var ErrPayloadType = errors.New("payload type does not match topic")

// Topic names an event and fixes its payload type.
type Topic[T any] struct {
	name string
}

func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{name: name}
}

func (t Topic[T]) Name() string {
	return t.name
}

// Handler consumes one payload.
type Handler[T any] func(ctx context.Context, payload T) error

type registration struct {
	id uint64
	fn func(ctx context.Context, payload any) error
}

// Bus maps topic names to their single handler.
type Bus struct {
	// handlers maps topic name -> current registration
	handlers map[string]*registration
	// handlersMu protects handlers and seq
	handlersMu sync.RWMutex
	seq        uint64

	logger logger.Logger
}

func New(log logger.Logger) *Bus {
	if log == nil {
		log = logger.Nop()
	}
	return &Bus{
		handlers: make(map[string]*registration),
		logger:   log,
	}
}

// On registers h for t.
func On[T any](b *Bus, t Topic[T], h Handler[T]) (*Subscription, error) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()

	if _, exists := b.handlers[t.name]; exists {
		return nil, fmt.Errorf("%w: %s", constants.ErrTopicInUse, t.name)
	}

	b.seq++
	reg := &registration{
		id: b.seq,
		fn: func(ctx context.Context, payload any) error {
			p, ok := payload.(T)
			if !ok {
				return fmt.Errorf("%w: %s got %T", ErrPayloadType, t.name, payload)
			}
			return h(ctx, p)
		},
	}
	b.handlers[t.name] = reg
	b.logger.Debug("Handler registered", "topic", t.name)

	return &Subscription{bus: b, topic: t.name, id: reg.id}, nil
}

// Emit delivers payload to the handler of t. It reports whether a handler was
// registered, and returns the handler's error.
func Emit[T any](ctx context.Context, b *Bus, t Topic[T], payload T) (bool, error) {
	b.handlersMu.RLock()
	reg, ok := b.handlers[t.name]
	b.handlersMu.RUnlock()

	if !ok {
		b.logger.Debug("No handler for event", "topic", t.name)
		return false, nil
	}
	return true, reg.fn(ctx, payload)
}

// Off removes whatever handler holds t.
func Off[T any](b *Bus, t Topic[T]) {
	b.Off(t.name)
}

// Off removes the handler of the named topic.
func (b *Bus) Off(name string) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()

	if _, exists := b.handlers[name]; exists {
		delete(b.handlers, name)
		b.logger.Debug("Handler removed", "topic", name)
	}
}

// Has reports whether the named topic currently has a handler.
func (b *Bus) Has(name string) bool {
	b.handlersMu.RLock()
	defer b.handlersMu.RUnlock()
	_, ok := b.handlers[name]
	return ok
}

// Len is the number of held topics.
func (b *Bus) Len() int {
	b.handlersMu.RLock()
	defer b.handlersMu.RUnlock()
	return len(b.handlers)
}

// Close drops every registration.
func (b *Bus) Close() {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()

	for name := range b.handlers {
		delete(b.handlers, name)
		b.logger.Debug("Handler closed", "topic", name)
	}
}

func (b *Bus) release(name string, id uint64) {
	b.handlersMu.Lock()
	defer b.handlersMu.Unlock()

	// the topic may have been cleared with Off and taken by someone else since
	if reg, exists := b.handlers[name]; exists && reg.id == id {
		delete(b.handlers, name)
		b.logger.Debug("Handler released", "topic", name)
	}
}
