package relay

import (
	"sync"
)

// Subscription is the right to a topic, held until Close.
type Subscription struct {
	bus   *Bus
	topic string
	id    uint64
	once  sync.Once
}

func (s *Subscription) Topic() string {
	return s.topic
}

// Close releases the topic. Calling it again, or after the topic was cleared with Off,
// does nothing.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.release(s.topic, s.id)
	})
}

// Scoped holds t for the duration of fn. The handler is released when fn returns or
// panics.
func Scoped[T any](b *Bus, t Topic[T], h Handler[T], fn func() error) error {
	sub, err := On(b, t, h)
	if err != nil {
		return err
	}
	defer sub.Close()
	return fn()
}

// Group collects the subscriptions of one component so they can be released together.
type Group struct {
	mu   sync.Mutex
	subs []*Subscription
}

// Add appends sub to the group and passes err through, so calls can be chained:
//
//	err := g.Add(relay.On(bus, topic, handler))
func (g *Group) Add(sub *Subscription, err error) error {
	if err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subs = append(g.subs, sub)
	return nil
}

// Close releases every subscription, newest first.
func (g *Group) Close() {
	g.mu.Lock()
	subs := g.subs
	g.subs = nil
	g.mu.Unlock()

	for i := len(subs) - 1; i >= 0; i-- {
		subs[i].Close()
	}
}

// Join runs every registration against a new Group. If one fails, the subscriptions
// already taken are released.
func Join(regs ...func(g *Group) error) (*Group, error) {
	g := &Group{}
	for _, reg := range regs {
		if err := reg(g); err != nil {
			g.Close()
			return nil, err
		}
	}
	return g, nil
}
