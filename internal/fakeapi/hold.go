package fakeapi

import "sync"

// Hold blocks requests to one path.
type Hold struct {
	arrived     chan struct{}
	release     chan struct{}
	arriveOnce  sync.Once
	releaseOnce sync.Once
}

// Arrived is closed when the first held request comes in.
func (h *Hold) Arrived() <-chan struct{} {
	return h.arrived
}

// Release lets every held and future request through.
func (h *Hold) Release() {
	h.releaseOnce.Do(func() { close(h.release) })
}

func (h *Hold) arrive() {
	h.arriveOnce.Do(func() { close(h.arrived) })
}
