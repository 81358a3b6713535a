package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/metrics"
)

// Stage runs one fetch of a chain. The lock is released while fetch runs and held
// again while the result is applied, so apply sees a consistent store and never runs
// for a stale generation.
type Stage[T any] struct {
	Name  string
	Fetch func(ctx context.Context) (T, error)
	Apply func(T)

	// Reset, when set, empties the stage's collections under the lock before fetching.
	Reset func()
}

// Runner binds the pieces a stage needs from its store.
type Runner struct {
	Store     string
	Mu        sync.Locker
	Lifecycle *Lifecycle
	Metrics   metrics.Recorder
}

// Run executes s for gen. It returns constants.ErrStaleScope when the scope changed
// before or during the fetch, and the wrapped fetch error otherwise.
func Run[T any](ctx context.Context, r Runner, gen uint64, s Stage[T]) error {
	r.Mu.Lock()
	err := r.Lifecycle.Start(gen, s.Name)
	if err == nil && s.Reset != nil {
		s.Reset()
	}
	r.Mu.Unlock()
	if err != nil {
		return err
	}

	started := time.Now()
	v, err := s.Fetch(ctx)
	elapsed := time.Since(started)

	r.Mu.Lock()
	defer r.Mu.Unlock()

	if serr := r.Lifecycle.Settle(gen, s.Name, err); serr != nil {
		r.recorder().StaleDiscarded(r.Store, s.Name)
		return serr
	}
	r.recorder().FetchSettled(r.Store, s.Name, elapsed, err)
	if err != nil {
		return fmt.Errorf("fetching %s: %w", s.Name, err)
	}
	if s.Apply != nil {
		s.Apply(v)
	}
	return nil
}

func (r Runner) recorder() metrics.Recorder {
	if r.Metrics == nil {
		return metrics.Nop()
	}
	return r.Metrics
}

// IsStale reports whether err only says the result belonged to an abandoned scope.
func IsStale(err error) bool {
	return errors.Is(err, constants.ErrStaleScope)
}
