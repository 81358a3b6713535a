package store

import (
	"time"

	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
)

// Lifecycle tracks the state of a store and of each fetch stage. It is not safe for
// concurrent use; stores call it while holding their own lock.
type Lifecycle struct {
	name       string
	state      State
	generation uint64
	fetches    map[string]FetchStatus
	logger     logger.Logger
	now        func() time.Time
}

func NewLifecycle(name string, log logger.Logger) *Lifecycle {
	if log == nil {
		log = logger.Nop()
	}
	return &Lifecycle{
		name:    name,
		fetches: make(map[string]FetchStatus),
		logger:  log,
		now:     time.Now,
	}
}

func (l *Lifecycle) State() State {
	return l.state
}

// Generation identifies the current scope selection.
func (l *Lifecycle) Generation() uint64 {
	return l.generation
}

// Begin enters Loading for a new chain run and returns its generation. Every result
// stamped with an older generation is stale from now on.
func (l *Lifecycle) Begin() (uint64, error) {
	if err := l.transitionTo(StateLoading); err != nil {
		return 0, err
	}
	l.generation++
	for stage := range l.fetches {
		l.fetches[stage] = FetchStatus{}
	}
	return l.generation, nil
}

// Invalidate makes every in-flight result stale without starting a chain run.
func (l *Lifecycle) Invalidate() {
	l.generation++
}

// Current returns constants.ErrStaleScope unless gen is the current generation.
func (l *Lifecycle) Current(gen uint64) error {
	if gen != l.generation {
		return constants.ErrStaleScope
	}
	return nil
}

// Start marks stage as fetching for gen.
func (l *Lifecycle) Start(gen uint64, stage string) error {
	if err := l.Current(gen); err != nil {
		return err
	}
	l.fetches[stage] = FetchStatus{State: FetchFetching}
	l.logger.Debug("fetch started", "store", l.name, "stage", stage, "generation", gen)
	return nil
}

// Settle records the outcome of stage for gen. It returns constants.ErrStaleScope,
// leaving the recorded status untouched, when gen is no longer current.
func (l *Lifecycle) Settle(gen uint64, stage string, err error) error {
	if cerr := l.Current(gen); cerr != nil {
		l.logger.Warn("discarding stale fetch result", "store", l.name, "stage", stage, "generation", gen)
		return cerr
	}
	l.fetches[stage] = FetchStatus{State: FetchSettled, Err: err, SettledAt: l.now()}
	if err != nil {
		l.logger.Error("fetch failed", "store", l.name, "stage", stage, "error", err)
	} else {
		l.logger.Debug("fetch settled", "store", l.name, "stage", stage, "generation", gen)
	}
	return nil
}

// Finish enters Ready when gen is still current.
func (l *Lifecycle) Finish(gen uint64) error {
	if err := l.Current(gen); err != nil {
		return err
	}
	return l.transitionTo(StateReady)
}

// Fetch returns the status of stage, Idle when it never ran.
func (l *Lifecycle) Fetch(stage string) FetchStatus {
	return l.fetches[stage]
}

// Fetches returns a copy of every stage status.
func (l *Lifecycle) Fetches() map[string]FetchStatus {
	out := make(map[string]FetchStatus, len(l.fetches))
	for k, v := range l.fetches {
		out[k] = v
	}
	return out
}

func (l *Lifecycle) transitionTo(newState State) error {
	if err := l.state.validateTransitionTo(newState); err != nil {
		return err
	}

	l.state = newState
	l.logger.Debug("store state transitioned", "store", l.name, "new_state", newState)

	return nil
}
