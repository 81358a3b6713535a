// Package store holds the lifecycle shared by every entity store: the store state
// machine, the per-stage fetch state and the scope generation used to discard stale
// results.
package store

import (
	"fmt"
	"sort"
	"time"

	"github.com/metis-placement/metis.go/pkg/models"
)

type State int

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "Uninitialized"
	case StateLoading:
		return "Loading"
	case StateReady:
		return "Ready"
	default:
		return "InvalidState"
	}
}

func (s State) validateTransitionTo(newState State) error {
	switch s {
	case StateUninitialized:
		if newState == StateLoading {
			return nil
		}
	case StateLoading:
		switch newState {
		// Loading to Loading happens when the scope changes mid-chain.
		case StateLoading, StateReady:
			return nil
		}
	case StateReady:
		if newState == StateLoading {
			return nil
		}
	}

	return fmt.Errorf("invalid state transition from %v to %v", s, newState)
}

type FetchState int

const (
	FetchIdle FetchState = iota
	FetchFetching
	FetchSettled
)

func (s FetchState) String() string {
	switch s {
	case FetchIdle:
		return "Idle"
	case FetchFetching:
		return "Fetching"
	case FetchSettled:
		return "Settled"
	default:
		return "InvalidFetchState"
	}
}

// FetchStatus is the state of one stage. Err is set when the stage settled with an error.
type FetchStatus struct {
	State     FetchState
	Err       error
	SettledAt time.Time
}

// OK reports whether the stage settled successfully.
func (f FetchStatus) OK() bool {
	return f.State == FetchSettled && f.Err == nil
}

// SortProjects orders projects by start date, latest first. Equal dates keep their
// input order.
func SortProjects(projects []models.Project) {
	sort.SliceStable(projects, func(i, j int) bool {
		return projects[i].StartDate.After(projects[j].StartDate.Time)
	})
}

// DefaultProject is the id of the first project after SortProjects, 0 for none.
func DefaultProject(sorted []models.Project) int {
	if len(sorted) == 0 {
		return 0
	}
	return sorted[0].ID
}
