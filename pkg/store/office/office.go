// Package office holds the programs and projects of the office app and the selected
// project. It never fetches; the page seeds it.
package office

import (
	"fmt"
	"slices"
	"sync"

	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/store"
)

const Name = "office"

type Store struct {
	mu       sync.RWMutex
	programs []models.Program
	projects []models.Project
	selected int
}

func New() *Store {
	return &Store{}
}

func (s *Store) SetPrograms(programs []models.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.programs = store.CloneAll(programs)
}

// SetProjects replaces the projects and selects the one that started last.
func (s *Store) SetProjects(projects []models.Project) {
	sorted := store.CloneAll(projects)
	store.SortProjects(sorted)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.projects = sorted
	s.selected = store.DefaultProject(sorted)
}

func (s *Store) Programs() []models.Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.CloneAll(s.programs)
}

func (s *Store) Projects() []models.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.CloneAll(s.projects)
}

func (s *Store) SelectedProjectID() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Project is the selected project. ok is false when nothing is selected.
func (s *Store) Project() (project models.Project, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := slices.IndexFunc(s.projects, func(p models.Project) bool { return p.ID == s.selected })
	if idx < 0 {
		return models.Project{}, false
	}
	return s.projects[idx].Clone(), true
}

func (s *Store) Select(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !slices.ContainsFunc(s.projects, func(p models.Project) bool { return p.ID == id }) {
		return fmt.Errorf("project %d: %w", id, constants.ErrUnknownScope)
	}
	s.selected = id
	return nil
}
