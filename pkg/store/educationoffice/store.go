// Package educationoffice is the entity store of the education office app.
//
// The store is seeded once with the education, its programs and its projects. The
// selected project is the scope: Init loads its students, project places and
// internships in that order, then its emails and questionings side by side. Selecting
// another project empties every scoped collection and runs the chain again; results of
// the abandoned run are dropped.
//
// Every view is a join computed from the raw collections and never mutated in place.
// A foreign key without a loaded target resolves to nil.
package educationoffice

import (
	"fmt"
	"sync"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/collection"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/metrics"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/store"
)

const Name = "educationOffice"

// Fetch stage names.
const (
	StageStudents      = "students"
	StageProjectPlaces = "projectPlaces"
	StageInternships   = "internships"
	StageEmails        = "emails"
	StageQuestionings  = "questionings"
)

type Config struct {
	Remote  connection.Remote
	Codec   codec.Codec
	Logger  logger.Logger
	Metrics metrics.Recorder
}

type Store struct {
	mu sync.Mutex

	remote    connection.Remote
	codec     codec.Codec
	logger    logger.Logger
	metrics   metrics.Recorder
	lifecycle *store.Lifecycle

	education *models.Education
	programs  []models.Program
	projects  []models.Project
	selected  int
	// refVersion changes with the reference data or the selection.
	refVersion uint64

	students      *collection.Collection[models.StudentUser]
	projectPlaces *collection.Collection[models.ProjectPlace]
	internships   *collection.Collection[models.Internship]
	questionings  *collection.Collection[models.Questioning]
	emails        *collection.Collection[models.Email]

	derived *derived
}

func New(cfg Config) *Store {
	if cfg.Codec == nil {
		cfg.Codec = codec.JSON()
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop()
	}

	return &Store{
		remote:        cfg.Remote,
		codec:         cfg.Codec,
		logger:        cfg.Logger,
		metrics:       cfg.Metrics,
		lifecycle:     store.NewLifecycle(Name, cfg.Logger),
		students:      collection.New[models.StudentUser](cfg.Codec),
		projectPlaces: collection.New[models.ProjectPlace](cfg.Codec),
		internships:   collection.New[models.Internship](cfg.Codec),
		questionings:  collection.New[models.Questioning](cfg.Codec),
		emails:        collection.New[models.Email](cfg.Codec),
	}
}

// SetData seeds the reference data and selects the project that started last. It
// does not fetch; call Init afterwards.
func (s *Store) SetData(education models.Education, programs []models.Program, projects []models.Project) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sorted := store.CloneAll(projects)
	store.SortProjects(sorted)

	education = education.Clone()
	s.education = &education
	s.programs = store.CloneAll(programs)
	s.projects = sorted
	s.selected = store.DefaultProject(sorted)
	s.refVersion++
}

// SelectedProjectID is 0 when no project is selected.
func (s *Store) SelectedProjectID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

func (s *Store) Education() (models.Education, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.education == nil {
		return models.Education{}, false
	}
	return s.education.Clone(), true
}

func (s *Store) Programs() []models.Program {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.CloneAll(s.programs)
}

// Projects are ordered by start date, latest first.
func (s *Store) Projects() []models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.CloneAll(s.projects)
}

func (s *Store) State() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.State()
}

// Fetch returns the status of one fetch stage.
func (s *Store) Fetch(stage string) store.FetchStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Fetch(stage)
}

// The raw readers below return deep copies; changing them does not change the store.

// Students returns the raw student users of the selected project.
func (s *Store) Students() []models.StudentUser {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.students.Items()
}

func (s *Store) RawProjectPlaces() []models.ProjectPlace {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.projectPlaces.Items()
}

func (s *Store) RawInternships() []models.Internship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.internships.Items()
}

func (s *Store) RawQuestionings() []models.Questioning {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.questionings.Items()
}

func (s *Store) RawEmails() []models.Email {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.emails.Items()
}

func (s *Store) runner() store.Runner {
	return store.Runner{Store: Name, Mu: &s.mu, Lifecycle: s.lifecycle, Metrics: s.metrics}
}

// selectedProject must be called with s.mu held.
func (s *Store) selectedProject() (models.Project, bool) {
	for _, p := range s.projects {
		if p.ID == s.selected {
			return p, true
		}
	}
	return models.Project{}, false
}

// clearScoped must be called with s.mu held.
func (s *Store) clearScoped() {
	s.students.Reset(nil)
	s.projectPlaces.Reset(nil)
	s.internships.Reset(nil)
	s.questionings.Reset(nil)
	s.emails.Reset(nil)
}

func (s *Store) projectIDs() map[int]struct{} {
	ids := make(map[int]struct{}, len(s.projects))
	for _, p := range s.projects {
		ids[p.ID] = struct{}{}
	}
	return ids
}

func (s *Store) checkRemote() error {
	if s.remote == nil {
		return fmt.Errorf("%s: %w", Name, constants.ErrNoBaseURL)
	}
	return nil
}
