// Package studentarea is the store of the student area: the student's projects with
// their questionings, the project place options and the signed texts.
package studentarea

import (
	"context"
	"slices"
	"sync"

	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/metrics"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/store"
)

const (
	Name           = "studentArea"
	StageSignature = "signatures"
)

// Questioning types a student fills in.
const (
	QuestioningStudentInformation = "student_information"
	QuestioningStudentTops        = "student_tops"
)

type Questioning struct {
	models.Questioning
	Period *models.Period
}

func (q Questioning) Clone() Questioning {
	q.Questioning = q.Questioning.Clone()
	if q.Period != nil {
		period := *q.Period
		q.Period = &period
	}
	return q
}

type Project struct {
	models.Project
	Questionings []Questioning
}

func (p Project) Clone() Project {
	p.Project = p.Project.Clone()
	p.Questionings = store.CloneAll(p.Questionings)
	return p
}

type Config struct {
	Remote  connection.Remote
	Logger  logger.Logger
	Metrics metrics.Recorder
}

type Store struct {
	mu sync.Mutex

	remote    connection.Remote
	metrics   metrics.Recorder
	lifecycle *store.Lifecycle

	education    *models.EducationTiny
	projects     []Project
	students     []models.Student
	placeOptions []models.ProjectPlaceOption
	selected     int
	// nil until fetched
	signatures []models.Signature
}

func New(cfg Config) *Store {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop()
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.Nop()
	}
	return &Store{
		remote:    cfg.Remote,
		metrics:   cfg.Metrics,
		lifecycle: store.NewLifecycle(Name, cfg.Logger),
	}
}

// SetData seeds the store. Projects are ordered latest first and the first one is
// selected. Each questioning gets the period of its own project.
func (s *Store) SetData(
	education models.EducationTiny,
	projects []models.Project,
	students []models.Student,
	placeOptions []models.ProjectPlaceOption,
) {
	sorted := store.CloneAll(projects)
	store.SortProjects(sorted)

	resolved := make([]Project, 0, len(sorted))
	for _, p := range sorted {
		resolved = append(resolved, resolveProject(p))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.education = &education
	s.projects = resolved
	s.students = store.CloneAll(students)
	s.placeOptions = slices.Clone(placeOptions)
	s.selected = store.DefaultProject(sorted)
}

func resolveProject(p models.Project) Project {
	out := Project{Project: p, Questionings: make([]Questioning, 0, len(p.Questionings))}
	for _, q := range p.Questionings {
		item := Questioning{Questioning: q}
		if idx := slices.IndexFunc(p.Periods, func(period models.Period) bool { return period.ID == q.Period }); idx >= 0 {
			period := p.Periods[idx]
			item.Period = &period
		}
		out.Questionings = append(out.Questionings, item)
	}
	return out
}

// Init loads the signatures.
func (s *Store) Init(ctx context.Context) error {
	if s.remote == nil {
		return constants.ErrNoBaseURL
	}

	s.mu.Lock()
	gen, err := s.lifecycle.Begin()
	s.mu.Unlock()
	if err != nil {
		return err
	}

	if err := s.fetchSignatures(ctx, gen); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Finish(gen)
}

func (s *Store) FetchSignatures(ctx context.Context) error {
	s.mu.Lock()
	gen := s.lifecycle.Generation()
	s.mu.Unlock()
	return s.fetchSignatures(ctx, gen)
}

func (s *Store) fetchSignatures(ctx context.Context, gen uint64) error {
	if s.remote == nil {
		return constants.ErrNoBaseURL
	}
	return store.Run(ctx, store.Runner{Store: Name, Mu: &s.mu, Lifecycle: s.lifecycle, Metrics: s.metrics}, gen, store.Stage[[]models.Signature]{
		Name:  StageSignature,
		Reset: func() { s.signatures = nil },
		Fetch: func(ctx context.Context) ([]models.Signature, error) {
			return connection.Get[[]models.Signature](ctx, s.remote, constants.PathStudentSignatures)
		},
		Apply: func(v []models.Signature) {
			if v == nil {
				v = []models.Signature{}
			}
			s.signatures = v
		},
	})
}

func (s *Store) State() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.State()
}

// Signatures reports false until they have been fetched.
func (s *Store) Signatures() ([]models.Signature, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signatures == nil {
		return nil, false
	}
	return slices.Clone(s.signatures), true
}

func (s *Store) Education() (models.EducationTiny, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.education == nil {
		return models.EducationTiny{}, false
	}
	return *s.education, true
}

func (s *Store) Students() []models.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.CloneAll(s.students)
}

func (s *Store) ProjectPlaceOptions() []models.ProjectPlaceOption {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.placeOptions)
}

func (s *Store) Projects() []Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return store.CloneAll(s.projects)
}

// Project is the selected project.
func (s *Store) Project() (Project, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.project()
}

// project returns a copy of the selected project.
func (s *Store) project() (Project, bool) {
	idx := slices.IndexFunc(s.projects, func(p Project) bool { return p.ID == s.selected })
	if idx < 0 {
		return Project{}, false
	}
	return s.projects[idx].Clone(), true
}

// ActiveQuestionings are the open questionings of the selected project the student
// answers.
func (s *Store) ActiveQuestionings() []Questioning {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := []Questioning{}
	p, ok := s.project()
	if !ok {
		return out
	}
	for _, q := range p.Questionings {
		if !q.IsActive {
			continue
		}
		if q.Type == QuestioningStudentInformation || q.Type == QuestioningStudentTops {
			out = append(out, q)
		}
	}
	return out
}
