// Package proposeplace is the store behind the student's place proposals: the
// internships the student planned ahead of the project's planning round.
package proposeplace

import (
	"context"
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

const (
	Name             = "proposePlace"
	StageInternships = "internships"
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
	metrics   metrics.Recorder
	lifecycle *store.Lifecycle

	education   *models.EducationTiny
	internships *collection.Collection[models.Internship]
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
		remote:      cfg.Remote,
		metrics:     cfg.Metrics,
		lifecycle:   store.NewLifecycle(Name, cfg.Logger),
		internships: collection.New[models.Internship](cfg.Codec),
	}
}

func (s *Store) SetData(education models.EducationTiny) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.education = &education
}

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

	err = store.Run(ctx, store.Runner{Store: Name, Mu: &s.mu, Lifecycle: s.lifecycle, Metrics: s.metrics}, gen, store.Stage[[]models.Internship]{
		Name: StageInternships,
		Fetch: func(ctx context.Context) ([]models.Internship, error) {
			return connection.Get[[]models.Internship](ctx, s.remote, constants.PathPreplannedInternships)
		},
		Apply: s.internships.Reset,
	})
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Finish(gen)
}

// UpdateInternship replaces the stored internship with the same id by obj. Unknown ids
// are ignored.
func (s *Store) UpdateInternship(obj models.Internship) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.internships.Update(obj); err != nil {
		return fmt.Errorf("update internship %d: %w", obj.ID, err)
	}
	s.metrics.Mutation(Name, string(models.CollectionPreplannedInternship), string(collection.Update))
	return nil
}

func (s *Store) Internships() []models.Internship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.internships.Items()
}

func (s *Store) Education() (models.EducationTiny, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.education == nil {
		return models.EducationTiny{}, false
	}
	return *s.education, true
}

func (s *Store) State() store.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.State()
}
