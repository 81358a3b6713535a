package educationoffice

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/store"
)

// Init runs the fetch chain for the selected project. With no project selected the
// store becomes Ready with empty collections.
//
// A failed stage aborts the stages that depend on it and is returned; the collections
// of stages that did not run stay empty. If the selection changes while the chain is
// running, Init returns constants.ErrStaleScope and none of its remaining results are
// applied.
func (s *Store) Init(ctx context.Context) error {
	if err := s.checkRemote(); err != nil {
		return err
	}

	s.mu.Lock()
	gen, err := s.lifecycle.Begin()
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.clearScoped()
	project, ok := s.selectedProject()
	s.mu.Unlock()

	if ok {
		if err := s.runChain(ctx, gen, project); err != nil {
			return err
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lifecycle.Finish(gen)
}

// SelectProject changes the scope and runs the chain for it. Selecting the current
// project again does nothing.
func (s *Store) SelectProject(ctx context.Context, id int) error {
	s.mu.Lock()
	if id == s.selected && s.lifecycle.State() != store.StateUninitialized {
		s.mu.Unlock()
		return nil
	}
	found := false
	for _, p := range s.projects {
		if p.ID == id {
			found = true
			break
		}
	}
	if !found {
		s.mu.Unlock()
		return fmt.Errorf("project %d: %w", id, constants.ErrUnknownScope)
	}
	s.selected = id
	s.refVersion++
	s.lifecycle.Invalidate()
	s.mu.Unlock()

	return s.Init(ctx)
}

func (s *Store) runChain(ctx context.Context, gen uint64, project models.Project) error {
	if err := s.fetchStudents(ctx, gen, project); err != nil {
		return err
	}
	if err := s.fetchProjectPlaces(ctx, gen, project); err != nil {
		return err
	}
	if err := s.fetchInternships(ctx, gen, project); err != nil {
		return err
	}

	// Emails and questionings only read what the earlier stages loaded. A plain
	// group keeps one failure from cancelling the other.
	var g errgroup.Group
	g.Go(func() error { return s.fetchEmails(ctx, gen, project) })
	g.Go(func() error { return s.fetchQuestionings(ctx, gen, project) })
	return g.Wait()
}

// FetchStudents reloads the students of the selected project.
func (s *Store) FetchStudents(ctx context.Context) error {
	gen, project, err := s.scope()
	if err != nil {
		return err
	}
	return s.fetchStudents(ctx, gen, project)
}

func (s *Store) FetchProjectPlaces(ctx context.Context) error {
	gen, project, err := s.scope()
	if err != nil {
		return err
	}
	return s.fetchProjectPlaces(ctx, gen, project)
}

func (s *Store) FetchInternships(ctx context.Context) error {
	gen, project, err := s.scope()
	if err != nil {
		return err
	}
	return s.fetchInternships(ctx, gen, project)
}

func (s *Store) FetchEmails(ctx context.Context) error {
	gen, project, err := s.scope()
	if err != nil {
		return err
	}
	return s.fetchEmails(ctx, gen, project)
}

func (s *Store) FetchQuestionings(ctx context.Context) error {
	gen, project, err := s.scope()
	if err != nil {
		return err
	}
	return s.fetchQuestionings(ctx, gen, project)
}

func (s *Store) scope() (uint64, models.Project, error) {
	if err := s.checkRemote(); err != nil {
		return 0, models.Project{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	project, ok := s.selectedProject()
	if !ok {
		return 0, models.Project{}, constants.ErrNoScope
	}
	return s.lifecycle.Generation(), project, nil
}

func (s *Store) fetchStudents(ctx context.Context, gen uint64, project models.Project) error {
	return store.Run(ctx, s.runner(), gen, store.Stage[[]models.StudentUser]{
		Name:  StageStudents,
		Reset: func() { s.students.Reset(nil) },
		Fetch: list[models.StudentUser](s.remote, project.ID, "rel_students", project.RelStudents),
		Apply: func(users []models.StudentUser) {
			// memberships of projects outside the education are not joinable
			known := s.projectIDs()
			for i := range users {
				kept := users[i].StudentSet[:0:0]
				for _, st := range users[i].StudentSet {
					if _, ok := known[st.Project]; ok {
						kept = append(kept, st)
					}
				}
				users[i].StudentSet = kept
			}
			s.students.Reset(users)
		},
	})
}

func (s *Store) fetchProjectPlaces(ctx context.Context, gen uint64, project models.Project) error {
	return store.Run(ctx, s.runner(), gen, store.Stage[[]models.ProjectPlace]{
		Name:  StageProjectPlaces,
		Reset: func() { s.projectPlaces.Reset(nil) },
		Fetch: list[models.ProjectPlace](s.remote, project.ID, "rel_places", project.RelPlaces),
		Apply: s.projectPlaces.Reset,
	})
}

func (s *Store) fetchInternships(ctx context.Context, gen uint64, project models.Project) error {
	return store.Run(ctx, s.runner(), gen, store.Stage[[]models.Internship]{
		Name:  StageInternships,
		Reset: func() { s.internships.Reset(nil) },
		Fetch: list[models.Internship](s.remote, project.ID, "rel_internships", project.RelInternships),
		Apply: s.internships.Reset,
	})
}

func (s *Store) fetchEmails(ctx context.Context, gen uint64, project models.Project) error {
	return store.Run(ctx, s.runner(), gen, store.Stage[[]models.Email]{
		Name:  StageEmails,
		Reset: func() { s.emails.Reset(nil) },
		Fetch: list[models.Email](s.remote, project.ID, "rel_emails", project.RelEmails),
		Apply: s.emails.Reset,
	})
}

func (s *Store) fetchQuestionings(ctx context.Context, gen uint64, project models.Project) error {
	return store.Run(ctx, s.runner(), gen, store.Stage[[]models.Questioning]{
		Name:  StageQuestionings,
		Reset: func() { s.questionings.Reset(nil) },
		Fetch: list[models.Questioning](s.remote, project.ID, "rel_questionings", project.RelQuestionings),
		Apply: s.questionings.Reset,
	})
}

func list[T any](remote connection.Remote, project int, field, path string) func(context.Context) ([]T, error) {
	return func(ctx context.Context) ([]T, error) {
		if path == "" {
			return nil, fmt.Errorf("project %d %s: %w", project, field, constants.ErrNoLocator)
		}
		return connection.Get[[]T](ctx, remote, path)
	}
}
