package metis

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metis-placement/metis.go/internal/fakeapi"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/connection/gorillaws"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/events"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/relay"
	"github.com/metis-placement/metis.go/pkg/store"
)

func stubEducation(srv *fakeapi.Server) {
	srv.JSON("/api/educations/1/", models.Education{
		ID:          1,
		Name:        "Medicine",
		RelPrograms: srv.URL("/api/educations/1/programs/"),
		RelProjects: srv.URL("/api/educations/1/projects/"),
	})
	srv.JSON("/api/educations/1/programs/", []models.Program{{ID: 1}})
	srv.JSON("/api/educations/1/projects/", []models.Project{{
		ID:              2,
		StartDate:       models.MustParseDate("2024-01-01"),
		RelStudents:     srv.URL("/api/projects/2/students/"),
		RelPlaces:       srv.URL("/api/projects/2/places/"),
		RelInternships:  srv.URL("/api/projects/2/internships/"),
		RelEmails:       srv.URL("/api/projects/2/emails/"),
		RelQuestionings: srv.URL("/api/projects/2/questionings/"),
	}})
	srv.JSON("/api/projects/2/students/", []models.StudentUser{})
	srv.JSON("/api/projects/2/places/", []models.ProjectPlace{})
	srv.JSON("/api/projects/2/internships/", []models.Internship{{ID: 60, Status: "planned", Tags: []string{"a:1"}}})
	srv.JSON("/api/projects/2/emails/", []models.Email{})
	srv.JSON("/api/projects/2/questionings/", []models.Questioning{})
}

func newClient(t *testing.T) (*Client, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New(t)
	c, err := FromEndpointURLString(srv.URL("/api/"), connection.NewStaticSession("tok", "en"))
	require.NoError(t, err)
	return c, srv
}

func TestFromEndpointURLString(t *testing.T) {
	for _, raw := range []string{"", "metis.example", "ftp://metis.example/api"} {
		_, err := FromEndpointURLString(raw, nil)
		assert.Error(t, err, raw)
	}

	c, err := FromEndpointURLString("https://metis.example/api", nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Remote())
	assert.NotNil(t, c.Bus())
}

func TestLoadReference(t *testing.T) {
	c, srv := newClient(t)
	stubEducation(srv)

	ref, err := c.LoadReference(context.Background(), "/educations/1/")
	require.NoError(t, err)
	assert.Equal(t, "Medicine", ref.Education.Name)
	assert.Len(t, ref.Programs, 1)
	assert.Len(t, ref.Projects, 1)
}

func TestLoadReferenceFailure(t *testing.T) {
	c, srv := newClient(t)
	stubEducation(srv)
	srv.Fail(http.MethodGet, "/api/educations/1/projects/", http.StatusForbidden, "nope")

	_, err := c.LoadReference(context.Background(), "/educations/1/")
	require.ErrorIs(t, err, connection.ErrAuthorization)
	assert.Contains(t, err.Error(), "fetching projects")

	srv.JSON("/api/educations/9/", models.Education{ID: 9})
	_, err = c.LoadReference(context.Background(), "/educations/9/")
	assert.ErrorIs(t, err, constants.ErrNoLocator)
}

func TestLoadReferenceWithoutRemote(t *testing.T) {
	_, err := New(nil).LoadReference(context.Background(), "/educations/1/")
	assert.ErrorIs(t, err, constants.ErrNoBaseURL)
}

func TestBindEducationOffice(t *testing.T) {
	c, srv := newClient(t)
	stubEducation(srv)
	ctx := context.Background()

	ref, err := c.LoadReference(ctx, "/educations/1/")
	require.NoError(t, err)
	s, release, err := c.BindEducationOffice(ref)
	require.NoError(t, err)
	defer release()

	require.NoError(t, s.Init(ctx))
	assert.Equal(t, store.StateReady, s.State())
	assert.Equal(t, 2, s.SelectedProjectID())

	_, _, err = c.BindEducationOffice(ref)
	assert.ErrorIs(t, err, constants.ErrTopicInUse)

	srv.Handle(http.MethodPost, "/api/projects/2/questionings/", http.StatusCreated, models.Questioning{ID: 5, Type: "student_tops"})
	handled, err := relay.Emit(ctx, c.Bus(), events.SaveRequested, events.SaveRequest{
		Collection: models.CollectionQuestioning,
		Record:     models.Questioning{Type: "student_tops"},
	})
	require.NoError(t, err)
	assert.True(t, handled)
	assert.Len(t, s.RawQuestionings(), 1)
}

func TestFollowAppliesPushedChanges(t *testing.T) {
	c, srv := newClient(t)
	stubEducation(srv)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ref, err := c.LoadReference(ctx, "/educations/1/")
	require.NoError(t, err)
	s := c.EducationOffice()
	s.SetData(ref.Education, ref.Programs, ref.Projects)
	require.NoError(t, s.Init(ctx))

	feed := gorillaws.New(srv.PushURL(), &connection.Config{Session: connection.NewStaticSession("tok", "en")})
	done := make(chan error, 1)
	go func() { done <- c.Follow(ctx, feed, s) }()
	require.True(t, srv.WaitPushClient(2*time.Second))

	require.NoError(t, srv.Push(map[string]any{
		"action":     "update",
		"collection": "projectInternship",
		"project":    2,
		"record":     map[string]any{"id": 60, "status": "approved"},
	}))
	// not a known collection, dropped without stopping the feed
	require.NoError(t, srv.Push(map[string]any{"action": "update", "collection": "nope", "record": map[string]any{"id": 1}}))

	require.Eventually(t, func() bool {
		items := s.RawInternships()
		return len(items) == 1 && items[0].Status == "approved"
	}, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, []string{"a:1"}, s.RawInternships()[0].Tags)

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled), "got %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("Follow did not stop")
	}
}
