package proposeplace

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metis-placement/metis.go/internal/fakeapi"
	"github.com/metis-placement/metis.go/pkg/connection"
	metishttp "github.com/metis-placement/metis.go/pkg/connection/http"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/store"
)

func newStore(t *testing.T) (*Store, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New(t)
	u, err := url.Parse(srv.URL(""))
	require.NoError(t, err)
	cfg := connection.NewConfig(u)
	cfg.Logger = logger.Nop()
	return New(Config{Remote: metishttp.New(cfg)}), srv
}

func TestInitAndUpdate(t *testing.T) {
	s, srv := newStore(t)
	srv.JSON("/user/student/preplanned-internships/", []models.Internship{
		{ID: 1, Status: "concept", Tags: []string{"a:1"}, ProjectPlace: 4},
		{ID: 2, Status: "concept"},
	})

	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, store.StateReady, s.State())
	require.Len(t, s.Internships(), 2)

	update := s.Internships()[0]
	update.Status = "submitted"
	require.NoError(t, s.UpdateInternship(update))

	items := s.Internships()
	assert.Equal(t, "submitted", items[0].Status)
	assert.Equal(t, []string{"a:1"}, items[0].Tags)
	assert.Equal(t, "concept", items[1].Status)

	// returned slices are copies
	items[1].Status = "changed"
	assert.Equal(t, "concept", s.Internships()[1].Status)

	require.NoError(t, s.UpdateInternship(models.Internship{ID: 99}))
	assert.Len(t, s.Internships(), 2)
}

func TestInitFailure(t *testing.T) {
	s, srv := newStore(t)
	srv.Fail(http.MethodGet, "/user/student/preplanned-internships/", http.StatusInternalServerError, "down")

	err := s.Init(context.Background())
	require.ErrorIs(t, err, connection.ErrServer)
	assert.Equal(t, store.StateLoading, s.State())
	assert.Empty(t, s.Internships())
}

func TestSetData(t *testing.T) {
	s := New(Config{})
	_, ok := s.Education()
	assert.False(t, ok)
	s.SetData(models.EducationTiny{ID: 3})
	edu, ok := s.Education()
	require.True(t, ok)
	assert.Equal(t, 3, edu.ID)
}
