package studentarea

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
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/store"
)

func projects() []models.Project {
	return []models.Project{
		{
			ID:        1,
			StartDate: models.MustParseDate("2023-01-01"),
			Periods:   []models.Period{{ID: 10}},
			Questionings: []models.Questioning{
				{ID: 100, Period: 10, Type: QuestioningStudentTops, IsActive: true},
			},
		},
		{
			ID:        2,
			StartDate: models.MustParseDate("2024-01-01"),
			Periods:   []models.Period{{ID: 20, Name: "P1"}},
			Questionings: []models.Questioning{
				{ID: 200, Period: 20, Type: QuestioningStudentInformation, IsActive: true},
				{ID: 201, Period: 20, Type: QuestioningStudentTops},
				{ID: 202, Period: 10, Type: "place_information", IsActive: true},
				{ID: 203, Period: 10, Type: QuestioningStudentTops, IsActive: true},
			},
		},
	}
}

func newStore(t *testing.T) (*Store, *fakeapi.Server) {
	t.Helper()
	srv := fakeapi.New(t)
	u, err := url.Parse(srv.URL("/api"))
	require.NoError(t, err)
	cfg := connection.NewConfig(u)
	cfg.Logger = logger.Nop()
	return New(Config{Remote: metishttp.New(cfg)}), srv
}

func TestSetDataResolvesPeriods(t *testing.T) {
	s, _ := newStore(t)
	s.SetData(models.EducationTiny{ID: 1, Code: "MED"}, projects(), []models.Student{{ID: 7}}, []models.ProjectPlaceOption{{Value: 3}})

	p, ok := s.Project()
	require.True(t, ok)
	assert.Equal(t, 2, p.ID)
	require.Len(t, p.Questionings, 4)
	require.NotNil(t, p.Questionings[0].Period)
	assert.Equal(t, "P1", p.Questionings[0].Period.Name)
	// period of another project
	assert.Nil(t, p.Questionings[3].Period)

	edu, ok := s.Education()
	require.True(t, ok)
	assert.Equal(t, "MED", edu.Code)
	assert.Len(t, s.Students(), 1)
	assert.Len(t, s.ProjectPlaceOptions(), 1)
	assert.Equal(t, []int{2, 1}, []int{s.Projects()[0].ID, s.Projects()[1].ID})
}

func TestReadsAreCopies(t *testing.T) {
	s, _ := newStore(t)
	s.SetData(models.EducationTiny{ID: 1}, projects(), []models.Student{{ID: 7, Tags: []string{"a:b"}}}, nil)

	p, ok := s.Project()
	require.True(t, ok)
	p.Questionings[0].Period.Name = "changed"
	p.Questionings[0].IsActive = false
	s.Students()[0].Tags[0] = "changed"
	s.Projects()[0].Periods[0].Name = "changed"

	p, _ = s.Project()
	assert.Equal(t, "P1", p.Questionings[0].Period.Name)
	assert.True(t, p.Questionings[0].IsActive)
	assert.Equal(t, []string{"a:b"}, s.Students()[0].Tags)
	assert.Equal(t, "P1", s.Projects()[0].Periods[0].Name)
}

func TestActiveQuestionings(t *testing.T) {
	s, _ := newStore(t)
	assert.Empty(t, s.ActiveQuestionings())

	s.SetData(models.EducationTiny{}, projects(), nil, nil)
	var got []int
	for _, q := range s.ActiveQuestionings() {
		got = append(got, q.ID)
	}
	assert.Equal(t, []int{200, 203}, got)
}

func TestInitFetchesSignatures(t *testing.T) {
	s, srv := newStore(t)
	_, ok := s.Signatures()
	assert.False(t, ok)

	srv.JSON("/api/user/student/signatures/", []models.Signature{{ID: 1, Text: "I agree"}})
	require.NoError(t, s.Init(context.Background()))
	assert.Equal(t, store.StateReady, s.State())

	sigs, ok := s.Signatures()
	require.True(t, ok)
	assert.Equal(t, "I agree", sigs[0].Text)
}

func TestEmptySignaturesAreLoaded(t *testing.T) {
	s, srv := newStore(t)
	srv.JSON("/api/user/student/signatures/", []models.Signature{})
	require.NoError(t, s.FetchSignatures(context.Background()))
	sigs, ok := s.Signatures()
	assert.True(t, ok)
	assert.Empty(t, sigs)
}

func TestSignaturesFailure(t *testing.T) {
	s, srv := newStore(t)
	srv.Fail(http.MethodGet, "/api/user/student/signatures/", http.StatusForbidden, "no")

	err := s.Init(context.Background())
	require.ErrorIs(t, err, connection.ErrAuthorization)
	_, ok := s.Signatures()
	assert.False(t, ok)
	assert.Equal(t, store.StateLoading, s.State())
}

func TestWithoutRemote(t *testing.T) {
	s := New(Config{})
	assert.ErrorIs(t, s.Init(context.Background()), constants.ErrNoBaseURL)
}
