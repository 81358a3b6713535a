package educationoffice

import (
	"net/http"
	"net/url"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/metis-placement/metis.go/internal/fakeapi"
	"github.com/metis-placement/metis.go/pkg/connection"
	metishttp "github.com/metis-placement/metis.go/pkg/connection/http"
	"github.com/metis-placement/metis.go/pkg/logger"
	"github.com/metis-placement/metis.go/pkg/models"
)

type fixture struct {
	srv      *fakeapi.Server
	store    *Store
	projects []models.Project
}

func education() models.Education {
	return models.Education{
		ID:   1,
		Name: "Medicine",
		Disciplines: []models.Discipline{
			{ID: 1, Name: "Surgery"},
			{ID: 2, Name: "Pediatrics"},
		},
		PlaceTypes: []models.PlaceType{{ID: 1, Name: "Hospital"}},
	}
}

func programs() []models.Program {
	return []models.Program{{
		ID: 1,
		Blocks: []models.ProgramBlock{
			{ID: 1, Name: "Block 1", Internships: []models.ProgramInternship{{ID: 5, Name: "Internship A", Block: 1}}},
			{ID: 2, Name: "Block 2", Internships: []models.ProgramInternship{{ID: 5, Name: "Duplicate", Block: 2}}},
		},
		Tracks: []models.Track{{ID: 3, Name: "Track 3"}},
	}}
}

func project(srv *fakeapi.Server, id int, start string, periods ...models.Period) models.Project {
	base := "/projects/" + strconv.Itoa(id)
	return models.Project{
		ID:              id,
		Name:            "Project " + strconv.Itoa(id),
		Self:            srv.URL(base + "/"),
		RelStudents:     srv.URL(base + "/students/"),
		RelPlaces:       srv.URL(base + "/places/"),
		RelInternships:  srv.URL(base + "/internships/"),
		RelEmails:       srv.URL(base + "/emails/"),
		RelQuestionings: srv.URL(base + "/questionings/"),
		StartDate:       models.MustParseDate(start),
		Periods:         periods,
	}
}

func stubProject2(srv *fakeapi.Server) {
	srv.JSON("/projects/2/students/", []models.StudentUser{{
		ID:   100,
		Name: "Ada",
		StudentSet: []models.Student{
			{ID: 7, Self: srv.URL("/students/7/"), Project: 2, Track: 3, Block: 1},
			{ID: 8, Project: 99},
		},
	}})
	srv.JSON("/projects/2/places/", []models.ProjectPlace{{
		ID:      30,
		Self:    srv.URL("/project-places/30/"),
		Project: 2,
		Place: models.Place{
			ID:          40,
			Type:        1,
			Name:        "St. Luke",
			RelContacts: srv.URL("/places/40/contacts/"),
			Contacts:    []models.Contact{{ID: 50, Self: srv.URL("/contacts/50/"), Place: 40, IsAdmin: true}},
		},
		Disciplines: []int{1, 9},
		AvailabilitySet: []models.Availability{
			{ID: 1, Period: 20, Min: 1, Max: 2},
			{ID: 2, Period: 21, Min: 0, Max: 1},
		},
	}})
	srv.JSON("/projects/2/internships/", []models.Internship{
		{
			ID:           60,
			Self:         srv.URL("/internships/60/"),
			Student:      7,
			Track:        3,
			Period:       20,
			Discipline:   1,
			ProjectPlace: 30,
			Status:       "planned",
			Tags:         []string{"coupon:AB:12", `note:"hello world"`},
		},
		{ID: 61, Student: 999, Period: 77, ProjectPlace: 31},
	})
	srv.JSON("/projects/2/emails/", []models.Email{{ID: 70, Subject: "Reminder", Tags: []string{"type:reminder"}}})
	srv.JSON("/projects/2/questionings/", []models.Questioning{{ID: 80, Period: 20, Type: "student_tops"}})
}

func stubProject1(srv *fakeapi.Server) {
	srv.JSON("/projects/1/students/", []models.StudentUser{{
		ID:         101,
		Name:       "Grace",
		StudentSet: []models.Student{{ID: 9, Project: 1}},
	}})
	srv.JSON("/projects/1/places/", []models.ProjectPlace{{ID: 31, Project: 1, Place: models.Place{ID: 41, Name: "Old Place"}}})
	srv.JSON("/projects/1/internships/", []models.Internship{{ID: 65, Student: 9, ProjectPlace: 31}})
	srv.JSON("/projects/1/emails/", []models.Email{})
	srv.JSON("/projects/1/questionings/", []models.Questioning{})
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	srv := fakeapi.New(t)
	u, err := url.Parse(srv.URL("/api/v1"))
	require.NoError(t, err)

	cfg := connection.NewConfig(u)
	cfg.Logger = logger.Nop()
	cfg.Session = connection.NewStaticSession("tok", "nl")

	s := New(Config{Remote: metishttp.New(cfg)})
	projects := []models.Project{
		project(srv, 1, "2023-01-01", models.Period{ID: 10, ProgramInternship: 5}),
		project(srv, 2, "2024-01-01", models.Period{ID: 20, ProgramInternship: 5}, models.Period{ID: 21, ProgramInternship: 404}),
	}
	s.SetData(education(), programs(), projects)

	stubProject1(srv)
	stubProject2(srv)
	return &fixture{srv: srv, store: s, projects: projects}
}

func (f *fixture) count(path string) int {
	return f.srv.Count(http.MethodGet, path)
}
