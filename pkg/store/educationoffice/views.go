package educationoffice

import (
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/tags"
)

// Project returns the selected project with its periods resolved.
func (s *Store) Project() (models.EnrichedProject, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.selectedProject()
	if !ok {
		return models.EnrichedProject{}, false
	}
	p = p.Clone()
	return models.EnrichedProject{
		Project: p,
		Periods: enrichPeriods(p.Periods, s.maps().programInternships),
	}, true
}

// ProjectStudents lists the memberships of the selected project, each with its user.
func (s *Store) ProjectStudents() []models.EnrichedStudent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return projectStudents(s.students.Items(), s.selected, s.maps())
}

// Places lists the place of every project place.
func (s *Store) Places() []models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.projectPlaces.Items()
	out := make([]models.Place, 0, len(items))
	for _, pp := range items {
		out = append(out, pp.Place)
	}
	return out
}

// Contacts lists the contacts of all places, each once, in place order.
func (s *Store) Contacts() []models.EnrichedContact {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := map[int]struct{}{}
	var out []models.EnrichedContact
	for _, pp := range s.projectPlaces.Items() {
		place := pp.Place
		for _, c := range place.Contacts {
			if _, ok := seen[c.ID]; ok {
				continue
			}
			seen[c.ID] = struct{}{}

			owner := place
			owner.Contacts = nil
			out = append(out, models.EnrichedContact{Contact: c, Place: &owner})
		}
	}
	return out
}

// ProjectPlaces resolves place types and disciplines and lists the offered periods.
func (s *Store) ProjectPlaces() []models.EnrichedProjectPlace {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.maps()
	items := s.projectPlaces.Items()
	out := make([]models.EnrichedProjectPlace, 0, len(items))
	for _, pp := range items {
		out = append(out, enrichProjectPlace(pp, d))
	}
	return out
}

func enrichProjectPlace(pp models.ProjectPlace, d *derived) models.EnrichedProjectPlace {
	ep := models.EnrichedProjectPlace{
		ProjectPlace: pp,
		Place:        models.EnrichedPlace{Place: pp.Place},
	}
	if t, ok := d.placeTypes[pp.Place.Type]; ok {
		ep.Place.Type = &t
	}
	// Disciplines keeps only the ids the education knows.
	for _, id := range pp.Disciplines {
		if disc, ok := d.disciplines[id]; ok {
			ep.Disciplines = append(ep.Disciplines, disc)
		}
	}
	seen := map[int]struct{}{}
	for _, a := range pp.AvailabilitySet {
		if a.Min <= 0 {
			continue
		}
		if _, ok := seen[a.Period]; ok {
			continue
		}
		seen[a.Period] = struct{}{}
		ep.PeriodIDs = append(ep.PeriodIDs, a.Period)
	}
	return ep
}

// ProjectPlacesWithInternships is the set of project place ids at least one
// internship points to.
func (s *Store) ProjectPlacesWithInternships() map[int]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[int]struct{}{}
	for _, i := range s.internships.Items() {
		out[i.ProjectPlace] = struct{}{}
	}
	return out
}

// ProjectStudentsWithInternships is the set of student ids at least one internship
// points to.
func (s *Store) ProjectStudentsWithInternships() map[int]struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := map[int]struct{}{}
	for _, i := range s.internships.Items() {
		out[i.Student] = struct{}{}
	}
	return out
}

// Internships joins every internship with its student, track, period, discipline and
// place. It is empty until a project is selected and its students are loaded.
func (s *Store) Internships() []models.EnrichedInternship {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.selectedProject(); !ok || s.students.Len() == 0 {
		return []models.EnrichedInternship{}
	}

	d := s.maps()
	items := s.internships.Items()
	out := make([]models.EnrichedInternship, 0, len(items))
	for _, i := range items {
		ei := models.EnrichedInternship{
			Internship:      i,
			TagsDict:        tags.Decode(i.Tags),
			EvaluationSteps: tags.EvaluationSteps(i.Tags),
		}
		if st, ok := d.students[i.Student]; ok {
			st = st.Clone()
			ei.Student = &st
		}
		if t, ok := d.tracks[i.Track]; ok {
			t = t.Clone()
			ei.Track = &t
		}
		if p, ok := d.periods[i.Period]; ok {
			p = p.Clone()
			ei.Period = &p
		}
		if disc, ok := d.disciplines[i.Discipline]; ok {
			ei.Discipline = &disc
		}
		if pl, ok := d.places[i.ProjectPlace]; ok {
			pl = pl.Clone()
			ei.Place = &pl
		}
		out = append(out, ei)
	}
	return out
}

// Questionings resolves the period of every questioning.
func (s *Store) Questionings() []models.EnrichedQuestioning {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.maps()
	items := s.questionings.Items()
	out := make([]models.EnrichedQuestioning, 0, len(items))
	for _, q := range items {
		eq := models.EnrichedQuestioning{Questioning: q, TagsDict: tags.Decode(q.Tags)}
		if p, ok := d.periods[q.Period]; ok {
			p = p.Clone()
			eq.Period = &p
		}
		out = append(out, eq)
	}
	return out
}

func (s *Store) Emails() []models.EnrichedEmail {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.emails.Items()
	out := make([]models.EnrichedEmail, 0, len(items))
	for _, e := range items {
		out = append(out, models.EnrichedEmail{
			Email:    e,
			TagsDict: tags.Decode(e.Tags),
			TagSet:   tags.Set(e.Tags),
		})
	}
	return out
}
