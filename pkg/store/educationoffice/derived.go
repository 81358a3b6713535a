package educationoffice

import "github.com/metis-placement/metis.go/pkg/models"

type derivedKey struct {
	ref           uint64
	students      uint64
	projectPlaces uint64
}

// derived holds the lookup maps. It is rebuilt, never patched, when one of its sources
// changes.
type derived struct {
	key derivedKey

	programInternships map[int]models.EnrichedProgramInternship
	blocks             map[int]models.ProgramBlock
	tracks             map[int]models.Track
	disciplines        map[int]models.Discipline
	placeTypes         map[int]models.PlaceType
	projects           map[int]models.Project
	periods            map[int]models.EnrichedPeriod
	places             map[int]models.Place
	students           map[int]models.EnrichedStudent
}

// maps must be called with s.mu held.
func (s *Store) maps() *derived {
	key := derivedKey{
		ref:           s.refVersion,
		students:      s.students.Version(),
		projectPlaces: s.projectPlaces.Version(),
	}
	if s.derived != nil && s.derived.key == key {
		return s.derived
	}

	d := &derived{key: key}
	if s.derived != nil && s.derived.key.ref == key.ref {
		d.programInternships = s.derived.programInternships
		d.blocks = s.derived.blocks
		d.tracks = s.derived.tracks
		d.disciplines = s.derived.disciplines
		d.placeTypes = s.derived.placeTypes
		d.projects = s.derived.projects
		d.periods = s.derived.periods
	} else {
		d.programInternships = programInternshipMap(s.programs)
		d.blocks = blockMap(s.programs)
		d.tracks = trackMap(s.programs)
		d.disciplines = disciplineMap(s.education)
		d.placeTypes = placeTypeMap(s.education)
		d.projects = projectMap(s.projects)
		d.periods = map[int]models.EnrichedPeriod{}
		if p, ok := s.selectedProject(); ok {
			for _, period := range enrichPeriods(p.Periods, d.programInternships) {
				d.periods[period.ID] = period
			}
		}
	}

	d.places = make(map[int]models.Place, s.projectPlaces.Len())
	for _, pp := range s.projectPlaces.Items() {
		d.places[pp.ID] = pp.Place
	}
	d.students = studentMap(s.students.Items(), s.selected, d)

	s.derived = d
	return d
}

// programInternshipMap keeps the first occurrence of an id, with the block it was
// found in.
func programInternshipMap(programs []models.Program) map[int]models.EnrichedProgramInternship {
	out := map[int]models.EnrichedProgramInternship{}
	for _, program := range programs {
		for _, block := range program.Blocks {
			for _, pi := range block.Internships {
				if _, ok := out[pi.ID]; ok {
					continue
				}
				out[pi.ID] = models.EnrichedProgramInternship{ProgramInternship: pi, Block: &block}
			}
		}
	}
	return out
}

func blockMap(programs []models.Program) map[int]models.ProgramBlock {
	out := map[int]models.ProgramBlock{}
	for _, program := range programs {
		for _, block := range program.Blocks {
			out[block.ID] = block
		}
	}
	return out
}

func trackMap(programs []models.Program) map[int]models.Track {
	out := map[int]models.Track{}
	for _, program := range programs {
		for _, track := range program.Tracks {
			out[track.ID] = track
		}
	}
	return out
}

func disciplineMap(education *models.Education) map[int]models.Discipline {
	out := map[int]models.Discipline{}
	if education == nil {
		return out
	}
	for _, d := range education.Disciplines {
		out[d.ID] = d
	}
	return out
}

func placeTypeMap(education *models.Education) map[int]models.PlaceType {
	out := map[int]models.PlaceType{}
	if education == nil {
		return out
	}
	for _, t := range education.PlaceTypes {
		out[t.ID] = t
	}
	return out
}

func projectMap(projects []models.Project) map[int]models.Project {
	out := make(map[int]models.Project, len(projects))
	for _, p := range projects {
		out[p.ID] = p
	}
	return out
}

func enrichPeriods(periods []models.Period, pis map[int]models.EnrichedProgramInternship) []models.EnrichedPeriod {
	out := make([]models.EnrichedPeriod, 0, len(periods))
	for _, period := range periods {
		ep := models.EnrichedPeriod{Period: period}
		if pi, ok := pis[period.ProgramInternship]; ok {
			pi = pi.Clone()
			ep.ProgramInternship = &pi
		}
		out = append(out, ep)
	}
	return out
}

// studentMap indexes the memberships of the selected project.
func studentMap(users []models.StudentUser, project int, d *derived) map[int]models.EnrichedStudent {
	out := map[int]models.EnrichedStudent{}
	for _, st := range projectStudents(users, project, d) {
		out[st.ID] = st
	}
	return out
}

func projectStudents(users []models.StudentUser, project int, d *derived) []models.EnrichedStudent {
	var out []models.EnrichedStudent
	if project == 0 {
		return out
	}
	for _, user := range users {
		owner := user
		owner.StudentSet = nil
		for _, st := range user.StudentSet {
			if st.Project != project {
				continue
			}
			out = append(out, enrichStudent(st, &owner, d))
		}
	}
	return out
}

func enrichStudent(st models.Student, owner *models.StudentUser, d *derived) models.EnrichedStudent {
	es := models.EnrichedStudent{Student: st, User: owner}
	if p, ok := d.projects[st.Project]; ok {
		p = p.Clone()
		es.Project = &p
	}
	if t, ok := d.tracks[st.Track]; ok {
		t = t.Clone()
		es.Track = &t
	}
	if b, ok := d.blocks[st.Block]; ok {
		b = b.Clone()
		es.Block = &b
	}
	return es
}

// ProgramInternshipMap indexes every program internship of every program.
func (s *Store) ProgramInternshipMap() map[int]models.EnrichedProgramInternship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().programInternships)
}

func (s *Store) BlockMap() map[int]models.ProgramBlock {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().blocks)
}

func (s *Store) TrackMap() map[int]models.Track {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().tracks)
}

func (s *Store) DisciplineMap() map[int]models.Discipline {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().disciplines)
}

func (s *Store) PlaceTypeMap() map[int]models.PlaceType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().placeTypes)
}

func (s *Store) ProjectMap() map[int]models.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().projects)
}

// PeriodMap indexes the periods of the selected project.
func (s *Store) PeriodMap() map[int]models.EnrichedPeriod {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().periods)
}

// PlaceMap maps project place ids to their place.
func (s *Store) PlaceMap() map[int]models.Place {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().places)
}

// StudentMap indexes the memberships of the selected project.
func (s *Store) StudentMap() map[int]models.EnrichedStudent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneMap(s.maps().students)
}

// cloneMap copies m and every value in it, so callers cannot reach the cached maps.
func cloneMap[V interface{ Clone() V }](m map[int]V) map[int]V {
	out := make(map[int]V, len(m))
	for k, v := range m {
		out[k] = v.Clone()
	}
	return out
}
