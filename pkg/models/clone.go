package models

import "slices"

// Clone methods return copies that share no slice, map or pointer with the receiver.

func ptr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneEach[T interface{ Clone() T }](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	for i, v := range in {
		out[i] = v.Clone()
	}
	return out
}

func (e Education) Clone() Education {
	e.Description = ptr(e.Description)
	e.Disciplines = slices.Clone(e.Disciplines)
	e.PlaceTypes = slices.Clone(e.PlaceTypes)
	e.OfficeMembers = slices.Clone(e.OfficeMembers)
	return e
}

func (p Program) Clone() Program {
	p.Blocks = cloneEach(p.Blocks)
	p.Tracks = cloneEach(p.Tracks)
	return p
}

func (b ProgramBlock) Clone() ProgramBlock {
	b.Internships = cloneEach(b.Internships)
	return b
}

func (pi ProgramInternship) Clone() ProgramInternship {
	pi.Duration = ptr(pi.Duration)
	return pi
}

func (t Track) Clone() Track {
	t.ProgramInternships = slices.Clone(t.ProgramInternships)
	return t
}

func (p Project) Clone() Project {
	p.Periods = slices.Clone(p.Periods)
	p.Questionings = cloneEach(p.Questionings)
	p.UpdatedBy = ptr(p.UpdatedBy)
	return p
}

func (p Period) Clone() Period { return p }

func (q Questioning) Clone() Questioning {
	q.FormDefinition = slices.Clone(q.FormDefinition)
	q.TargetObjectIDs = slices.Clone(q.TargetObjectIDs)
	q.Stats = ptr(q.Stats)
	q.Tags = slices.Clone(q.Tags)
	return q
}

func (u UserLastLogin) Clone() UserLastLogin {
	u.LastLogin = ptr(u.LastLogin)
	return u
}

func (p Place) Clone() Place {
	p.Parent = ptr(p.Parent)
	p.Contacts = cloneEach(p.Contacts)
	p.UpdatedBy = ptr(p.UpdatedBy)
	return p
}

func (c Contact) Clone() Contact {
	c.User = c.User.Clone()
	return c
}

func (pp ProjectPlace) Clone() ProjectPlace {
	pp.Place = pp.Place.Clone()
	pp.Disciplines = slices.Clone(pp.Disciplines)
	pp.AvailabilitySet = slices.Clone(pp.AvailabilitySet)
	return pp
}

func (u StudentUser) Clone() StudentUser {
	u.LastLogin = ptr(u.LastLogin)
	u.StudentSet = cloneEach(u.StudentSet)
	return u
}

func (s Student) Clone() Student {
	s.Tags = slices.Clone(s.Tags)
	return s
}

func (m Mentor) Clone() Mentor {
	m.User = m.User.Clone()
	return m
}

func (i Internship) Clone() Internship {
	i.Mentors = cloneEach(i.Mentors)
	i.Tags = slices.Clone(i.Tags)
	return i
}

func (e Email) Clone() Email {
	e.To = slices.Clone(e.To)
	e.BCC = slices.Clone(e.BCC)
	e.ReplyTo = slices.Clone(e.ReplyTo)
	e.Tags = slices.Clone(e.Tags)
	return e
}

func (e EnrichedProgramInternship) Clone() EnrichedProgramInternship {
	e.ProgramInternship = e.ProgramInternship.Clone()
	if e.Block != nil {
		b := e.Block.Clone()
		e.Block = &b
	}
	return e
}

func (e EnrichedPeriod) Clone() EnrichedPeriod {
	if e.ProgramInternship != nil {
		pi := e.ProgramInternship.Clone()
		e.ProgramInternship = &pi
	}
	return e
}

func (e EnrichedStudent) Clone() EnrichedStudent {
	e.Student = e.Student.Clone()
	if e.User != nil {
		u := e.User.Clone()
		e.User = &u
	}
	if e.Project != nil {
		p := e.Project.Clone()
		e.Project = &p
	}
	if e.Track != nil {
		t := e.Track.Clone()
		e.Track = &t
	}
	if e.Block != nil {
		b := e.Block.Clone()
		e.Block = &b
	}
	return e
}

func (d Discipline) Clone() Discipline { return d }

func (t PlaceType) Clone() PlaceType { return t }
