package models

import "github.com/metis-placement/metis.go/pkg/tags"

// EnrichedProgramInternship carries the block it was found in.
type EnrichedProgramInternship struct {
	ProgramInternship
	Block *ProgramBlock
}

type EnrichedPeriod struct {
	Period
	ProgramInternship *EnrichedProgramInternship
}

type EnrichedProject struct {
	Project
	Periods []EnrichedPeriod
}

type EnrichedPlace struct {
	Place
	Type *PlaceType
}

// EnrichedProjectPlace resolves the place type and disciplines. PeriodIDs lists, in
// availability order, the periods for which the place offers at least one position.
type EnrichedProjectPlace struct {
	ProjectPlace
	Place       EnrichedPlace
	Disciplines []Discipline
	PeriodIDs   []int
}

// OffersPeriod reports whether the place has a positive minimum capacity for period.
func (p EnrichedProjectPlace) OffersPeriod(period int) bool {
	for _, id := range p.PeriodIDs {
		if id == period {
			return true
		}
	}
	return false
}

// EnrichedContact carries its place. The place's own contact list is left empty.
type EnrichedContact struct {
	Contact
	Place *Place
}

// EnrichedStudent carries the owning user, whose membership list is left empty.
type EnrichedStudent struct {
	Student
	User    *StudentUser
	Project *Project
	Track   *Track
	Block   *ProgramBlock
}

type EnrichedInternship struct {
	Internship
	TagsDict        tags.Dict
	EvaluationSteps []tags.EvaluationStep
	Student         *EnrichedStudent
	Track           *Track
	Period          *EnrichedPeriod
	Discipline      *Discipline
	Place           *Place
}

type EnrichedQuestioning struct {
	Questioning
	TagsDict tags.Dict
	Period   *EnrichedPeriod
}

type EnrichedEmail struct {
	Email
	TagsDict tags.Dict
	TagSet   map[string]struct{}
}
