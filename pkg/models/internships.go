package models

import "github.com/gofrs/uuid"

type Mentor struct {
	ID   int           `json:"id"`
	User UserLastLogin `json:"user"`
}

// Internship links a student membership, a period, a track, a discipline and a
// project place. Zero foreign keys mean "not assigned".
type Internship struct {
	ID             int       `json:"id"`
	Self           string    `json:"self"`
	RelAbsences    string    `json:"rel_absences"`
	RelEvaluations string    `json:"rel_evaluations"`
	RelFiles       string    `json:"rel_files"`
	RelRemarks     string    `json:"rel_remarks"`
	RelTimesheets  string    `json:"rel_timesheets"`
	UUID           uuid.UUID `json:"uuid"`
	Student        int       `json:"student"`
	Track          int       `json:"track"`
	Period         int       `json:"period"`
	Mentors        []Mentor  `json:"mentors"`
	Discipline     int       `json:"discipline"`
	StartDate      Date      `json:"start_date"`
	EndDate        Date      `json:"end_date"`
	ProjectPlace   int       `json:"project_place"`
	Status         string    `json:"status"`
	IsApproved     bool      `json:"is_approved"`
	Tags           []string  `json:"tags"`
	UpdatedAt      string    `json:"updated_at,omitempty"`
}

func (i Internship) RecordID() int   { return i.ID }
func (i Internship) Locator() string { return i.Self }
