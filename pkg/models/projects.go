package models

type Project struct {
	ID              int           `json:"id"`
	Name            string        `json:"name"`
	FullName        string        `json:"full_name"`
	Self            string        `json:"self"`
	RelEmails       string        `json:"rel_emails"`
	RelFiles        string        `json:"rel_files"`
	RelInternships  string        `json:"rel_internships"`
	RelPlaces       string        `json:"rel_places"`
	RelQuestionings string        `json:"rel_questionings"`
	RelStudents     string        `json:"rel_students"`
	RelTexts        string        `json:"rel_texts"`
	Education       int           `json:"education"`
	Periods         []Period      `json:"periods"`
	Questionings    []Questioning `json:"questionings"`
	StartDate       Date          `json:"start_date"`
	EndDate         Date          `json:"end_date"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
	UpdatedBy       *UserTiny     `json:"updated_by,omitempty"`
}

func (p Project) RecordID() int   { return p.ID }
func (p Project) Locator() string { return p.Self }

type Period struct {
	ID                int    `json:"id"`
	ProgramInternship int    `json:"program_internship"`
	Name              string `json:"name"`
	FullName          string `json:"full_name"`
	StartDate         Date   `json:"start_date"`
	EndDate           Date   `json:"end_date"`
	UpdatedAt         string `json:"updated_at,omitempty"`
}

type QuestioningStats struct {
	ResponseRate float64 `json:"response_rate"`
}

type Questioning struct {
	ID                  int               `json:"id"`
	Self                string            `json:"self"`
	RelResponses        string            `json:"rel_responses"`
	Type                string            `json:"type"`
	StartAt             string            `json:"start_at"`
	EndAt               string            `json:"end_at"`
	IsActive            bool              `json:"is_active"`
	Period              int               `json:"period"`
	FormDefinition      RawJSON           `json:"form_definition,omitempty"`
	EmailSubject        string            `json:"email_subject"`
	EmailBody           string            `json:"email_body"`
	EmailAddOfficeInBCC bool              `json:"email_add_office_in_bcc"`
	TargetObjectIDs     []int             `json:"target_object_ids,omitempty"`
	Stats               *QuestioningStats `json:"stats,omitempty"`
	Tags                []string          `json:"tags,omitempty"`
	UpdatedAt           string            `json:"updated_at,omitempty"`
}

func (q Questioning) RecordID() int   { return q.ID }
func (q Questioning) Locator() string { return q.Self }
