package models

type ProgramBlock struct {
	ID          int                 `json:"id"`
	Name        string              `json:"name"`
	Position    int                 `json:"position"`
	Internships []ProgramInternship `json:"internships"`
}

type ProgramInternship struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	Block     int    `json:"block"`
	Position  int    `json:"position"`
	StartWeek int    `json:"start_week"`
	Duration  *int   `json:"duration"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

type Track struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	Program            int    `json:"program"`
	ProgramInternships []int  `json:"program_internships"`
	UpdatedAt          string `json:"updated_at,omitempty"`
}

type Program struct {
	ID         int            `json:"id"`
	Education  int            `json:"education"`
	Name       string         `json:"name"`
	Blocks     []ProgramBlock `json:"blocks"`
	Tracks     []Track        `json:"tracks"`
	ValidFrom  Date           `json:"valid_from"`
	ValidUntil Date           `json:"valid_until"`
	UpdatedAt  string         `json:"updated_at,omitempty"`
}
