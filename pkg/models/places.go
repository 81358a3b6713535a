package models

type Place struct {
	ID           int       `json:"id"`
	Self         string    `json:"self"`
	RelAddresses string    `json:"rel_addresses"`
	RelContacts  string    `json:"rel_contacts"`
	RelRemarks   string    `json:"rel_remarks"`
	RelTexts     string    `json:"rel_texts"`
	Parent       *string   `json:"parent"`
	Education    int       `json:"education"`
	Type         int       `json:"type"`
	Name         string    `json:"name"`
	Code         string    `json:"code"`
	Contacts     []Contact `json:"contacts"`
	UpdatedAt    string    `json:"updated_at,omitempty"`
	UpdatedBy    *UserTiny `json:"updated_by,omitempty"`
	RemarkCount  int       `json:"remark_count"`
}

func (p Place) RecordID() int   { return p.ID }
func (p Place) Locator() string { return p.Self }

type Contact struct {
	ID          int           `json:"id"`
	Self        string        `json:"self"`
	RelRemarks  string        `json:"rel_remarks"`
	User        UserLastLogin `json:"user"`
	IsAdmin     bool          `json:"is_admin"`
	IsStaff     bool          `json:"is_staff"`
	IsMentor    bool          `json:"is_mentor"`
	RemarkCount int           `json:"remark_count"`
	Place       int           `json:"place"`
	UpdatedAt   string        `json:"updated_at,omitempty"`
}

func (c Contact) RecordID() int   { return c.ID }
func (c Contact) Locator() string { return c.Self }

// Availability is the capacity a project place offers for one period.
type Availability struct {
	ID     int `json:"id"`
	Period int `json:"period"`
	Min    int `json:"min"`
	Max    int `json:"max"`
}

// ProjectPlace binds a place to a project for one planning cycle. Unlike most foreign
// keys, the place is sent nested.
type ProjectPlace struct {
	ID               int            `json:"id"`
	Self             string         `json:"self"`
	RelFormResponses string         `json:"rel_form_responses"`
	RelRemarks       string         `json:"rel_remarks"`
	Project          int            `json:"project"`
	Place            Place          `json:"place"`
	Disciplines      []int          `json:"disciplines"`
	AvailabilitySet  []Availability `json:"availability_set"`
	UpdatedAt        string         `json:"updated_at,omitempty"`
	RemarkCount      int            `json:"remark_count"`
}

func (p ProjectPlace) RecordID() int   { return p.ID }
func (p ProjectPlace) Locator() string { return p.Self }

type ProjectPlaceOption struct {
	Value       int    `json:"value"`
	Label       string `json:"label"`
	PlaceID     int    `json:"place_id"`
	Disciplines string `json:"disciplines"`
}
