package models

type Email struct {
	ID      int      `json:"id"`
	Self    string   `json:"self,omitempty"`
	SentAt  string   `json:"sent_at"`
	Subject string   `json:"subject"`
	To      []string `json:"to"`
	BCC     []string `json:"bcc"`
	ReplyTo []string `json:"reply_to"`
	Tags    []string `json:"tags"`
}

func (e Email) RecordID() int   { return e.ID }
func (e Email) Locator() string { return e.Self }

// RelatedFile is a file attached to a project or an internship.
type RelatedFile struct {
	ID        int      `json:"id"`
	Self      string   `json:"self"`
	File      string   `json:"file"`
	Name      string   `json:"name"`
	Size      int64    `json:"size"`
	Tags      []string `json:"tags"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

func (f RelatedFile) RecordID() int   { return f.ID }
func (f RelatedFile) Locator() string { return f.Self }

type Remark struct {
	ID        int       `json:"id"`
	Self      string    `json:"self"`
	Text      string    `json:"text"`
	Tags      []string  `json:"tags"`
	UpdatedAt string    `json:"updated_at,omitempty"`
	UpdatedBy *UserTiny `json:"updated_by,omitempty"`
}

func (r Remark) RecordID() int   { return r.ID }
func (r Remark) Locator() string { return r.Self }
