package models

type UserTiny struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UserLastLogin struct {
	UserTiny
	LastLogin *string `json:"last_login"`
}

type User struct {
	UserLastLogin
	Username   string `json:"username"`
	IsActive   bool   `json:"is_active"`
	DateJoined string `json:"date_joined,omitempty"`
}

// Account is the signed-in user as returned by the account endpoint.
type Account struct {
	User
	RelAddresses string `json:"rel_addresses,omitempty"`
	Language     string `json:"language,omitempty"`
}

// StudentUser is a user profile with its per-project memberships.
type StudentUser struct {
	ID         int       `json:"id"`
	Username   string    `json:"username"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	LastLogin  *string   `json:"last_login"`
	IsActive   bool      `json:"is_active"`
	StudentSet []Student `json:"student_set"`
}

func (u StudentUser) RecordID() int   { return u.ID }
func (u StudentUser) Locator() string { return "" }

// Student is one membership of a user in a project.
type Student struct {
	ID        int      `json:"id"`
	Self      string   `json:"self,omitempty"`
	Project   int      `json:"project"`
	Track     int      `json:"track,omitempty"`
	Block     int      `json:"block,omitempty"`
	Number    string   `json:"number,omitempty"`
	IsActive  bool     `json:"is_active"`
	Tags      []string `json:"tags,omitempty"`
	UpdatedAt string   `json:"updated_at,omitempty"`
}

func (s Student) RecordID() int   { return s.ID }
func (s Student) Locator() string { return s.Self }

// UserNotification is an entry of the account notification menu. Icon and Color are
// presentation defaults filled in by the user store.
type UserNotification struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	URL       string `json:"url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	IsRead    bool   `json:"is_read"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty"`
}

type Signature struct {
	ID         int    `json:"id"`
	Self       string `json:"self,omitempty"`
	Text       string `json:"text"`
	Student    int    `json:"student"`
	SignedText string `json:"signed_text,omitempty"`
	CreatedAt  string `json:"created_at,omitempty"`
}
