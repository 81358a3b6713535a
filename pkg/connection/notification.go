package connection

import (
	"github.com/metis-placement/metis.go/pkg/models"
)

type Action string

const (
	CreateAction Action = "create"
	UpdateAction Action = "update"
	DeleteAction Action = "delete"
)

// Notification is a change pushed by the server. Record holds the record body, which
// for updates may be partial. Project scopes the change to one project, 0 when global.
type Notification struct {
	Action     Action               `json:"action"`
	Collection models.CollectionKey `json:"collection"`
	Project    int                  `json:"project,omitempty"`
	Record     models.RawJSON       `json:"record"`
}
