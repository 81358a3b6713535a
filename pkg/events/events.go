// Package events declares the topics UI components and stores exchange over a relay.Bus.
package events

import (
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/relay"
)

// SaveRequest asks the store owning Collection to persist Record. A record without an
// id is created, at CreateURL when set or at the collection endpoint of the selected
// scope otherwise. A record with an id is written to its locator.
type SaveRequest struct {
	Collection models.CollectionKey
	Record     models.Record
	CreateURL  string
}

// RemoveRequest asks the store owning Collection to delete Record.
type RemoveRequest struct {
	Collection models.CollectionKey
	Record     models.Record
}

// Saved reports the stored version of a record after a SaveRequest succeeded.
type Saved struct {
	Collection models.CollectionKey
	Record     models.Record
	Created    bool
}

var (
	ShowContactForm = relay.NewTopic[models.UserLastLogin]("show-contact-dialog")
	SaveRequested   = relay.NewTopic[SaveRequest]("editor-save")
	RemoveRequested = relay.NewTopic[RemoveRequest]("editor-remove")
	EditorHidden    = relay.NewTopic[struct{}]("editor-hide")
	HiddenAfterSave = relay.NewTopic[Saved]("editor-hide-after-save")
)
