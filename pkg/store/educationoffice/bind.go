package educationoffice

import (
	"context"
	"fmt"
	"net/http"

	"github.com/buger/jsonparser"

	"github.com/metis-placement/metis.go/internal/codec"
	"github.com/metis-placement/metis.go/pkg/collection"
	"github.com/metis-placement/metis.go/pkg/connection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/events"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/relay"
	"github.com/metis-placement/metis.go/pkg/store"
)

// Bind subscribes the store to save and remove requests on bus. The returned func
// releases both topics.
func (s *Store) Bind(bus *relay.Bus) (func(), error) {
	g, err := relay.Join(
		func(g *relay.Group) error {
			return g.Add(relay.On(bus, events.SaveRequested, func(ctx context.Context, req events.SaveRequest) error {
				return s.Save(ctx, bus, req)
			}))
		},
		func(g *relay.Group) error {
			return g.Add(relay.On(bus, events.RemoveRequested, func(ctx context.Context, req events.RemoveRequest) error {
				return s.Remove(ctx, req)
			}))
		},
	)
	if err != nil {
		return nil, err
	}
	return g.Close, nil
}

// Save persists req.Record and applies the stored version. Records without a locator
// are created. When bus is not nil, events.HiddenAfterSave is emitted on success.
func (s *Store) Save(ctx context.Context, bus *relay.Bus, req events.SaveRequest) error {
	if err := s.checkRemote(); err != nil {
		return err
	}
	if req.Record == nil {
		return fmt.Errorf("save %s: %w", req.Collection, constants.ErrRecordType)
	}

	created := req.Record.Locator() == ""
	var raw models.RawJSON
	if created {
		target := req.CreateURL
		if target == "" {
			var err error
			if target, err = s.createURL(req.Collection, req.Record); err != nil {
				return err
			}
		}
		if err := s.remote.Send(ctx, http.MethodPost, target, req.Record, &raw); err != nil {
			return fmt.Errorf("create %s: %w", req.Collection, err)
		}
	} else {
		if err := s.remote.Send(ctx, http.MethodPut, req.Record.Locator(), req.Record, &raw); err != nil {
			return fmt.Errorf("update %s %d: %w", req.Collection, req.Record.RecordID(), err)
		}
	}

	stored, err := decodeRecord(s.codec, req.Collection, raw)
	if err != nil {
		return err
	}
	if created {
		err = s.CreateObj(ctx, req.Collection, stored)
	} else {
		err = s.UpdateObj(req.Collection, stored)
	}
	if err != nil {
		return err
	}

	if bus != nil {
		_, err = relay.Emit(ctx, bus, events.HiddenAfterSave, events.Saved{
			Collection: req.Collection,
			Record:     stored,
			Created:    created,
		})
	}
	return err
}

// Remove deletes req.Record on the server, then locally.
func (s *Store) Remove(ctx context.Context, req events.RemoveRequest) error {
	if err := s.checkRemote(); err != nil {
		return err
	}
	if req.Record == nil {
		return fmt.Errorf("remove %s: %w", req.Collection, constants.ErrRecordType)
	}
	locator := req.Record.Locator()
	if locator == "" {
		return fmt.Errorf("remove %s %d: %w", req.Collection, req.Record.RecordID(), constants.ErrNoLocator)
	}
	if err := connection.Delete(ctx, s.remote, locator); err != nil {
		return fmt.Errorf("remove %s %d: %w", req.Collection, req.Record.RecordID(), err)
	}
	return s.DeleteObj(req.Collection, req.Record)
}

// ApplyNotification applies a pushed change. Changes scoped to another project are
// ignored. Updates only touch the fields present in the pushed body.
func (s *Store) ApplyNotification(ctx context.Context, n connection.Notification) error {
	if n.Project != 0 && n.Project != s.SelectedProjectID() {
		return nil
	}

	switch n.Action {
	case connection.CreateAction:
		rec, err := decodeRecord(s.codec, n.Collection, n.Record)
		if err != nil {
			return err
		}
		return s.CreateObj(ctx, n.Collection, rec)
	case connection.UpdateAction:
		id, err := jsonparser.GetInt(n.Record, "id")
		if err != nil {
			return fmt.Errorf("update %s: record id: %w", n.Collection, err)
		}
		return s.merge(n.Collection, int(id), n.Record)
	case connection.DeleteAction:
		rec, err := decodeRecord(s.codec, n.Collection, n.Record)
		if err != nil {
			return err
		}
		return s.DeleteObj(n.Collection, rec)
	default:
		return fmt.Errorf("unknown notification action %q", n.Action)
	}
}

func (s *Store) merge(key models.CollectionKey, id int, patch []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch key {
	case models.CollectionContact:
		place, _ := jsonparser.GetInt(patch, "place")
		for _, ppID := range s.contactOwners(models.Contact{ID: id, Place: int(place)}) {
			if _, err = s.projectPlaces.Mutate(ppID, func(pp *models.ProjectPlace) error {
				_, merr := collection.Merge(s.codec, pp.Place.Contacts, id, patch)
				return merr
			}); err != nil {
				break
			}
		}
	case models.CollectionProjectInternship:
		_, err = s.internships.Merge(id, patch)
	case models.CollectionProjectPlace:
		_, err = s.projectPlaces.Merge(id, patch)
	case models.CollectionQuestioning:
		_, err = s.questionings.Merge(id, patch)
	case models.CollectionStudent:
		if isStudentUser(patch) {
			_, err = s.students.Merge(id, patch)
			break
		}
		for _, userID := range s.membershipOwners(id) {
			if _, err = s.students.Mutate(userID, func(u *models.StudentUser) error {
				_, merr := collection.Merge(s.codec, u.StudentSet, id, patch)
				return merr
			}); err != nil {
				break
			}
		}
	default:
		err = constants.ErrUnknownCollection
	}
	if err != nil {
		return fmt.Errorf("merge %s %d: %w", key, id, err)
	}

	s.metrics.Mutation(Name, string(key), string(collection.Update))
	return nil
}

// createURL returns the endpoint a new record of key is posted to.
func (s *Store) createURL(key models.CollectionKey, record models.Record) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	project, ok := s.selectedProject()
	if !ok {
		return "", fmt.Errorf("create %s: %w", key, constants.ErrNoScope)
	}

	var target string
	switch key {
	case models.CollectionProjectInternship:
		target = project.RelInternships
	case models.CollectionProjectPlace:
		target = project.RelPlaces
	case models.CollectionQuestioning:
		target = project.RelQuestionings
	case models.CollectionStudent:
		target = project.RelStudents
	case models.CollectionContact:
		contact, err := store.As[models.Contact](record)
		if err != nil {
			return "", err
		}
		for _, pp := range s.projectPlaces.Items() {
			if pp.Place.ID == contact.Place {
				target = pp.Place.RelContacts
				break
			}
		}
	default:
		return "", fmt.Errorf("create %s: %w", key, constants.ErrUnknownCollection)
	}
	if target == "" {
		return "", fmt.Errorf("create %s: %w", key, constants.ErrNoLocator)
	}
	return target, nil
}

func isStudentUser(data []byte) bool {
	_, _, _, err := jsonparser.Get(data, "student_set")
	return err == nil
}

// decodeRecord decodes a record body of the collection named key.
func decodeRecord(c codec.Unmarshaler, key models.CollectionKey, data []byte) (models.Record, error) {
	switch key {
	case models.CollectionContact:
		return decodeAs[models.Contact](c, data)
	case models.CollectionProjectInternship:
		return decodeAs[models.Internship](c, data)
	case models.CollectionProjectPlace:
		return decodeAs[models.ProjectPlace](c, data)
	case models.CollectionQuestioning:
		return decodeAs[models.Questioning](c, data)
	case models.CollectionStudent:
		if isStudentUser(data) {
			return decodeAs[models.StudentUser](c, data)
		}
		return decodeAs[models.Student](c, data)
	default:
		return nil, fmt.Errorf("decode %s: %w", key, constants.ErrUnknownCollection)
	}
}

func decodeAs[T models.Record](c codec.Unmarshaler, data []byte) (models.Record, error) {
	var v T
	if err := c.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("decode %T: %w", v, err)
	}
	return v, nil
}
