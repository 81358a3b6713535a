package educationoffice

import (
	"context"
	"fmt"

	"github.com/metis-placement/metis.go/pkg/collection"
	"github.com/metis-placement/metis.go/pkg/constants"
	"github.com/metis-placement/metis.go/pkg/models"
	"github.com/metis-placement/metis.go/pkg/store"
)

// CreateObj inserts record into the collection named key. Creating a student reloads
// the students instead, since a bare membership cannot be joined to its user.
func (s *Store) CreateObj(ctx context.Context, key models.CollectionKey, record models.Record) error {
	if key == models.CollectionStudent {
		s.metrics.Mutation(Name, string(key), string(collection.Insert))
		return s.FetchStudents(ctx)
	}
	return s.apply(key, collection.Insert, record)
}

// UpdateObj replaces the element with the same id by record, in place. Fields record
// leaves empty are cleared. A missing element is not an error.
func (s *Store) UpdateObj(key models.CollectionKey, record models.Record) error {
	return s.apply(key, collection.Update, record)
}

// DeleteObj removes the element with the id of record. A missing element is not an
// error.
func (s *Store) DeleteObj(key models.CollectionKey, record models.Record) error {
	return s.apply(key, collection.Remove, record)
}

func (s *Store) apply(key models.CollectionKey, action collection.Action, record models.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var err error
	switch key {
	case models.CollectionContact:
		err = s.applyContact(action, record)
	case models.CollectionProjectInternship:
		err = applyTo(s.internships, action, record)
	case models.CollectionProjectPlace:
		err = applyTo(s.projectPlaces, action, record)
	case models.CollectionQuestioning:
		err = applyTo(s.questionings, action, record)
	case models.CollectionStudent:
		err = s.applyStudent(action, record)
	default:
		err = constants.ErrUnknownCollection
	}
	if err != nil {
		return fmt.Errorf("%s %s: %w", action, key, err)
	}

	s.metrics.Mutation(Name, string(key), string(action))
	return nil
}

func applyTo[T collection.Record[T]](c *collection.Collection[T], action collection.Action, record models.Record) error {
	v, err := store.As[T](record)
	if err != nil {
		return err
	}
	return c.Apply(action, v)
}

// applyContact changes the contact list of the place the contact belongs to, in every
// project place showing that place.
func (s *Store) applyContact(action collection.Action, record models.Record) error {
	contact, err := store.As[models.Contact](record)
	if err != nil {
		return err
	}

	owners := s.contactOwners(contact)
	if len(owners) == 0 {
		if action == collection.Insert {
			return fmt.Errorf("place %d: %w", contact.Place, constants.ErrNoParent)
		}
		return nil
	}

	for _, ppID := range owners {
		_, err := s.projectPlaces.Mutate(ppID, func(pp *models.ProjectPlace) error {
			return collection.Apply(s.codec, &pp.Place.Contacts, action, contact)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// contactOwners returns the project places holding the contact's place, or, when the
// record does not name its place, the ones already listing the contact.
func (s *Store) contactOwners(contact models.Contact) []int {
	var owners []int
	for _, pp := range s.projectPlaces.Items() {
		if contact.Place != 0 {
			if pp.Place.ID == contact.Place {
				owners = append(owners, pp.ID)
			}
			continue
		}
		for _, c := range pp.Place.Contacts {
			if c.ID == contact.ID {
				owners = append(owners, pp.ID)
				break
			}
		}
	}
	return owners
}

// applyStudent accepts a whole student user or a single membership. A membership is
// changed inside the user that holds it.
func (s *Store) applyStudent(action collection.Action, record models.Record) error {
	if _, err := store.As[models.StudentUser](record); err == nil {
		return applyTo(s.students, action, record)
	}
	membership, err := store.As[models.Student](record)
	if err != nil {
		return err
	}

	for _, userID := range s.membershipOwners(membership.ID) {
		_, err := s.students.Mutate(userID, func(u *models.StudentUser) error {
			return collection.Apply(s.codec, &u.StudentSet, action, membership)
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) membershipOwners(id int) []int {
	var owners []int
	for _, u := range s.students.Items() {
		for _, st := range u.StudentSet {
			if st.ID == id {
				owners = append(owners, u.ID)
				break
			}
		}
	}
	return owners
}
