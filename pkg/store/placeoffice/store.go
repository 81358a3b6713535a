// Package placeoffice holds the place managed by the signed-in user and answers which
// of its contacts administer it.
package placeoffice

import (
	"sync"

	"github.com/metis-placement/metis.go/pkg/models"
)

const Name = "placeOffice"

type Store struct {
	mu        sync.RWMutex
	userID    int
	education *models.EducationTiny
	place     *models.Place
}

func New() *Store {
	return &Store{}
}

func (s *Store) SetData(education models.EducationTiny, place models.Place, userID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.education = &education
	place = place.Clone()
	s.place = &place
	s.userID = userID
}

func (s *Store) Education() (models.EducationTiny, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.education == nil {
		return models.EducationTiny{}, false
	}
	return *s.education, true
}

func (s *Store) Place() (models.Place, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.place == nil {
		return models.Place{}, false
	}
	return s.place.Clone(), true
}

// Admins are the contacts of the place flagged as administrator.
func (s *Store) Admins() []models.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.admins()
}

func (s *Store) admins() []models.Contact {
	out := []models.Contact{}
	if s.place == nil {
		return out
	}
	for _, c := range s.place.Contacts {
		if c.IsAdmin {
			out = append(out, c.Clone())
		}
	}
	return out
}

// UserIsAdmin reports whether the signed-in user is one of the admins.
func (s *Store) UserIsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, c := range s.admins() {
		if c.User.ID == s.userID {
			return true
		}
	}
	return false
}
