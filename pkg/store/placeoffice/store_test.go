package placeoffice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metis-placement/metis.go/pkg/models"
)

func contact(id, userID int, admin bool) models.Contact {
	c := models.Contact{ID: id, IsAdmin: admin}
	c.User.ID = userID
	return c
}

func TestAdmins(t *testing.T) {
	tests := []struct {
		name    string
		userID  int
		admins  []int
		isAdmin bool
	}{
		{name: "admin", userID: 11, admins: []int{1, 3}, isAdmin: true},
		{name: "contact but not admin", userID: 12, admins: []int{1, 3}, isAdmin: false},
		{name: "stranger", userID: 99, admins: []int{1, 3}, isAdmin: false},
	}

	place := models.Place{ID: 5, Contacts: []models.Contact{
		contact(1, 11, true),
		contact(2, 12, false),
		contact(3, 13, true),
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New()
			s.SetData(models.EducationTiny{ID: 1}, place, tt.userID)

			var ids []int
			for _, c := range s.Admins() {
				ids = append(ids, c.ID)
			}
			assert.Equal(t, tt.admins, ids)
			assert.Equal(t, tt.isAdmin, s.UserIsAdmin())
		})
	}
}

func TestEmpty(t *testing.T) {
	s := New()
	assert.Empty(t, s.Admins())
	assert.False(t, s.UserIsAdmin())
	_, ok := s.Place()
	assert.False(t, ok)

	s.SetData(models.EducationTiny{Code: "MED"}, models.Place{ID: 5}, 1)
	p, ok := s.Place()
	require.True(t, ok)
	assert.Equal(t, 5, p.ID)
	edu, _ := s.Education()
	assert.Equal(t, "MED", edu.Code)
}

func TestReadsAreCopies(t *testing.T) {
	s := New()
	place := models.Place{ID: 5, Contacts: []models.Contact{contact(1, 11, true)}}
	s.SetData(models.EducationTiny{ID: 1}, place, 11)
	place.Contacts[0].IsAdmin = false

	got, ok := s.Place()
	require.True(t, ok)
	got.Contacts[0].IsAdmin = false

	assert.True(t, s.UserIsAdmin())
	assert.Len(t, s.Admins(), 1)
}
