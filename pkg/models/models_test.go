package models

import (
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Record = Project{}
	_ Record = Internship{}
	_ Record = ProjectPlace{}
	_ Record = Contact{}
	_ Record = Questioning{}
	_ Record = StudentUser{}
	_ Record = Email{}
	_ Record = RelatedFile{}
	_ Record = Remark{}
)

func TestDateUnmarshal(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{in: `"2024-01-01"`, want: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		{in: `"2024-02-03T10:30:00Z"`, want: time.Date(2024, 2, 3, 10, 30, 0, 0, time.UTC)},
		{in: `null`, want: time.Time{}},
		{in: `""`, want: time.Time{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			var d Date
			require.NoError(t, json.Unmarshal([]byte(tt.in), &d))
			assert.True(t, tt.want.Equal(d.Time), "got %v", d.Time)
		})
	}
}

func TestDateUnmarshalRejectsGarbage(t *testing.T) {
	var d Date
	assert.Error(t, json.Unmarshal([]byte(`"yesterday"`), &d))
	assert.Error(t, json.Unmarshal([]byte(`20240101`), &d))
}

func TestDateMarshal(t *testing.T) {
	data, err := json.Marshal(NewDate(2023, time.September, 18))
	require.NoError(t, err)
	assert.Equal(t, `"2023-09-18"`, string(data))

	data, err = json.Marshal(Date{})
	require.NoError(t, err)
	assert.Equal(t, `null`, string(data))
}

func TestProjectDecodesPeriods(t *testing.T) {
	payload := `{
		"id": 3,
		"name": "2024",
		"self": "http://api/projects/3/",
		"start_date": "2024-01-01",
		"periods": [{"id": 10, "program_internship": 5, "name": "P1", "start_date": "2024-02-01"}]
	}`

	var p Project
	require.NoError(t, json.Unmarshal([]byte(payload), &p))
	assert.Equal(t, 3, p.RecordID())
	assert.Equal(t, "http://api/projects/3/", p.Locator())
	require.Len(t, p.Periods, 1)
	assert.Equal(t, 5, p.Periods[0].ProgramInternship)
	assert.Equal(t, MustParseDate("2024-01-01"), p.StartDate)
}

func TestInternshipNullForeignKeys(t *testing.T) {
	payload := `{"id": 1, "student": null, "period": 10, "project_place": 4,
		"uuid": "6ba7b810-9dad-11d1-80b4-00c04fd430c8", "tags": ["a:b"]}`

	var i Internship
	require.NoError(t, json.Unmarshal([]byte(payload), &i))
	assert.Zero(t, i.Student)
	assert.Equal(t, 10, i.Period)
	assert.Equal(t, "6ba7b810-9dad-11d1-80b4-00c04fd430c8", i.UUID.String())
}

func TestEnrichedProjectPlaceOffersPeriod(t *testing.T) {
	p := EnrichedProjectPlace{PeriodIDs: []int{10, 12}}
	assert.True(t, p.OffersPeriod(12))
	assert.False(t, p.OffersPeriod(11))
}
