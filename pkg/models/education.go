package models

type Discipline struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code,omitempty"`
}

type PlaceType struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Education struct {
	ID            int          `json:"id"`
	Self          string       `json:"self"`
	RelPlaces     string       `json:"rel_places"`
	RelPrograms   string       `json:"rel_programs"`
	RelProjects   string       `json:"rel_projects"`
	URL           string       `json:"url,omitempty"`
	Code          string       `json:"code"`
	Name          string       `json:"name"`
	ShortName     string       `json:"short_name"`
	Description   *string      `json:"description"`
	Disciplines   []Discipline `json:"disciplines"`
	PlaceTypes    []PlaceType  `json:"place_types"`
	OfficeMembers []UserTiny   `json:"office_members"`
}

type EducationTiny struct {
	ID        int    `json:"id"`
	Code      string `json:"code"`
	Name      string `json:"name"`
	ShortName string `json:"short_name"`
}
