package competition

import "fmt"

// Competition is one competition/season pair from the provider catalog.
// Rows are read-only and derived fresh per query.
type Competition struct {
	SeasonID          int64
	CompetitionID     int64
	CompetitionName   string
	CountryName       string
	CompetitionGender string
	SeasonName        string
}

func (c Competition) Validate() error {
	if c.CompetitionID <= 0 {
		return fmt.Errorf("competition id is required")
	}
	if c.SeasonID <= 0 {
		return fmt.Errorf("season id is required")
	}
	if c.CompetitionName == "" {
		return fmt.Errorf("competition name is required")
	}
	return nil
}
