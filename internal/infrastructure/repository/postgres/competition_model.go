package postgres

import "time"

type competitionTableModel struct {
	SeasonID          int64     `db:"season_id"`
	CompetitionID     int64     `db:"competition_id"`
	CompetitionName   string    `db:"competition_name"`
	CountryName       string    `db:"country_name"`
	CompetitionGender string    `db:"competition_gender"`
	SeasonName        string    `db:"season_name"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}
