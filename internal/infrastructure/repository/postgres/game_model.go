package postgres

import (
	"database/sql"
	"time"
)

type gameTableModel struct {
	GameID           int64          `db:"game_id"`
	SeasonID         int64          `db:"season_id"`
	SeasonName       string         `db:"season_name"`
	CompetitionID    int64          `db:"competition_id"`
	CompetitionName  string         `db:"competition_name"`
	CompetitionStage string         `db:"competition_stage"`
	GameDay          int            `db:"game_day"`
	GameDate         time.Time      `db:"game_date"`
	HomeTeamID       int64          `db:"home_team_id"`
	HomeTeamName     string         `db:"home_team_name"`
	AwayTeamID       int64          `db:"away_team_id"`
	AwayTeamName     string         `db:"away_team_name"`
	HomeScore        int            `db:"home_score"`
	AwayScore        int            `db:"away_score"`
	Venue            sql.NullString `db:"venue"`
	Referee          sql.NullString `db:"referee"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}
