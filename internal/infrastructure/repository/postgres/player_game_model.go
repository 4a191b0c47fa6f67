package postgres

import (
	"database/sql"
	"time"
)

type playerGameTableModel struct {
	GameID               int64          `db:"game_id"`
	TeamID               int64          `db:"team_id"`
	PlayerID             int64          `db:"player_id"`
	PlayerName           string         `db:"player_name"`
	Nickname             sql.NullString `db:"nickname"`
	JerseyNumber         int            `db:"jersey_number"`
	IsStarter            bool           `db:"is_starter"`
	StartingPositionID   int            `db:"starting_position_id"`
	StartingPositionName string         `db:"starting_position_name"`
	MinutesPlayed        int            `db:"minutes_played"`
	CreatedAt            time.Time      `db:"created_at"`
	UpdatedAt            time.Time      `db:"updated_at"`
}
