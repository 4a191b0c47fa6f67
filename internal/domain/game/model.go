package game

import (
	"fmt"
	"time"
)

// Game is one normalized match row. GameDate merges the provider's match
// date and kickoff time; a missing kickoff defaults to local noon. Venue and
// referee are nullable: absent in source means nil, never "".
type Game struct {
	GameID           int64
	SeasonID         int64
	SeasonName       string
	CompetitionID    int64
	CompetitionName  string
	CompetitionStage string
	GameDay          int
	GameDate         time.Time
	HomeTeamID       int64
	HomeTeamName     string
	AwayTeamID       int64
	AwayTeamName     string
	HomeScore        int
	AwayScore        int
	Venue            *string
	Referee          *string
}

func (g Game) Validate() error {
	if g.GameID <= 0 {
		return fmt.Errorf("game id is required")
	}
	if g.HomeTeamID <= 0 || g.AwayTeamID <= 0 {
		return fmt.Errorf("game requires both team ids")
	}
	if g.GameDate.IsZero() {
		return fmt.Errorf("game date is required")
	}
	return nil
}
