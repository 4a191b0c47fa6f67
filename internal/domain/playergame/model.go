package playergame

// SubstituteLabel replaces the nominal zero-valued position name for players
// who entered from the bench.
const SubstituteLabel = "Substitute"

// PlayerGame is one player's appearance in one match, including the derived
// minutes-played figure that the provider does not ship.
type PlayerGame struct {
	GameID               int64
	TeamID               int64
	PlayerID             int64
	PlayerName           string
	Nickname             *string
	JerseyNumber         int
	IsStarter            bool
	StartingPositionID   int
	StartingPositionName string
	MinutesPlayed        int
}
