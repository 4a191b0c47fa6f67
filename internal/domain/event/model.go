package event

import (
	"time"

	"github.com/riskibarqy/matchdata/internal/flatten"
)

// Event type names the time-accounting pass keys on.
const (
	TypeStartingXI   = "Starting XI"
	TypeHalfEnd      = "Half End"
	TypeSubstitution = "Substitution"
)

// Extra payload keys that may carry a card.
const (
	ExtraFoulCommitted = "foul_committed"
	ExtraBadBehaviour  = "bad_behaviour"
	ExtraSubstitution  = "substitution"
	ExtraTactics       = "tactics"
)

// Card names that count as a dismissal.
const (
	CardSecondYellow = "Second Yellow"
	CardRedCard      = "Red Card"
)

// Event is one normalized on-pitch event. Extra holds every event-type
// specific nested structure exactly as the provider emitted it, keyed by its
// original field name; the typed accessors below interpret it lazily.
// RelatedEvents is always materialized (empty, not nil) and the boolean
// flags default to false. The 360 fields stay nil for matches without a
// tracking feed.
type Event struct {
	GameID             int64
	EventID            string
	PeriodID           int
	TeamID             int64
	PlayerID           int64
	TypeID             int
	TypeName           string
	Index              int
	Timestamp          time.Duration
	Minute             int
	Second             int
	Possession         int
	PossessionTeamID   int64
	PossessionTeamName string
	PlayPatternID      int
	PlayPatternName    string
	TeamName           string
	PlayerName         string
	PositionID         int
	PositionName       string
	Duration           float64
	Location           []float64
	UnderPressure      bool
	Counterpress       bool
	RelatedEvents      []string
	Extra              map[string]any

	VisibleArea360 []float64
	FreezeFrame360 []FreezeFramePlayer
}

// FreezeFramePlayer is one visible player position in a 360 snapshot.
type FreezeFramePlayer struct {
	Teammate bool      `json:"teammate"`
	Actor    bool      `json:"actor"`
	Keeper   bool      `json:"keeper"`
	Location []float64 `json:"location"`
}

// CardName returns the card carried by a foul-committed or bad-behaviour
// payload, or "" when the event has none.
func (e Event) CardName() string {
	for _, key := range []string{ExtraFoulCommitted, ExtraBadBehaviour} {
		sub, ok := e.Extra[key].(map[string]any)
		if !ok {
			continue
		}
		card, ok := sub["card"].(map[string]any)
		if !ok {
			continue
		}
		if name, ok := card["name"].(string); ok && name != "" {
			return name
		}
	}
	return ""
}

// IsDismissal reports whether the event sent its player off.
func (e Event) IsDismissal() bool {
	name := e.CardName()
	return name == CardSecondYellow || name == CardRedCard
}

// SubstitutionReplacement returns the incoming player of a Substitution
// event. ok is false when the event carries no substitution payload.
func (e Event) SubstitutionReplacement() (id int64, name string, ok bool) {
	sub, found := e.Extra[ExtraSubstitution].(map[string]any)
	if !found {
		return 0, "", false
	}
	repl, found := sub["replacement"].(map[string]any)
	if !found {
		return 0, "", false
	}
	return flatten.Int64(repl, "id"), flatten.String(repl, "name"), true
}

// TacticsLineup returns the declared lineup of a Starting XI (or Tactical
// Shift) event, one raw record per listed player.
func (e Event) TacticsLineup() []flatten.Record {
	tactics, ok := e.Extra[ExtraTactics].(map[string]any)
	if !ok {
		return nil
	}
	items, ok := tactics["lineup"].([]any)
	if !ok {
		return nil
	}
	out := make([]flatten.Record, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, rec)
	}
	return out
}
