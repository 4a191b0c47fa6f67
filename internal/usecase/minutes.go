package usecase

import (
	"fmt"

	"github.com/riskibarqy/matchdata/internal/domain/event"
	"github.com/riskibarqy/matchdata/internal/flatten"
)

// Nominal minutes for the timed periods 1..4 (two regular halves, two
// extra-time halves). Period 5 is the penalty shoot-out and contributes no
// playing time at all.
var nominalPeriodMinutes = [4]int{45, 45, 15, 15}

const shootOutPeriodID = 5

// PlayerGameTime is the accountant's answer for one player: which team they
// played for, when they entered, and how many true minutes they were on the
// pitch. Starters carry the position declared in the Starting XI event;
// substitute entrants keep position 0 until the lineup loader relabels them.
type PlayerGameTime struct {
	GameID        int64
	TeamID        int64
	TeamName      string
	PlayerID      int64
	PlayerName    string
	PositionID    int
	PositionName  string
	IsStarter     bool
	EntryMinute   int
	MinutesPlayed int
}

// matchClock converts the provider's nominal event minutes into true elapsed
// minutes. actual holds the real duration of each timed period derived from
// the Half End events, keyed by period id so a gap in the feed cannot shift
// a later period's stoppage delta onto the wrong period.
type matchClock struct {
	actual     map[int]int
	lastPeriod int
}

// newMatchClock reads the distinct Half End minutes of periods 1..4 and
// converts them to per-period durations by subtracting the cumulative
// nominal duration of all earlier periods. A period shorter than its nominal
// length means negative stoppage time, which only an inconsistent feed can
// produce, and is rejected.
func newMatchClock(events []event.Event) (matchClock, error) {
	endMinute := make(map[int]int, len(nominalPeriodMinutes))
	for _, e := range events {
		if e.TypeName != event.TypeHalfEnd {
			continue
		}
		if e.PeriodID < 1 || e.PeriodID > len(nominalPeriodMinutes) {
			continue
		}
		// Both teams report the period end; keep the larger minute when
		// they disagree.
		if current, ok := endMinute[e.PeriodID]; !ok || e.Minute > current {
			endMinute[e.PeriodID] = e.Minute
		}
	}

	clock := matchClock{actual: make(map[int]int, len(endMinute))}
	cumulative := 0
	for periodID := 1; periodID <= len(nominalPeriodMinutes); periodID++ {
		nominal := nominalPeriodMinutes[periodID-1]
		if end, ok := endMinute[periodID]; ok {
			duration := end - cumulative
			if duration < nominal {
				return matchClock{}, fmt.Errorf(
					"%w: period %d ends at minute %d implying negative stoppage time",
					ErrDataQuality, periodID, end,
				)
			}
			clock.actual[periodID] = duration
			clock.lastPeriod = periodID
		}
		cumulative += nominal
	}

	return clock, nil
}

// totalMinutes is the full match duration over all timed periods.
func (c matchClock) totalMinutes() int {
	total := 0
	for _, minutes := range c.actual {
		total += minutes
	}
	return total
}

// expandMinute lifts a nominal minute onto the true match clock by adding
// the stoppage-time delta of every period completed strictly before it. The
// boundary policy is deliberate and pinned by tests: a period's delta
// applies only when the nominal minute is strictly greater than that
// period's cumulative nominal boundary.
func (c matchClock) expandMinute(minute int) int {
	expanded := minute
	boundary := 0
	for periodID := 1; periodID < c.lastPeriod; periodID++ {
		boundary += nominalPeriodMinutes[periodID-1]
		if minute <= boundary {
			break
		}
		if actual, ok := c.actual[periodID]; ok {
			expanded += actual - nominalPeriodMinutes[periodID-1]
		}
	}
	return expanded
}

// ExtractPlayerGameTimes reconstructs minutes played for every player who
// started or entered the match. The pass is deliberately order-independent:
// it first registers the full candidate set (starting XI plus substitution
// entrants), then overlays dismissal overrides, so card events always win
// over the played-to-the-whistle default regardless of feed ordering.
//
// A dismissal or substitution naming a player who was never registered is a
// data-quality violation and fails the whole extraction.
func ExtractPlayerGameTimes(events []event.Event) (map[int64]PlayerGameTime, error) {
	if len(events) == 0 {
		return map[int64]PlayerGameTime{}, nil
	}

	clock, err := newMatchClock(events)
	if err != nil {
		return nil, err
	}
	total := clock.totalMinutes()

	var gameID int64
	for _, e := range events {
		if e.GameID != 0 {
			gameID = e.GameID
			break
		}
	}

	// First card per player, in feed order. Shoot-out events never reach
	// the clock math below, but a card shown during the shoot-out cannot
	// truncate timed play either, so skip period 5 here too.
	dismissalMinute := make(map[int64]int)
	for _, e := range events {
		if e.PeriodID == shootOutPeriodID || !e.IsDismissal() {
			continue
		}
		if _, seen := dismissalMinute[e.PlayerID]; !seen {
			dismissalMinute[e.PlayerID] = e.Minute
		}
	}

	players := make(map[int64]PlayerGameTime, 32)

	for _, e := range events {
		if e.TypeName != event.TypeStartingXI {
			continue
		}
		for _, rec := range e.TacticsLineup() {
			row := flatten.Event(rec)
			playerID := flatten.Int64(row, "player_id")
			players[playerID] = PlayerGameTime{
				GameID:        gameID,
				TeamID:        e.TeamID,
				TeamName:      e.TeamName,
				PlayerID:      playerID,
				PlayerName:    flatten.String(row, "player_name"),
				PositionID:    flatten.Int(row, "position_id"),
				PositionName:  flatten.String(row, "position_name"),
				IsStarter:     true,
				MinutesPlayed: total,
			}
		}
	}

	for _, e := range events {
		if e.TypeName != event.TypeSubstitution || e.PeriodID == shootOutPeriodID {
			continue
		}
		replacementID, replacementName, ok := e.SubstitutionReplacement()
		if !ok {
			return nil, fmt.Errorf("%w: substitution event %s has no replacement", ErrDataQuality, e.EventID)
		}

		subMinute := clock.expandMinute(e.Minute)

		outgoing, ok := players[e.PlayerID]
		if !ok {
			return nil, fmt.Errorf(
				"%w: substitution for player %d who never started or entered",
				ErrDataQuality, e.PlayerID,
			)
		}
		outgoing.MinutesPlayed = subMinute - outgoing.EntryMinute
		players[e.PlayerID] = outgoing

		players[replacementID] = PlayerGameTime{
			GameID:        gameID,
			TeamID:        e.TeamID,
			TeamName:      e.TeamName,
			PlayerID:      replacementID,
			PlayerName:    replacementName,
			EntryMinute:   subMinute,
			MinutesPlayed: total - subMinute,
		}
	}

	for playerID, minute := range dismissalMinute {
		p, ok := players[playerID]
		if !ok {
			return nil, fmt.Errorf(
				"%w: dismissal of player %d who never started or entered",
				ErrDataQuality, playerID,
			)
		}
		p.MinutesPlayed = clock.expandMinute(minute) - p.EntryMinute
		players[playerID] = p
	}

	return players, nil
}
