package usecase

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchdata/internal/domain/event"
)

func halfEnd(periodID, minute int) event.Event {
	return event.Event{
		GameID:   3890561,
		TypeName: event.TypeHalfEnd,
		PeriodID: periodID,
		Minute:   minute,
		Extra:    map[string]any{},
	}
}

func startingXI(teamID int64, teamName string, playerIDs ...int64) event.Event {
	lineup := make([]any, 0, len(playerIDs))
	for _, playerID := range playerIDs {
		lineup = append(lineup, map[string]any{
			"player":        map[string]any{"id": float64(playerID), "name": "Player"},
			"position":      map[string]any{"id": float64(2), "name": "Right Back"},
			"jersey_number": float64(2),
		})
	}
	return event.Event{
		GameID:   3890561,
		TypeName: event.TypeStartingXI,
		PeriodID: 1,
		TeamID:   teamID,
		TeamName: teamName,
		Extra: map[string]any{
			event.ExtraTactics: map[string]any{
				"formation": float64(442),
				"lineup":    lineup,
			},
		},
	}
}

func substitution(outgoingID, incomingID int64, minute int, teamID int64) event.Event {
	return event.Event{
		GameID:   3890561,
		TypeName: event.TypeSubstitution,
		PeriodID: 2,
		TeamID:   teamID,
		TeamName: "Team",
		PlayerID: outgoingID,
		Minute:   minute,
		Extra: map[string]any{
			event.ExtraSubstitution: map[string]any{
				"outcome":     map[string]any{"id": float64(103), "name": "Tactical"},
				"replacement": map[string]any{"id": float64(incomingID), "name": "Replacement"},
			},
		},
	}
}

func redCard(playerID int64, minute int, extraKey string) event.Event {
	return event.Event{
		GameID:   3890561,
		TypeName: "Foul Committed",
		PeriodID: 2,
		PlayerID: playerID,
		Minute:   minute,
		Extra: map[string]any{
			extraKey: map[string]any{
				"card": map[string]any{"id": float64(5), "name": event.CardRedCard},
			},
		},
	}
}

// Half End minutes {48, 93, 105, 120} over nominal {45, 45, 15, 15} give
// actual durations {48, 48, 15, 15} and a 126 minute match: three minutes of
// stoppage in each regular half, none in extra time.
func extraTimeHalfEnds() []event.Event {
	return []event.Event{halfEnd(1, 48), halfEnd(2, 93), halfEnd(3, 105), halfEnd(4, 120)}
}

func TestNewMatchClock_DurationsAndTotal(t *testing.T) {
	clock, err := newMatchClock(extraTimeHalfEnds())
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 48, 2: 48, 3: 15, 4: 15}, clock.actual)
	assert.Equal(t, 126, clock.totalMinutes())
}

func TestNewMatchClock_DuplicateHalfEndsCollapse(t *testing.T) {
	// Both teams report each period end.
	events := append(extraTimeHalfEnds(), extraTimeHalfEnds()...)
	clock, err := newMatchClock(events)
	require.NoError(t, err)
	assert.Equal(t, 126, clock.totalMinutes())
}

func TestNewMatchClock_ShootOutExcluded(t *testing.T) {
	events := append(extraTimeHalfEnds(), halfEnd(5, 120))
	clock, err := newMatchClock(events)
	require.NoError(t, err)

	assert.Len(t, clock.actual, 4)
	assert.Equal(t, 126, clock.totalMinutes())
}

func TestNewMatchClock_MissingPeriodDoesNotShiftDeltas(t *testing.T) {
	// A feed without period 3's Half End must not hand period 3's slot to
	// period 4's duration.
	events := []event.Event{halfEnd(1, 48), halfEnd(2, 93), halfEnd(4, 120)}
	clock, err := newMatchClock(events)
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 48, 2: 48, 4: 15}, clock.actual)
	// Minute 100 sits inside period 3: only the regular-half deltas apply.
	assert.Equal(t, 106, clock.expandMinute(100))
}

func TestNewMatchClock_NegativeStoppageRejected(t *testing.T) {
	_, err := newMatchClock([]event.Event{halfEnd(1, 46), halfEnd(2, 80)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataQuality))
}

func TestExpandMinute_StrictBoundaryPolicy(t *testing.T) {
	clock := matchClock{actual: map[int]int{1: 48, 2: 48, 3: 15, 4: 15}, lastPeriod: 4}

	// Nominal 60 is past the period-1 boundary (45), so its 3 minute delta
	// applies.
	assert.Equal(t, 63, clock.expandMinute(60))
	// Nominal 90 equals the period-2 boundary: only period 1's delta
	// applies. The boundary is strict.
	assert.Equal(t, 93, clock.expandMinute(90))
	// One past the boundary, both regular-half deltas apply.
	assert.Equal(t, 97, clock.expandMinute(91))
	// Before the first boundary nothing applies.
	assert.Equal(t, 45, clock.expandMinute(45))
	assert.Equal(t, 30, clock.expandMinute(30))
}

func TestExpandMinute_MonotoneAndNeverBelowInput(t *testing.T) {
	clock := matchClock{actual: map[int]int{1: 48, 2: 48, 3: 15, 4: 15}, lastPeriod: 4}

	previous := -1
	for minute := 0; minute <= 130; minute++ {
		expanded := clock.expandMinute(minute)
		if expanded < minute {
			t.Fatalf("expandMinute(%d) = %d below input", minute, expanded)
		}
		if expanded < previous {
			t.Fatalf("expandMinute not monotone at %d: %d < %d", minute, expanded, previous)
		}
		previous = expanded
	}
}

func TestExtractPlayerGameTimes_StartersPlayFullMatch(t *testing.T) {
	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001, 1002, 1003),
		startingXI(206, "Deportivo Alavés", 2001, 2002),
	)

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)
	require.Len(t, times, 5)

	for _, playerID := range []int64{1001, 1002, 1003, 2001, 2002} {
		p := times[playerID]
		assert.Equal(t, 126, p.MinutesPlayed, "player %d", playerID)
		assert.True(t, p.IsStarter)
		assert.Equal(t, int64(3890561), p.GameID)
	}
	assert.Equal(t, "Barcelona", times[1001].TeamName)
	assert.Equal(t, int64(206), times[2001].TeamID)
	assert.Equal(t, 2, times[1001].PositionID)
}

func TestExtractPlayerGameTimes_SubstitutionPairSplitsTotal(t *testing.T) {
	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001, 1002),
		substitution(1001, 5001, 60, 217),
	)

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)

	outgoing := times[1001]
	incoming := times[5001]
	assert.Equal(t, 63, outgoing.MinutesPlayed)
	assert.Equal(t, 63, incoming.MinutesPlayed)
	assert.Equal(t, 126, outgoing.MinutesPlayed+incoming.MinutesPlayed)
	assert.False(t, incoming.IsStarter)
	assert.Equal(t, 63, incoming.EntryMinute)
	assert.Equal(t, 0, incoming.PositionID, "entrants have no starting position")
}

func TestExtractPlayerGameTimes_DismissalTruncatesStarter(t *testing.T) {
	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001, 1002),
		redCard(1002, 90, event.ExtraFoulCommitted),
	)

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)

	assert.Equal(t, 93, times[1002].MinutesPlayed)
	assert.Equal(t, 126, times[1001].MinutesPlayed)
}

func TestExtractPlayerGameTimes_SecondYellowViaBadBehaviour(t *testing.T) {
	card := redCard(1002, 70, event.ExtraBadBehaviour)
	card.Extra[event.ExtraBadBehaviour].(map[string]any)["card"] =
		map[string]any{"id": float64(6), "name": event.CardSecondYellow}

	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001, 1002),
		card,
	)

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)
	assert.Equal(t, 73, times[1002].MinutesPlayed)
}

func TestExtractPlayerGameTimes_SubstituteSubbedOffKeepsPitchTime(t *testing.T) {
	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001),
		substitution(1001, 5001, 60, 217),
		substitution(5001, 5002, 100, 217),
	)

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)

	// Nominal 60 expands to 63 and nominal 100 to 106; the chain splits the
	// 126 minute match as 63 + 43 + 20.
	assert.Equal(t, 63, times[1001].MinutesPlayed)
	assert.Equal(t, 63, times[5001].EntryMinute)
	assert.Equal(t, 43, times[5001].MinutesPlayed)
	assert.Equal(t, 106, times[5002].EntryMinute)
	assert.Equal(t, 20, times[5002].MinutesPlayed)
}

func TestExtractPlayerGameTimes_DismissedSubstituteCountsFromEntry(t *testing.T) {
	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001),
		substitution(1001, 5001, 60, 217),
		redCard(5001, 100, event.ExtraFoulCommitted),
	)

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)

	// Entered at expanded 63, sent off at expanded 100+6 = 106.
	assert.Equal(t, 106-63, times[5001].MinutesPlayed)
	assert.Equal(t, 63, times[1001].MinutesPlayed)
}

func TestExtractPlayerGameTimes_RegularMatchWithoutExtraTime(t *testing.T) {
	events := []event.Event{
		halfEnd(1, 47),
		halfEnd(2, 94),
		startingXI(217, "Barcelona", 1001),
	}

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)

	// Actual durations {47, 49}, total 96.
	assert.Equal(t, 96, times[1001].MinutesPlayed)
}

func TestExtractPlayerGameTimes_DismissalOfUnknownPlayerFails(t *testing.T) {
	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001),
		redCard(9999, 50, event.ExtraFoulCommitted),
	)

	_, err := ExtractPlayerGameTimes(events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataQuality))
}

func TestExtractPlayerGameTimes_SubstitutionOfUnknownPlayerFails(t *testing.T) {
	events := append(extraTimeHalfEnds(),
		startingXI(217, "Barcelona", 1001),
		substitution(9999, 5001, 60, 217),
	)

	_, err := ExtractPlayerGameTimes(events)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataQuality))
}

func TestExtractPlayerGameTimes_EmptyEvents(t *testing.T) {
	times, err := ExtractPlayerGameTimes(nil)
	require.NoError(t, err)
	assert.Empty(t, times)
	assert.NotNil(t, times)
}

func TestExtractPlayerGameTimes_UnlistedPlayerAbsentNotZero(t *testing.T) {
	events := append(extraTimeHalfEnds(), startingXI(217, "Barcelona", 1001))

	times, err := ExtractPlayerGameTimes(events)
	require.NoError(t, err)

	_, ok := times[4242]
	assert.False(t, ok, "players who never appeared must be absent, not zero")
}
