package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/riskibarqy/matchdata/internal/flatten"
)

func passEventRecord() flatten.Record {
	return flatten.Record{
		"id":        "a1b2c3",
		"index":     float64(7),
		"period":    float64(1),
		"timestamp": "00:04:21.500",
		"minute":    float64(4),
		"second":    float64(21),
		"type": map[string]any{
			"id":   float64(30),
			"name": "Pass",
		},
		"possession": float64(3),
		"possession_team": map[string]any{
			"id":   float64(217),
			"name": "Barcelona",
		},
		"play_pattern": map[string]any{
			"id":   float64(1),
			"name": "Regular Play",
		},
		"team": map[string]any{
			"id":   float64(217),
			"name": "Barcelona",
		},
		"player": map[string]any{
			"id":   float64(5503),
			"name": "Lionel Messi",
		},
		"position": map[string]any{
			"id":   float64(24),
			"name": "Left Center Forward",
		},
		"location":       []any{float64(61.1), float64(40.3)},
		"duration":       float64(1.24),
		"under_pressure": true,
		"related_events": []any{"d4e5f6"},
		"pass": map[string]any{
			"length": float64(18.5),
			"recipient": map[string]any{
				"id":   float64(6379),
				"name": "Jordi Alba",
			},
		},
	}
}

func TestEventService_Events(t *testing.T) {
	source := &stubSource{
		events: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			return []flatten.Record{passEventRecord()}, nil
		},
	}

	rows, err := NewEventService(source, nil).Events(context.Background(), 3890561, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(3890561), row.GameID)
	assert.Equal(t, "a1b2c3", row.EventID)
	assert.Equal(t, 1, row.PeriodID)
	assert.Equal(t, 7, row.Index)
	assert.Equal(t, 30, row.TypeID)
	assert.Equal(t, "Pass", row.TypeName)
	assert.Equal(t, 4, row.Minute)
	assert.Equal(t, 21, row.Second)
	assert.Equal(t, int64(217), row.PossessionTeamID)
	assert.Equal(t, "Regular Play", row.PlayPatternName)
	assert.Equal(t, int64(5503), row.PlayerID)
	assert.Equal(t, "Left Center Forward", row.PositionName)
	assert.Equal(t, []float64{61.1, 40.3}, row.Location)
	assert.InDelta(t, 1.24, row.Duration, 1e-9)
	assert.True(t, row.UnderPressure)
	assert.False(t, row.Counterpress, "absent flags default to false")
	assert.Equal(t, []string{"d4e5f6"}, row.RelatedEvents)

	wantClock := 4*time.Minute + 21*time.Second + 500*time.Millisecond
	assert.Equal(t, wantClock, row.Timestamp)

	// The pass payload is not a reference object, so it lands in extra.
	require.Contains(t, row.Extra, "pass")
	assert.NotContains(t, row.Extra, "type")
}

func TestEventService_EmptyMatch(t *testing.T) {
	source := &stubSource{
		events: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			return []flatten.Record{}, nil
		},
	}

	rows, err := NewEventService(source, nil).Events(context.Background(), 1, false)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestEventService_RelatedEventsNeverNil(t *testing.T) {
	rec := passEventRecord()
	delete(rec, "related_events")
	source := &stubSource{
		events: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			return []flatten.Record{rec}, nil
		},
	}

	rows, err := NewEventService(source, nil).Events(context.Background(), 1, false)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.NotNil(t, rows[0].RelatedEvents)
	assert.Empty(t, rows[0].RelatedEvents)
}

func TestEventService_RejectsBadGameID(t *testing.T) {
	_, err := NewEventService(&stubSource{}, nil).Events(context.Background(), 0, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestEventService_BadTimestampIsDataQuality(t *testing.T) {
	rec := passEventRecord()
	rec["timestamp"] = "four minutes in"
	source := &stubSource{
		events: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			return []flatten.Record{rec}, nil
		},
	}

	_, err := NewEventService(source, nil).Events(context.Background(), 1, false)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataQuality))
}

func TestEventService_Join360(t *testing.T) {
	source := &stubSource{
		events: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			other := passEventRecord()
			other["id"] = "zz-no-frame"
			return []flatten.Record{passEventRecord(), other}, nil
		},
		frames: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			return []flatten.Record{
				{
					"event_uuid":   "a1b2c3",
					"visible_area": []any{float64(0), float64(80), float64(120), float64(80)},
					"freeze_frame": []any{
						map[string]any{
							"teammate": true,
							"actor":    true,
							"keeper":   false,
							"location": []any{float64(61.1), float64(40.3)},
						},
					},
				},
			}, nil
		},
	}

	rows, err := NewEventService(source, nil).Events(context.Background(), 3890561, true)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	joined := rows[0]
	assert.Equal(t, []float64{0, 80, 120, 80}, joined.VisibleArea360)
	require.Len(t, joined.FreezeFrame360, 1)
	assert.True(t, joined.FreezeFrame360[0].Actor)
	assert.Equal(t, []float64{61.1, 40.3}, joined.FreezeFrame360[0].Location)

	// Left join: the second event simply has no snapshot.
	assert.Nil(t, rows[1].VisibleArea360)
	assert.Nil(t, rows[1].FreezeFrame360)
}

func TestEventService_Join360EmptyFeed(t *testing.T) {
	source := &stubSource{
		events: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			return []flatten.Record{passEventRecord()}, nil
		},
		frames: func(ctx context.Context, gameID int64) ([]flatten.Record, error) {
			return []flatten.Record{}, nil
		},
	}

	rows, err := NewEventService(source, nil).Events(context.Background(), 3890561, true)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].VisibleArea360)
}

func TestParsePeriodClock(t *testing.T) {
	got, err := parsePeriodClock("00:47:12.340")
	require.NoError(t, err)
	assert.Equal(t, 47*time.Minute+12*time.Second+340*time.Millisecond, got)

	got, err = parsePeriodClock("")
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), got)

	_, err = parsePeriodClock("47:12")
	require.Error(t, err)
}
