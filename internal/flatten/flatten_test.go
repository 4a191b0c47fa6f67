package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvent_ReferenceObjectRoundTrip(t *testing.T) {
	rec := Record{
		"index": float64(7),
		"type":  map[string]any{"id": float64(30), "name": "Pass"},
		"team":  map[string]any{"id": float64(217), "name": "Barcelona"},
	}

	got := Event(rec)

	assert.Equal(t, float64(7), got["index"])
	assert.Equal(t, float64(30), got["type_id"])
	assert.Equal(t, "Pass", got["type_name"])
	assert.Equal(t, float64(217), got["team_id"])
	assert.Equal(t, "Barcelona", got["team_name"])

	// Lossless: the original sub-object rebuilds from the flat pair.
	rebuilt := map[string]any{"id": got["type_id"], "name": got["type_name"]}
	assert.Equal(t, rec["type"], rebuilt)
}

func TestEvent_NonReferencePayloadGoesToExtraVerbatim(t *testing.T) {
	pass := map[string]any{
		"end_location": []any{float64(61.1), float64(40.2)},
		"height":       map[string]any{"id": float64(1), "name": "Ground Pass"},
	}
	rec := Record{
		"duration": 1.23,
		"pass":     pass,
	}

	got := Event(rec)

	extra, ok := got[ExtraKey].(map[string]any)
	require.True(t, ok, "extra must always be a map")
	// Identity, not approximation: stored sub-map is the original value.
	assert.Equal(t, pass, extra["pass"])
	_, flattened := got["pass_id"]
	assert.False(t, flattened)
}

func TestEvent_ExtraAlwaysPresent(t *testing.T) {
	got := Event(Record{"index": float64(1)})

	extra, ok := got[ExtraKey].(map[string]any)
	require.True(t, ok)
	assert.Empty(t, extra)
}

func TestCatalog_RecursesNonReferenceSubMaps(t *testing.T) {
	rec := Record{
		"match_id": float64(3890561),
		"season": map[string]any{
			"season_id":   float64(90),
			"season_name": "2020/2021",
		},
		"competition": map[string]any{
			"competition_id":   float64(11),
			"country_name":     "Spain",
			"competition_name": "La Liga",
		},
		"competition_stage": map[string]any{"id": float64(1), "name": "Regular Season"},
	}

	got := Catalog(rec)

	assert.Equal(t, float64(3890561), got["match_id"])
	assert.Equal(t, float64(90), got["season_id"])
	assert.Equal(t, "2020/2021", got["season_name"])
	assert.Equal(t, float64(11), got["competition_id"])
	assert.Equal(t, "La Liga", got["competition_name"])
	assert.Equal(t, "Spain", got["country_name"])
	assert.Equal(t, float64(1), got["competition_stage_id"])
	assert.Equal(t, "Regular Season", got["competition_stage_name"])
}

func TestEvents_ConsistentRowsOverList(t *testing.T) {
	rows := Events([]Record{
		{"index": float64(1), "type": map[string]any{"id": float64(35), "name": "Starting XI"}},
		{"index": float64(2)},
	})

	require.Len(t, rows, 2)
	assert.Equal(t, "Starting XI", rows[0]["type_name"])
	_, ok := rows[1]["type_name"]
	assert.False(t, ok, "absent columns stay absent on the row and default at projection time")
	for _, row := range rows {
		_, ok := row[ExtraKey].(map[string]any)
		assert.True(t, ok)
	}
}

func TestValueHelpers(t *testing.T) {
	rec := Record{
		"game_id":        float64(42),
		"minute":         "17",
		"duration":       0.84,
		"under_pressure": true,
		"location":       []any{float64(12.5), float64(33.0)},
		"related_events": []any{"a-1", "b-2"},
		"venue":          "Camp Nou",
		ExtraKey:         map[string]any{"pass": map[string]any{"length": float64(12)}},
	}

	assert.Equal(t, int64(42), Int64(rec, "game_id"))
	assert.Equal(t, 17, Int(rec, "minute"))
	assert.Equal(t, 0.84, Float(rec, "duration"))
	assert.True(t, Bool(rec, "under_pressure"))
	assert.False(t, Bool(rec, "counterpress"))
	assert.Equal(t, []float64{12.5, 33.0}, Floats(rec, "location"))
	assert.Equal(t, []string{"a-1", "b-2"}, Strings(rec, "related_events"))
	assert.Equal(t, []string{}, Strings(rec, "missing"), "list columns are never nil")
	require.NotNil(t, StringPtr(rec, "venue"))
	assert.Nil(t, StringPtr(rec, "referee"))
	require.NotNil(t, Extra(rec, "pass"))
	assert.Nil(t, Extra(rec, "shot"))
}
