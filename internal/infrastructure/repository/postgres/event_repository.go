package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchdata/internal/domain/event"
)

type EventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) *EventRepository {
	return &EventRepository{db: db}
}

const insertEventQuery = `
INSERT INTO events (
	game_id, event_id, index, period_id, timestamp_ms, minute, second,
	type_id, type_name, possession, possession_team_id, possession_team_name,
	play_pattern_id, play_pattern_name, team_id, team_name, player_id,
	player_name, position_id, position_name, duration, under_pressure,
	counterpress, location, related_events, extra, visible_area_360,
	freeze_frame_360
) VALUES (
	:game_id, :event_id, :index, :period_id, :timestamp_ms, :minute, :second,
	:type_id, :type_name, :possession, :possession_team_id, :possession_team_name,
	:play_pattern_id, :play_pattern_name, :team_id, :team_name, :player_id,
	:player_name, :position_id, :position_name, :duration, :under_pressure,
	:counterpress, :location, :related_events, :extra, :visible_area_360,
	:freeze_frame_360
)`

// ReplaceForGame swaps the full event table of one match in a single
// transaction. Events have no stable per-row identity across provider
// refreshes, so replacement is the only safe write.
func (r *EventRepository) ReplaceForGame(ctx context.Context, gameID int64, rows []event.Event) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin replace events: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE game_id = $1`, gameID); err != nil {
		return 0, fmt.Errorf("clear events game_id=%d: %w", gameID, err)
	}

	for _, row := range rows {
		model, err := newEventTableModel(row)
		if err != nil {
			return 0, fmt.Errorf("encode event %s: %w", row.EventID, err)
		}
		if _, err := tx.NamedExecContext(ctx, insertEventQuery, model); err != nil {
			return 0, fmt.Errorf("insert event %s: %w", row.EventID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit replace events: %w", err)
	}
	return len(rows), nil
}

func (r *EventRepository) ListByGame(ctx context.Context, gameID int64) ([]event.Event, error) {
	const query = `
SELECT game_id, event_id, index, period_id, timestamp_ms, minute, second,
       type_id, type_name, possession, possession_team_id,
       possession_team_name, play_pattern_id, play_pattern_name, team_id,
       team_name, player_id, player_name, position_id, position_name,
       duration, under_pressure, counterpress, location, related_events,
       extra, visible_area_360, freeze_frame_360, created_at
FROM events
WHERE game_id = $1
ORDER BY index`

	var rows []eventTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("select events: %w", err)
	}

	out := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		item, err := row.toDomain()
		if err != nil {
			return nil, fmt.Errorf("decode event %s: %w", row.EventID, err)
		}
		out = append(out, item)
	}
	return out, nil
}
