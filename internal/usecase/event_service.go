package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/matchdata/internal/domain/event"
	"github.com/riskibarqy/matchdata/internal/flatten"
	"github.com/riskibarqy/matchdata/internal/platform/logging"
)

// EventService builds the normalized Event table for one match, optionally
// joined with the 360 tracking feed.
type EventService struct {
	source DataSource
	logger *logging.Logger
}

func NewEventService(source DataSource, logger *logging.Logger) *EventService {
	if logger == nil {
		logger = logging.Default()
	}
	return &EventService{source: source, logger: logger}
}

// Events returns every event of the match in provider order. A match with
// zero events yields an empty typed table. With with360 set, tracking
// snapshots are left-joined by event id; a match without tracking data
// simply leaves the 360 fields nil on every row.
func (s *EventService) Events(ctx context.Context, gameID int64, with360 bool) ([]event.Event, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.EventService.Events")
	defer span.End()

	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	}

	recs, err := s.source.Events(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch events game_id=%d: %w", gameID, err)
	}

	out := make([]event.Event, 0, len(recs))
	for _, rec := range recs {
		row := flatten.Event(rec)

		extra, ok := row[flatten.ExtraKey].(map[string]any)
		if !ok {
			extra = map[string]any{}
		}

		timestamp, err := parsePeriodClock(flatten.String(row, "timestamp"))
		if err != nil {
			return nil, fmt.Errorf("%w: event %s: %v", ErrDataQuality, flatten.String(row, "id"), err)
		}

		out = append(out, event.Event{
			GameID:             gameID,
			EventID:            flatten.String(row, "id"),
			PeriodID:           flatten.Int(row, "period"),
			TeamID:             flatten.Int64(row, "team_id"),
			PlayerID:           flatten.Int64(row, "player_id"),
			TypeID:             flatten.Int(row, "type_id"),
			TypeName:           flatten.String(row, "type_name"),
			Index:              flatten.Int(row, "index"),
			Timestamp:          timestamp,
			Minute:             flatten.Int(row, "minute"),
			Second:             flatten.Int(row, "second"),
			Possession:         flatten.Int(row, "possession"),
			PossessionTeamID:   flatten.Int64(row, "possession_team_id"),
			PossessionTeamName: flatten.String(row, "possession_team_name"),
			PlayPatternID:      flatten.Int(row, "play_pattern_id"),
			PlayPatternName:    flatten.String(row, "play_pattern_name"),
			TeamName:           flatten.String(row, "team_name"),
			PlayerName:         flatten.String(row, "player_name"),
			PositionID:         flatten.Int(row, "position_id"),
			PositionName:       flatten.String(row, "position_name"),
			Duration:           flatten.Float(row, "duration"),
			Location:           flatten.Floats(row, "location"),
			UnderPressure:      flatten.Bool(row, "under_pressure"),
			Counterpress:       flatten.Bool(row, "counterpress"),
			RelatedEvents:      flatten.Strings(row, "related_events"),
			Extra:              extra,
		})
	}

	if !with360 {
		return out, nil
	}
	return s.join360(ctx, gameID, out)
}

func (s *EventService) join360(ctx context.Context, gameID int64, events []event.Event) ([]event.Event, error) {
	frames, err := s.source.Frames(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch 360 frames game_id=%d: %w", gameID, err)
	}
	if len(frames) == 0 {
		s.logger.DebugContext(ctx, "no 360 tracking data for match", "game_id", gameID)
		return events, nil
	}

	type frame struct {
		visibleArea []float64
		freezeFrame []event.FreezeFramePlayer
	}
	byEventID := make(map[string]frame, len(frames))
	for _, rec := range frames {
		eventID := flatten.String(rec, "event_uuid")
		if eventID == "" {
			continue
		}
		byEventID[eventID] = frame{
			visibleArea: flatten.Floats(rec, "visible_area"),
			freezeFrame: parseFreezeFrame(rec["freeze_frame"]),
		}
	}

	// Left join: events without a snapshot keep nil 360 fields.
	for i := range events {
		if f, ok := byEventID[events[i].EventID]; ok {
			events[i].VisibleArea360 = f.visibleArea
			events[i].FreezeFrame360 = f.freezeFrame
		}
	}
	return events, nil
}

func parseFreezeFrame(raw any) []event.FreezeFramePlayer {
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	out := make([]event.FreezeFramePlayer, 0, len(items))
	for _, item := range items {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, event.FreezeFramePlayer{
			Teammate: flatten.Bool(rec, "teammate"),
			Actor:    flatten.Bool(rec, "actor"),
			Keeper:   flatten.Bool(rec, "keeper"),
			Location: flatten.Floats(rec, "location"),
		})
	}
	return out
}

// parsePeriodClock parses the provider's "HH:MM:SS.mmm" timestamp into a
// duration since period start.
func parsePeriodClock(raw string) (time.Duration, error) {
	if raw == "" {
		return 0, nil
	}

	parts := strings.SplitN(raw, ":", 3)
	if len(parts) != 3 {
		return 0, fmt.Errorf("unparseable period clock %q", raw)
	}

	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("unparseable period clock %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("unparseable period clock %q", raw)
	}
	seconds, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable period clock %q", raw)
	}

	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)), nil
}
