package postgres

import (
	"fmt"
	"time"

	"github.com/riskibarqy/matchdata/internal/domain/event"
)

type eventTableModel struct {
	GameID             int64     `db:"game_id"`
	EventID            string    `db:"event_id"`
	Index              int       `db:"index"`
	PeriodID           int       `db:"period_id"`
	TimestampMs        int64     `db:"timestamp_ms"`
	Minute             int       `db:"minute"`
	Second             int       `db:"second"`
	TypeID             int       `db:"type_id"`
	TypeName           string    `db:"type_name"`
	Possession         int       `db:"possession"`
	PossessionTeamID   int64     `db:"possession_team_id"`
	PossessionTeamName string    `db:"possession_team_name"`
	PlayPatternID      int       `db:"play_pattern_id"`
	PlayPatternName    string    `db:"play_pattern_name"`
	TeamID             int64     `db:"team_id"`
	TeamName           string    `db:"team_name"`
	PlayerID           int64     `db:"player_id"`
	PlayerName         string    `db:"player_name"`
	PositionID         int       `db:"position_id"`
	PositionName       string    `db:"position_name"`
	Duration           float64   `db:"duration"`
	UnderPressure      bool      `db:"under_pressure"`
	Counterpress       bool      `db:"counterpress"`
	Location           []byte    `db:"location"`
	RelatedEvents      []byte    `db:"related_events"`
	Extra              []byte    `db:"extra"`
	VisibleArea360     []byte    `db:"visible_area_360"`
	FreezeFrame360     []byte    `db:"freeze_frame_360"`
	CreatedAt          time.Time `db:"created_at"`
}

func newEventTableModel(row event.Event) (eventTableModel, error) {
	location, err := marshalJSONColumn(row.Location)
	if err != nil {
		return eventTableModel{}, fmt.Errorf("marshal location: %w", err)
	}
	related, err := marshalJSONColumn(row.RelatedEvents)
	if err != nil {
		return eventTableModel{}, fmt.Errorf("marshal related events: %w", err)
	}
	extra, err := marshalJSONColumn(row.Extra)
	if err != nil {
		return eventTableModel{}, fmt.Errorf("marshal extra: %w", err)
	}
	visibleArea, err := marshalJSONColumn(row.VisibleArea360)
	if err != nil {
		return eventTableModel{}, fmt.Errorf("marshal visible area: %w", err)
	}
	freezeFrame, err := marshalJSONColumn(row.FreezeFrame360)
	if err != nil {
		return eventTableModel{}, fmt.Errorf("marshal freeze frame: %w", err)
	}

	return eventTableModel{
		GameID:             row.GameID,
		EventID:            row.EventID,
		Index:              row.Index,
		PeriodID:           row.PeriodID,
		TimestampMs:        row.Timestamp.Milliseconds(),
		Minute:             row.Minute,
		Second:             row.Second,
		TypeID:             row.TypeID,
		TypeName:           row.TypeName,
		Possession:         row.Possession,
		PossessionTeamID:   row.PossessionTeamID,
		PossessionTeamName: row.PossessionTeamName,
		PlayPatternID:      row.PlayPatternID,
		PlayPatternName:    row.PlayPatternName,
		TeamID:             row.TeamID,
		TeamName:           row.TeamName,
		PlayerID:           row.PlayerID,
		PlayerName:         row.PlayerName,
		PositionID:         row.PositionID,
		PositionName:       row.PositionName,
		Duration:           row.Duration,
		UnderPressure:      row.UnderPressure,
		Counterpress:       row.Counterpress,
		Location:           location,
		RelatedEvents:      related,
		Extra:              extra,
		VisibleArea360:     visibleArea,
		FreezeFrame360:     freezeFrame,
	}, nil
}

func (m eventTableModel) toDomain() (event.Event, error) {
	location, err := unmarshalJSONColumn[[]float64](m.Location)
	if err != nil {
		return event.Event{}, fmt.Errorf("unmarshal location: %w", err)
	}
	related, err := unmarshalJSONColumn[[]string](m.RelatedEvents)
	if err != nil {
		return event.Event{}, fmt.Errorf("unmarshal related events: %w", err)
	}
	extra, err := unmarshalJSONColumn[map[string]any](m.Extra)
	if err != nil {
		return event.Event{}, fmt.Errorf("unmarshal extra: %w", err)
	}
	if extra == nil {
		extra = map[string]any{}
	}
	if related == nil {
		related = []string{}
	}
	visibleArea, err := unmarshalJSONColumn[[]float64](m.VisibleArea360)
	if err != nil {
		return event.Event{}, fmt.Errorf("unmarshal visible area: %w", err)
	}
	freezeFrame, err := unmarshalJSONColumn[[]event.FreezeFramePlayer](m.FreezeFrame360)
	if err != nil {
		return event.Event{}, fmt.Errorf("unmarshal freeze frame: %w", err)
	}

	return event.Event{
		GameID:             m.GameID,
		EventID:            m.EventID,
		Index:              m.Index,
		PeriodID:           m.PeriodID,
		Timestamp:          time.Duration(m.TimestampMs) * time.Millisecond,
		Minute:             m.Minute,
		Second:             m.Second,
		TypeID:             m.TypeID,
		TypeName:           m.TypeName,
		Possession:         m.Possession,
		PossessionTeamID:   m.PossessionTeamID,
		PossessionTeamName: m.PossessionTeamName,
		PlayPatternID:      m.PlayPatternID,
		PlayPatternName:    m.PlayPatternName,
		TeamID:             m.TeamID,
		TeamName:           m.TeamName,
		PlayerID:           m.PlayerID,
		PlayerName:         m.PlayerName,
		PositionID:         m.PositionID,
		PositionName:       m.PositionName,
		Duration:           m.Duration,
		UnderPressure:      m.UnderPressure,
		Counterpress:       m.Counterpress,
		Location:           location,
		RelatedEvents:      related,
		Extra:              extra,
		VisibleArea360:     visibleArea,
		FreezeFrame360:     freezeFrame,
	}, nil
}
