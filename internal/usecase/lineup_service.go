package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/sourcegraph/conc/pool"

	"github.com/riskibarqy/matchdata/internal/domain/event"
	"github.com/riskibarqy/matchdata/internal/domain/playergame"
	"github.com/riskibarqy/matchdata/internal/domain/team"
	"github.com/riskibarqy/matchdata/internal/flatten"
	"github.com/riskibarqy/matchdata/internal/platform/logging"
)

// LineupService builds the Team and Player tables for one match.
type LineupService struct {
	source DataSource
	events *EventService
	logger *logging.Logger
}

func NewLineupService(source DataSource, events *EventService, logger *logging.Logger) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}
	return &LineupService{source: source, events: events, logger: logger}
}

// lineups fetches the raw lineup payload and enforces the two-team
// invariant. Everything downstream of a match assumes exactly two sides, so
// any other cardinality is fatal for the request.
func (s *LineupService) lineups(ctx context.Context, gameID int64) ([]flatten.Record, error) {
	if gameID <= 0 {
		return nil, fmt.Errorf("%w: game id must be greater than zero", ErrInvalidInput)
	}

	recs, err := s.source.Lineups(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("fetch lineups game_id=%d: %w", gameID, err)
	}
	if len(recs) != 2 {
		return nil, fmt.Errorf("%w: lineup payload for game %d has %d teams, want 2", ErrPayloadShape, gameID, len(recs))
	}
	return recs, nil
}

// Teams returns the two sides of the match in provider order. Callers treat
// index 0 as home and 1 as away; the order is the provider's, not
// alphabetical.
func (s *LineupService) Teams(ctx context.Context, gameID int64) ([]team.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Teams")
	defer span.End()

	recs, err := s.lineups(ctx, gameID)
	if err != nil {
		return nil, err
	}

	out := make([]team.Team, 0, 2)
	for _, rec := range recs {
		out = append(out, team.Team{
			TeamID:   flatten.Int64(rec, "team_id"),
			TeamName: flatten.String(rec, "team_name"),
		})
	}
	return out, nil
}

// Players returns one row per player who actually started or entered the
// match, merging the provider roster with the time accountant's output.
// Roster players who never came on have no row at all, by design.
func (s *LineupService) Players(ctx context.Context, gameID int64) ([]playergame.PlayerGame, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.Players")
	defer span.End()

	var lineupRecs []flatten.Record
	var matchEvents []event.Event

	// Lineups and events are independent provider calls.
	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		recs, err := s.lineups(ctx, gameID)
		if err != nil {
			return err
		}
		lineupRecs = recs
		return nil
	})
	p.Go(func(ctx context.Context) error {
		events, err := s.events.Events(ctx, gameID, false)
		if err != nil {
			return err
		}
		matchEvents = events
		return nil
	})
	if err := p.Wait(); err != nil {
		return nil, err
	}

	times, err := ExtractPlayerGameTimes(matchEvents)
	if err != nil {
		return nil, err
	}

	out := make([]playergame.PlayerGame, 0, len(times))
	for _, lineupRec := range lineupRecs {
		roster, ok := lineupRec["lineup"].([]any)
		if !ok {
			continue
		}
		for _, item := range roster {
			rec, ok := item.(map[string]any)
			if !ok {
				continue
			}
			row := flatten.Event(rec)
			playerID := flatten.Int64(row, "player_id")

			played, ok := times[playerID]
			if !ok {
				// Unused bench player: no minutes record, no row.
				continue
			}

			positionName := played.PositionName
			if played.PositionID == 0 {
				positionName = playergame.SubstituteLabel
			}

			out = append(out, playergame.PlayerGame{
				GameID:               gameID,
				TeamID:               played.TeamID,
				PlayerID:             playerID,
				PlayerName:           flatten.String(row, "player_name"),
				Nickname:             flatten.StringPtr(row, "player_nickname"),
				JerseyNumber:         flatten.Int(row, "jersey_number"),
				IsStarter:            played.PositionID != 0,
				StartingPositionID:   played.PositionID,
				StartingPositionName: positionName,
				MinutesPlayed:        played.MinutesPlayed,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TeamID != out[j].TeamID {
			return out[i].TeamID < out[j].TeamID
		}
		return out[i].PlayerID < out[j].PlayerID
	})
	return out, nil
}

// GameTimes exposes the raw accountant output for one match, keyed by
// player id.
func (s *LineupService) GameTimes(ctx context.Context, gameID int64) (map[int64]PlayerGameTime, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.GameTimes")
	defer span.End()

	events, err := s.events.Events(ctx, gameID, false)
	if err != nil {
		return nil, err
	}
	return ExtractPlayerGameTimes(events)
}
