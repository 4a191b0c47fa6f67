package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/matchdata/internal/domain/competition"
	"github.com/riskibarqy/matchdata/internal/domain/game"
	"github.com/riskibarqy/matchdata/internal/flatten"
	"github.com/riskibarqy/matchdata/internal/platform/logging"
)

// Kickoff default applied when the provider omits the kick_off field. This
// is a documented default, not an error: historical matches frequently ship
// date-only.
const defaultKickOff = "12:00:00.000"

var gameDateLayouts = []string{
	"2006-01-02 15:04:05.000",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// CatalogService builds the Competition and Game tables from provider
// payloads.
type CatalogService struct {
	source DataSource
	logger *logging.Logger
}

func NewCatalogService(source DataSource, logger *logging.Logger) *CatalogService {
	if logger == nil {
		logger = logging.Default()
	}
	return &CatalogService{source: source, logger: logger}
}

// Competitions returns the provider's competition catalog projected onto the
// fixed column set. An empty provider list yields an empty typed table, not
// nil.
func (s *CatalogService) Competitions(ctx context.Context) ([]competition.Competition, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Competitions")
	defer span.End()

	recs, err := s.source.Competitions(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(recs))
	for _, rec := range recs {
		row := flatten.Catalog(rec)
		out = append(out, competition.Competition{
			SeasonID:          flatten.Int64(row, "season_id"),
			CompetitionID:     flatten.Int64(row, "competition_id"),
			CompetitionName:   flatten.String(row, "competition_name"),
			CountryName:       flatten.String(row, "country_name"),
			CompetitionGender: flatten.String(row, "competition_gender"),
			SeasonName:        flatten.String(row, "season_name"),
		})
	}
	return out, nil
}

// Games returns the normalized match list for one competition/season pair.
// match_date and kick_off merge into a single game_date; venue and referee
// stay nil when the provider omits them.
func (s *CatalogService) Games(ctx context.Context, competitionID, seasonID int64) ([]game.Game, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.CatalogService.Games")
	defer span.End()

	if competitionID <= 0 || seasonID <= 0 {
		return nil, fmt.Errorf("%w: competition and season ids must be greater than zero", ErrInvalidInput)
	}

	recs, err := s.source.Matches(ctx, competitionID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("fetch matches competition_id=%d season_id=%d: %w", competitionID, seasonID, err)
	}

	out := make([]game.Game, 0, len(recs))
	for _, rec := range recs {
		row := flatten.Catalog(rec)

		gameDate, err := parseGameDate(flatten.String(row, "match_date"), flatten.String(row, "kick_off"))
		if err != nil {
			return nil, fmt.Errorf("%w: match %d: %v", ErrDataQuality, flatten.Int64(row, "match_id"), err)
		}

		out = append(out, game.Game{
			GameID:           flatten.Int64(row, "match_id"),
			SeasonID:         flatten.Int64(row, "season_id"),
			SeasonName:       flatten.String(row, "season_name"),
			CompetitionID:    flatten.Int64(row, "competition_id"),
			CompetitionName:  flatten.String(row, "competition_name"),
			CompetitionStage: flatten.String(row, "competition_stage_name"),
			GameDay:          flatten.Int(row, "match_week"),
			GameDate:         gameDate,
			HomeTeamID:       flatten.Int64(row, "home_team_id"),
			HomeTeamName:     flatten.String(row, "home_team_name"),
			AwayTeamID:       flatten.Int64(row, "away_team_id"),
			AwayTeamName:     flatten.String(row, "away_team_name"),
			HomeScore:        flatten.Int(row, "home_score"),
			AwayScore:        flatten.Int(row, "away_score"),
			Venue:            flatten.StringPtr(row, "stadium_name"),
			Referee:          flatten.StringPtr(row, "referee_name"),
		})
	}
	return out, nil
}

func parseGameDate(matchDate, kickOff string) (time.Time, error) {
	if matchDate == "" {
		return time.Time{}, fmt.Errorf("match_date is missing")
	}
	if kickOff == "" {
		kickOff = defaultKickOff
	}

	combined := matchDate + " " + kickOff
	for _, layout := range gameDateLayouts {
		parsed, err := time.Parse(layout, combined)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable game date %q", combined)
}
