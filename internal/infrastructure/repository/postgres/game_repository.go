package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchdata/internal/domain/game"
)

type GameRepository struct {
	db *sqlx.DB
}

func NewGameRepository(db *sqlx.DB) *GameRepository {
	return &GameRepository{db: db}
}

const upsertGameQuery = `
INSERT INTO games (
	game_id, season_id, season_name, competition_id, competition_name,
	competition_stage, game_day, game_date, home_team_id, home_team_name,
	away_team_id, away_team_name, home_score, away_score, venue, referee,
	updated_at
) VALUES (
	:game_id, :season_id, :season_name, :competition_id, :competition_name,
	:competition_stage, :game_day, :game_date, :home_team_id, :home_team_name,
	:away_team_id, :away_team_name, :home_score, :away_score, :venue, :referee,
	NOW()
)
ON CONFLICT (game_id) DO UPDATE SET
	season_id = EXCLUDED.season_id,
	season_name = EXCLUDED.season_name,
	competition_id = EXCLUDED.competition_id,
	competition_name = EXCLUDED.competition_name,
	competition_stage = EXCLUDED.competition_stage,
	game_day = EXCLUDED.game_day,
	game_date = EXCLUDED.game_date,
	home_team_id = EXCLUDED.home_team_id,
	home_team_name = EXCLUDED.home_team_name,
	away_team_id = EXCLUDED.away_team_id,
	away_team_name = EXCLUDED.away_team_name,
	home_score = EXCLUDED.home_score,
	away_score = EXCLUDED.away_score,
	venue = EXCLUDED.venue,
	referee = EXCLUDED.referee,
	updated_at = NOW()`

func (r *GameRepository) UpsertBatch(ctx context.Context, rows []game.Game) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert games: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		model := gameTableModel{
			GameID:           row.GameID,
			SeasonID:         row.SeasonID,
			SeasonName:       row.SeasonName,
			CompetitionID:    row.CompetitionID,
			CompetitionName:  row.CompetitionName,
			CompetitionStage: row.CompetitionStage,
			GameDay:          row.GameDay,
			GameDate:         row.GameDate,
			HomeTeamID:       row.HomeTeamID,
			HomeTeamName:     row.HomeTeamName,
			AwayTeamID:       row.AwayTeamID,
			AwayTeamName:     row.AwayTeamName,
			HomeScore:        row.HomeScore,
			AwayScore:        row.AwayScore,
			Venue:            ptrToNullString(row.Venue),
			Referee:          ptrToNullString(row.Referee),
		}
		if _, err := tx.NamedExecContext(ctx, upsertGameQuery, model); err != nil {
			return 0, fmt.Errorf("upsert game %d: %w", row.GameID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert games: %w", err)
	}
	return len(rows), nil
}

func (r *GameRepository) ListBySeason(ctx context.Context, competitionID, seasonID int64) ([]game.Game, error) {
	const query = `
SELECT game_id, season_id, season_name, competition_id, competition_name,
       competition_stage, game_day, game_date, home_team_id, home_team_name,
       away_team_id, away_team_name, home_score, away_score, venue, referee,
       created_at, updated_at
FROM games
WHERE competition_id = $1 AND season_id = $2
ORDER BY game_date, game_id`

	var rows []gameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, competitionID, seasonID); err != nil {
		return nil, fmt.Errorf("select games by season: %w", err)
	}

	out := make([]game.Game, 0, len(rows))
	for _, row := range rows {
		out = append(out, game.Game{
			GameID:           row.GameID,
			SeasonID:         row.SeasonID,
			SeasonName:       row.SeasonName,
			CompetitionID:    row.CompetitionID,
			CompetitionName:  row.CompetitionName,
			CompetitionStage: row.CompetitionStage,
			GameDay:          row.GameDay,
			GameDate:         row.GameDate,
			HomeTeamID:       row.HomeTeamID,
			HomeTeamName:     row.HomeTeamName,
			AwayTeamID:       row.AwayTeamID,
			AwayTeamName:     row.AwayTeamName,
			HomeScore:        row.HomeScore,
			AwayScore:        row.AwayScore,
			Venue:            nullStringToPtr(row.Venue),
			Referee:          nullStringToPtr(row.Referee),
		})
	}
	return out, nil
}
