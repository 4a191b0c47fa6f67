package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchdata/internal/domain/playergame"
)

type PlayerGameRepository struct {
	db *sqlx.DB
}

func NewPlayerGameRepository(db *sqlx.DB) *PlayerGameRepository {
	return &PlayerGameRepository{db: db}
}

const upsertPlayerGameQuery = `
INSERT INTO player_games (
	game_id, team_id, player_id, player_name, nickname, jersey_number,
	is_starter, starting_position_id, starting_position_name, minutes_played,
	updated_at
) VALUES (
	:game_id, :team_id, :player_id, :player_name, :nickname, :jersey_number,
	:is_starter, :starting_position_id, :starting_position_name, :minutes_played,
	NOW()
)
ON CONFLICT (game_id, player_id) DO UPDATE SET
	team_id = EXCLUDED.team_id,
	player_name = EXCLUDED.player_name,
	nickname = EXCLUDED.nickname,
	jersey_number = EXCLUDED.jersey_number,
	is_starter = EXCLUDED.is_starter,
	starting_position_id = EXCLUDED.starting_position_id,
	starting_position_name = EXCLUDED.starting_position_name,
	minutes_played = EXCLUDED.minutes_played,
	updated_at = NOW()`

func (r *PlayerGameRepository) UpsertBatch(ctx context.Context, rows []playergame.PlayerGame) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert player games: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		model := playerGameTableModel{
			GameID:               row.GameID,
			TeamID:               row.TeamID,
			PlayerID:             row.PlayerID,
			PlayerName:           row.PlayerName,
			Nickname:             ptrToNullString(row.Nickname),
			JerseyNumber:         row.JerseyNumber,
			IsStarter:            row.IsStarter,
			StartingPositionID:   row.StartingPositionID,
			StartingPositionName: row.StartingPositionName,
			MinutesPlayed:        row.MinutesPlayed,
		}
		if _, err := tx.NamedExecContext(ctx, upsertPlayerGameQuery, model); err != nil {
			return 0, fmt.Errorf("upsert player game %d/%d: %w", row.GameID, row.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert player games: %w", err)
	}
	return len(rows), nil
}

func (r *PlayerGameRepository) ListByGame(ctx context.Context, gameID int64) ([]playergame.PlayerGame, error) {
	const query = `
SELECT game_id, team_id, player_id, player_name, nickname, jersey_number,
       is_starter, starting_position_id, starting_position_name,
       minutes_played, created_at, updated_at
FROM player_games
WHERE game_id = $1
ORDER BY team_id, player_id`

	var rows []playerGameTableModel
	if err := r.db.SelectContext(ctx, &rows, query, gameID); err != nil {
		return nil, fmt.Errorf("select player games: %w", err)
	}

	out := make([]playergame.PlayerGame, 0, len(rows))
	for _, row := range rows {
		out = append(out, playergame.PlayerGame{
			GameID:               row.GameID,
			TeamID:               row.TeamID,
			PlayerID:             row.PlayerID,
			PlayerName:           row.PlayerName,
			Nickname:             nullStringToPtr(row.Nickname),
			JerseyNumber:         row.JerseyNumber,
			IsStarter:            row.IsStarter,
			StartingPositionID:   row.StartingPositionID,
			StartingPositionName: row.StartingPositionName,
			MinutesPlayed:        row.MinutesPlayed,
		})
	}
	return out, nil
}
