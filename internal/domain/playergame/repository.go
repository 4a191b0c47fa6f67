package playergame

import "context"

// Repository persists per-match player appearance rows.
type Repository interface {
	UpsertBatch(ctx context.Context, rows []PlayerGame) (int, error)
	ListByGame(ctx context.Context, gameID int64) ([]PlayerGame, error)
}
