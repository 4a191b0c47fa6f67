package game

import "context"

// Repository persists normalized match rows.
type Repository interface {
	UpsertBatch(ctx context.Context, rows []Game) (int, error)
	ListBySeason(ctx context.Context, competitionID, seasonID int64) ([]Game, error)
}
