package event

import "context"

// Repository persists normalized event rows.
type Repository interface {
	ReplaceForGame(ctx context.Context, gameID int64, rows []Event) (int, error)
	ListByGame(ctx context.Context, gameID int64) ([]Event, error)
}
