package competition

import "context"

// Repository persists the normalized competition catalog.
type Repository interface {
	UpsertBatch(ctx context.Context, rows []Competition) (int, error)
	List(ctx context.Context) ([]Competition, error)
}
