package usecase

import (
	"context"

	"github.com/riskibarqy/matchdata/internal/flatten"
)

// DataSource is the provider boundary. Each call returns the raw records for
// one payload in the provider's nested shape; implementations are expected
// to reject non-list payloads with ErrPayloadShape and to translate a
// missing tracking feed into an empty frame list rather than an error.
type DataSource interface {
	Competitions(ctx context.Context) ([]flatten.Record, error)
	Matches(ctx context.Context, competitionID, seasonID int64) ([]flatten.Record, error)
	Lineups(ctx context.Context, gameID int64) ([]flatten.Record, error)
	Events(ctx context.Context, gameID int64) ([]flatten.Record, error)
	Frames(ctx context.Context, gameID int64) ([]flatten.Record, error)
}
