package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/riskibarqy/matchdata/internal/domain/competition"
)

type CompetitionRepository struct {
	db *sqlx.DB
}

func NewCompetitionRepository(db *sqlx.DB) *CompetitionRepository {
	return &CompetitionRepository{db: db}
}

const upsertCompetitionQuery = `
INSERT INTO competitions (
	season_id, competition_id, competition_name, country_name,
	competition_gender, season_name, updated_at
) VALUES (
	:season_id, :competition_id, :competition_name, :country_name,
	:competition_gender, :season_name, NOW()
)
ON CONFLICT (competition_id, season_id) DO UPDATE SET
	competition_name = EXCLUDED.competition_name,
	country_name = EXCLUDED.country_name,
	competition_gender = EXCLUDED.competition_gender,
	season_name = EXCLUDED.season_name,
	updated_at = NOW()`

func (r *CompetitionRepository) UpsertBatch(ctx context.Context, rows []competition.Competition) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin upsert competitions: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, row := range rows {
		model := competitionTableModel{
			SeasonID:          row.SeasonID,
			CompetitionID:     row.CompetitionID,
			CompetitionName:   row.CompetitionName,
			CountryName:       row.CountryName,
			CompetitionGender: row.CompetitionGender,
			SeasonName:        row.SeasonName,
		}
		if _, err := tx.NamedExecContext(ctx, upsertCompetitionQuery, model); err != nil {
			return 0, fmt.Errorf("upsert competition %d/%d: %w", row.CompetitionID, row.SeasonID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit upsert competitions: %w", err)
	}
	return len(rows), nil
}

func (r *CompetitionRepository) List(ctx context.Context) ([]competition.Competition, error) {
	const query = `
SELECT season_id, competition_id, competition_name, country_name,
       competition_gender, season_name, created_at, updated_at
FROM competitions
ORDER BY competition_id, season_id`

	var rows []competitionTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select competitions: %w", err)
	}

	out := make([]competition.Competition, 0, len(rows))
	for _, row := range rows {
		out = append(out, competition.Competition{
			SeasonID:          row.SeasonID,
			CompetitionID:     row.CompetitionID,
			CompetitionName:   row.CompetitionName,
			CountryName:       row.CountryName,
			CompetitionGender: row.CompetitionGender,
			SeasonName:        row.SeasonName,
		})
	}
	return out, nil
}
