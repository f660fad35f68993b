package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-pool/internal/domain/club"
)

type ClubRepository struct {
	db *sqlx.DB
}

func NewClubRepository(db *sqlx.DB) *ClubRepository {
	return &ClubRepository{db: db}
}

func (r *ClubRepository) GetByID(ctx context.Context, id string) (club.Club, bool, error) {
	const query = `SELECT * FROM clubs WHERE public_id = $1`

	var row clubTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return club.Club{}, false, nil
		}
		return club.Club{}, false, fmt.Errorf("get club: %w", err)
	}

	return clubFromRow(row), true, nil
}

func (r *ClubRepository) ListBySeason(ctx context.Context, seasonID string) ([]club.Club, error) {
	const query = `SELECT * FROM clubs WHERE season_public_id = $1 ORDER BY public_id`

	var rows []clubTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID); err != nil {
		return nil, fmt.Errorf("list clubs: %w", err)
	}

	out := make([]club.Club, 0, len(rows))
	for _, row := range rows {
		out = append(out, clubFromRow(row))
	}

	return out, nil
}

func (r *ClubRepository) Upsert(ctx context.Context, item club.Club) error {
	const query = `
		INSERT INTO clubs (public_id, season_public_id, name, short, active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (public_id) DO UPDATE
		SET season_public_id = EXCLUDED.season_public_id,
		    name = EXCLUDED.name,
		    short = EXCLUDED.short,
		    active = EXCLUDED.active,
		    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, item.ID, item.SeasonID, item.Name, item.Short, item.Active); err != nil {
		return fmt.Errorf("upsert club: %w", err)
	}

	return nil
}
