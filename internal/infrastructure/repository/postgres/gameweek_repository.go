package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
)

type GameweekRepository struct {
	db *sqlx.DB
}

func NewGameweekRepository(db *sqlx.DB) *GameweekRepository {
	return &GameweekRepository{db: db}
}

func (r *GameweekRepository) GetByNumber(ctx context.Context, seasonID string, number int) (gameweek.Gameweek, bool, error) {
	const query = `SELECT * FROM gameweeks WHERE season_public_id = $1 AND number = $2`

	var row gameweekTableModel
	if err := r.db.GetContext(ctx, &row, query, seasonID, number); err != nil {
		if isNotFound(err) {
			return gameweek.Gameweek{}, false, nil
		}
		return gameweek.Gameweek{}, false, fmt.Errorf("get gameweek: %w", err)
	}

	return gameweekFromRow(row), true, nil
}

func (r *GameweekRepository) ListBySeason(ctx context.Context, seasonID string) ([]gameweek.Gameweek, error) {
	const query = `SELECT * FROM gameweeks WHERE season_public_id = $1 ORDER BY number`

	var rows []gameweekTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID); err != nil {
		return nil, fmt.Errorf("list gameweeks: %w", err)
	}

	out := make([]gameweek.Gameweek, 0, len(rows))
	for _, row := range rows {
		out = append(out, gameweekFromRow(row))
	}

	return out, nil
}

func (r *GameweekRepository) Upsert(ctx context.Context, item gameweek.Gameweek) error {
	const query = `
		INSERT INTO gameweeks (season_public_id, number, deadline, graded, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (season_public_id, number) DO UPDATE
		SET deadline = EXCLUDED.deadline,
		    graded = EXCLUDED.graded,
		    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, item.SeasonID, item.Number, item.Deadline, item.Graded); err != nil {
		return fmt.Errorf("upsert gameweek: %w", err)
	}

	return nil
}

func (r *GameweekRepository) MarkGraded(ctx context.Context, seasonID string, number int) error {
	const query = `
		UPDATE gameweeks
		SET graded = TRUE, updated_at = NOW()
		WHERE season_public_id = $1 AND number = $2`

	result, err := r.db.ExecContext(ctx, query, seasonID, number)
	if err != nil {
		return fmt.Errorf("mark gameweek graded: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("mark gameweek graded rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("gameweek %s/%d not found", seasonID, number)
	}

	return nil
}
