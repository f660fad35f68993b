package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
)

type PickRepository struct {
	db *sqlx.DB
}

func NewPickRepository(db *sqlx.DB) *PickRepository {
	return &PickRepository{db: db}
}

func (r *PickRepository) GetByParticipantAndRound(ctx context.Context, participantID, seasonID string, round int) (pick.Pick, bool, error) {
	const query = `
		SELECT * FROM picks
		WHERE participant_public_id = $1 AND season_public_id = $2 AND round = $3`

	var row pickTableModel
	if err := r.db.GetContext(ctx, &row, query, participantID, seasonID, round); err != nil {
		if isNotFound(err) {
			return pick.Pick{}, false, nil
		}
		return pick.Pick{}, false, fmt.Errorf("get pick: %w", err)
	}

	return pickFromRow(row), true, nil
}

func (r *PickRepository) ListByRound(ctx context.Context, seasonID string, round int) ([]pick.Pick, error) {
	const query = `
		SELECT * FROM picks
		WHERE season_public_id = $1 AND round = $2
		ORDER BY participant_public_id`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID, round); err != nil {
		return nil, fmt.Errorf("list picks by round: %w", err)
	}

	return picksFromRows(rows), nil
}

func (r *PickRepository) ListByParticipantAndSeason(ctx context.Context, participantID, seasonID string) ([]pick.Pick, error) {
	const query = `
		SELECT * FROM picks
		WHERE participant_public_id = $1 AND season_public_id = $2
		ORDER BY round`

	var rows []pickTableModel
	if err := r.db.SelectContext(ctx, &rows, query, participantID, seasonID); err != nil {
		return nil, fmt.Errorf("list picks by participant: %w", err)
	}

	return picksFromRows(rows), nil
}

func (r *PickRepository) Put(ctx context.Context, item pick.Pick) error {
	const query = `
		INSERT INTO picks (participant_public_id, season_public_id, round, club_public_id, provenance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (participant_public_id, season_public_id, round) DO UPDATE
		SET club_public_id = EXCLUDED.club_public_id,
		    provenance = EXCLUDED.provenance,
		    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query,
		item.ParticipantID, item.SeasonID, item.Round,
		item.ClubID, string(item.Provenance), item.CreatedAt,
	); err != nil {
		return fmt.Errorf("put pick: %w", err)
	}

	return nil
}

func (r *PickRepository) PutIfAbsent(ctx context.Context, item pick.Pick) (bool, error) {
	const query = `
		INSERT INTO picks (participant_public_id, season_public_id, round, club_public_id, provenance, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW())
		ON CONFLICT (participant_public_id, season_public_id, round) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		item.ParticipantID, item.SeasonID, item.Round,
		item.ClubID, string(item.Provenance), item.CreatedAt,
	)
	if err != nil {
		return false, fmt.Errorf("put pick if absent: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("put pick if absent rows affected: %w", err)
	}

	return affected > 0, nil
}

func picksFromRows(rows []pickTableModel) []pick.Pick {
	out := make([]pick.Pick, 0, len(rows))
	for _, row := range rows {
		out = append(out, pickFromRow(row))
	}

	return out
}
