package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
)

type SurvivalRepository struct {
	db *sqlx.DB
}

func NewSurvivalRepository(db *sqlx.DB) *SurvivalRepository {
	return &SurvivalRepository{db: db}
}

func (r *SurvivalRepository) Get(ctx context.Context, participantID, seasonID string) (survival.Entry, error) {
	const query = `
		SELECT * FROM survival_entries
		WHERE participant_public_id = $1 AND season_public_id = $2`

	var row survivalTableModel
	if err := r.db.GetContext(ctx, &row, query, participantID, seasonID); err != nil {
		if isNotFound(err) {
			return survival.Entry{ParticipantID: participantID, SeasonID: seasonID}, nil
		}
		return survival.Entry{}, fmt.Errorf("get survival entry: %w", err)
	}

	return survivalFromRow(row), nil
}

func (r *SurvivalRepository) Upsert(ctx context.Context, item survival.Entry) error {
	const query = `
		INSERT INTO survival_entries (
			participant_public_id, season_public_id,
			proxy_picks_used, revival_used, revived_round,
			eliminated_round, eliminated_at, reason,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		ON CONFLICT (participant_public_id, season_public_id) DO UPDATE
		SET proxy_picks_used = EXCLUDED.proxy_picks_used,
		    revival_used = EXCLUDED.revival_used,
		    revived_round = EXCLUDED.revived_round,
		    eliminated_round = EXCLUDED.eliminated_round,
		    eliminated_at = EXCLUDED.eliminated_at,
		    reason = EXCLUDED.reason,
		    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query,
		item.ParticipantID, item.SeasonID,
		item.ProxyPicksUsed, item.RevivalUsed, item.RevivedRound,
		item.EliminatedRound, item.EliminatedAt, string(item.Reason),
	); err != nil {
		return fmt.Errorf("upsert survival entry: %w", err)
	}

	return nil
}

// IncrementProxyUsedIfBelow relies on a single conditional UPDATE so
// the check and the bump cannot interleave across callers.
func (r *SurvivalRepository) IncrementProxyUsedIfBelow(ctx context.Context, participantID, seasonID string, cap int) (bool, error) {
	const query = `
		INSERT INTO survival_entries (
			participant_public_id, season_public_id,
			proxy_picks_used, revival_used, reason,
			created_at, updated_at
		)
		VALUES ($1, $2, 1, FALSE, '', NOW(), NOW())
		ON CONFLICT (participant_public_id, season_public_id) DO UPDATE
		SET proxy_picks_used = survival_entries.proxy_picks_used + 1,
		    updated_at = NOW()
		WHERE survival_entries.proxy_picks_used < $3`

	result, err := r.db.ExecContext(ctx, query, participantID, seasonID, cap)
	if err != nil {
		return false, fmt.Errorf("increment proxy picks used: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("increment proxy picks used rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *SurvivalRepository) DecrementProxyUsed(ctx context.Context, participantID, seasonID string) error {
	const query = `
		UPDATE survival_entries
		SET proxy_picks_used = proxy_picks_used - 1, updated_at = NOW()
		WHERE participant_public_id = $1 AND season_public_id = $2
		  AND proxy_picks_used > 0`

	if _, err := r.db.ExecContext(ctx, query, participantID, seasonID); err != nil {
		return fmt.Errorf("decrement proxy picks used: %w", err)
	}

	return nil
}

func (r *SurvivalRepository) RecordElimination(ctx context.Context, participantID, seasonID string, round int, at time.Time, reason survival.EliminationReason) (bool, error) {
	const query = `
		INSERT INTO survival_entries (
			participant_public_id, season_public_id,
			proxy_picks_used, revival_used,
			eliminated_round, eliminated_at, reason,
			created_at, updated_at
		)
		VALUES ($1, $2, 0, FALSE, $3, $4, $5, NOW(), NOW())
		ON CONFLICT (participant_public_id, season_public_id) DO UPDATE
		SET eliminated_round = EXCLUDED.eliminated_round,
		    eliminated_at = EXCLUDED.eliminated_at,
		    reason = EXCLUDED.reason,
		    updated_at = NOW()
		WHERE survival_entries.eliminated_round IS NULL
		  AND (survival_entries.revived_round IS NULL OR survival_entries.revived_round <> $3)`

	result, err := r.db.ExecContext(ctx, query, participantID, seasonID, round, at, string(reason))
	if err != nil {
		return false, fmt.Errorf("record elimination: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("record elimination rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *SurvivalRepository) ClearElimination(ctx context.Context, participantID, seasonID string) error {
	const query = `
		UPDATE survival_entries
		SET eliminated_round = NULL, eliminated_at = NULL, reason = '', updated_at = NOW()
		WHERE participant_public_id = $1 AND season_public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, participantID, seasonID); err != nil {
		return fmt.Errorf("clear elimination: %w", err)
	}

	return nil
}

func (r *SurvivalRepository) ListEliminatedByRound(ctx context.Context, seasonID string, round int) ([]survival.Entry, error) {
	const query = `
		SELECT * FROM survival_entries
		WHERE season_public_id = $1 AND eliminated_round = $2
		ORDER BY participant_public_id`

	var rows []survivalTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID, round); err != nil {
		return nil, fmt.Errorf("list eliminated by round: %w", err)
	}

	out := make([]survival.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, survivalFromRow(row))
	}

	return out, nil
}
