package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
)

type ParticipantRepository struct {
	db *sqlx.DB
}

func NewParticipantRepository(db *sqlx.DB) *ParticipantRepository {
	return &ParticipantRepository{db: db}
}

func (r *ParticipantRepository) GetByID(ctx context.Context, id string) (participant.Participant, bool, error) {
	const query = `SELECT * FROM participants WHERE public_id = $1`

	var row participantTableModel
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if isNotFound(err) {
			return participant.Participant{}, false, nil
		}
		return participant.Participant{}, false, fmt.Errorf("get participant: %w", err)
	}

	return participantFromRow(row), true, nil
}

func (r *ParticipantRepository) ListAlive(ctx context.Context) ([]participant.Participant, error) {
	const query = `SELECT * FROM participants WHERE alive ORDER BY public_id`

	return r.list(ctx, query)
}

func (r *ParticipantRepository) List(ctx context.Context) ([]participant.Participant, error) {
	const query = `SELECT * FROM participants ORDER BY public_id`

	return r.list(ctx, query)
}

// SetEliminated flips the alive flag only when it is still set, so a
// replayed grading pass reports false instead of rewriting the round.
func (r *ParticipantRepository) SetEliminated(ctx context.Context, id string, round int) (bool, error) {
	const query = `
		UPDATE participants
		SET alive = FALSE, eliminated_round = $2, updated_at = NOW()
		WHERE public_id = $1 AND alive`

	result, err := r.db.ExecContext(ctx, query, id, round)
	if err != nil {
		return false, fmt.Errorf("set participant eliminated: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set participant eliminated rows affected: %w", err)
	}

	return affected > 0, nil
}

func (r *ParticipantRepository) SetAlive(ctx context.Context, id string) error {
	const query = `
		UPDATE participants
		SET alive = TRUE, eliminated_round = NULL, updated_at = NOW()
		WHERE public_id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("set participant alive: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("set participant alive rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("participant %s not found", id)
	}

	return nil
}

func (r *ParticipantRepository) Upsert(ctx context.Context, item participant.Participant) error {
	const query = `
		INSERT INTO participants (public_id, name, alive, eliminated_round, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (public_id) DO UPDATE
		SET name = EXCLUDED.name,
		    alive = EXCLUDED.alive,
		    eliminated_round = EXCLUDED.eliminated_round,
		    updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, item.ID, item.Name, item.Alive, item.EliminatedRound); err != nil {
		return fmt.Errorf("upsert participant: %w", err)
	}

	return nil
}

func (r *ParticipantRepository) list(ctx context.Context, query string) ([]participant.Participant, error) {
	var rows []participantTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	out := make([]participant.Participant, 0, len(rows))
	for _, row := range rows {
		out = append(out, participantFromRow(row))
	}

	return out, nil
}
