package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
)

type FixtureRepository struct {
	db *sqlx.DB
}

func NewFixtureRepository(db *sqlx.DB) *FixtureRepository {
	return &FixtureRepository{db: db}
}

func (r *FixtureRepository) ListByRound(ctx context.Context, seasonID string, round int) ([]fixture.Fixture, error) {
	const query = `
		SELECT * FROM fixtures
		WHERE season_public_id = $1 AND round = $2
		ORDER BY kickoff_at, public_id`

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID, round); err != nil {
		return nil, fmt.Errorf("list fixtures by round: %w", err)
	}

	return fixturesFromRows(rows), nil
}

func (r *FixtureRepository) ListBySeason(ctx context.Context, seasonID string) ([]fixture.Fixture, error) {
	const query = `
		SELECT * FROM fixtures
		WHERE season_public_id = $1
		ORDER BY round, kickoff_at, public_id`

	var rows []fixtureTableModel
	if err := r.db.SelectContext(ctx, &rows, query, seasonID); err != nil {
		return nil, fmt.Errorf("list fixtures by season: %w", err)
	}

	return fixturesFromRows(rows), nil
}

func (r *FixtureRepository) Upsert(ctx context.Context, item fixture.Fixture) error {
	const query = `
		INSERT INTO fixtures (
			public_id, season_public_id, round,
			home_club_public_id, away_club_public_id,
			kickoff_at, status, result_kind,
			winner_club_public_id, result_code, home_goals, away_goals,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		ON CONFLICT (public_id) DO UPDATE
		SET round = EXCLUDED.round,
		    home_club_public_id = EXCLUDED.home_club_public_id,
		    away_club_public_id = EXCLUDED.away_club_public_id,
		    kickoff_at = EXCLUDED.kickoff_at,
		    status = EXCLUDED.status,
		    result_kind = EXCLUDED.result_kind,
		    winner_club_public_id = EXCLUDED.winner_club_public_id,
		    result_code = EXCLUDED.result_code,
		    home_goals = EXCLUDED.home_goals,
		    away_goals = EXCLUDED.away_goals,
		    updated_at = NOW()`

	var homeGoals, awayGoals sql.NullInt64
	if item.Result.Kind == fixture.ResultKindGoals {
		homeGoals = sql.NullInt64{Int64: int64(item.Result.HomeGoals), Valid: true}
		awayGoals = sql.NullInt64{Int64: int64(item.Result.AwayGoals), Valid: true}
	}

	if _, err := r.db.ExecContext(ctx, query,
		item.ID, item.SeasonID, item.Round,
		item.HomeClubID, item.AwayClubID,
		item.KickoffAt, item.Status, string(item.Result.Kind),
		nullString(item.Result.WinnerClubID), nullString(item.Result.Code),
		homeGoals, awayGoals,
	); err != nil {
		return fmt.Errorf("upsert fixture: %w", err)
	}

	return nil
}

func fixturesFromRows(rows []fixtureTableModel) []fixture.Fixture {
	out := make([]fixture.Fixture, 0, len(rows))
	for _, row := range rows {
		out = append(out, fixtureFromRow(row))
	}

	return out
}
