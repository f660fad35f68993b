package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/survivor-pool/internal/domain/report"
)

type ReportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

func (r *ReportRepository) Get(ctx context.Context, seasonID string, round int) (report.RoundReport, bool, error) {
	const query = `
		SELECT * FROM round_reports
		WHERE season_public_id = $1 AND round = $2`

	var row reportTableModel
	if err := r.db.GetContext(ctx, &row, query, seasonID, round); err != nil {
		if isNotFound(err) {
			return report.RoundReport{}, false, nil
		}
		return report.RoundReport{}, false, fmt.Errorf("get round report: %w", err)
	}

	item, err := reportFromRow(row)
	if err != nil {
		return report.RoundReport{}, false, err
	}

	return item, true, nil
}

func (r *ReportRepository) Upsert(ctx context.Context, item report.RoundReport) error {
	const query = `
		INSERT INTO round_reports (
			season_public_id, round, picks_by_club,
			manual_count, proxy_count, eliminated, generated_at,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), NOW())
		ON CONFLICT (season_public_id, round) DO UPDATE
		SET picks_by_club = EXCLUDED.picks_by_club,
		    manual_count = EXCLUDED.manual_count,
		    proxy_count = EXCLUDED.proxy_count,
		    eliminated = EXCLUDED.eliminated,
		    generated_at = EXCLUDED.generated_at,
		    updated_at = NOW()`

	picksByClub, eliminated, err := reportColumns(item)
	if err != nil {
		return err
	}

	if _, err := r.db.ExecContext(ctx, query,
		item.SeasonID, item.Round, picksByClub,
		item.ManualCount, item.ProxyCount, eliminated, item.GeneratedAt,
	); err != nil {
		return fmt.Errorf("upsert round report: %w", err)
	}

	return nil
}
