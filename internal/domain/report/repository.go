package report

import "context"

type Repository interface {
	Get(ctx context.Context, seasonID string, round int) (RoundReport, bool, error)
	Upsert(ctx context.Context, item RoundReport) error
}
