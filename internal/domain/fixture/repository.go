package fixture

import "context"

type Repository interface {
	ListByRound(ctx context.Context, seasonID string, round int) ([]Fixture, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Fixture, error)
	Upsert(ctx context.Context, item Fixture) error
}
