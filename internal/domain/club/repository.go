package club

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Club, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Club, error)
	Upsert(ctx context.Context, item Club) error
}
