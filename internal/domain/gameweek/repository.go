package gameweek

import "context"

type Repository interface {
	GetByNumber(ctx context.Context, seasonID string, number int) (Gameweek, bool, error)
	ListBySeason(ctx context.Context, seasonID string) ([]Gameweek, error)
	Upsert(ctx context.Context, item Gameweek) error
	MarkGraded(ctx context.Context, seasonID string, number int) error
}
