package season

import "context"

// Repository exposes season read operations.
type Repository interface {
	GetByID(ctx context.Context, id string) (Season, bool, error)
	GetActive(ctx context.Context) (Season, bool, error)
	List(ctx context.Context) ([]Season, error)
}
