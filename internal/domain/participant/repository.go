package participant

import "context"

type Repository interface {
	GetByID(ctx context.Context, id string) (Participant, bool, error)
	ListAlive(ctx context.Context) ([]Participant, error)
	List(ctx context.Context) ([]Participant, error)
	// SetEliminated marks the participant dead for the given round. It
	// is a no-op returning false when the participant is already
	// eliminated, so resolve and sweep reruns never compound.
	SetEliminated(ctx context.Context, id string, round int) (bool, error)
	// SetAlive restores an eliminated participant and clears the
	// elimination marker.
	SetAlive(ctx context.Context, id string) error
	Upsert(ctx context.Context, item Participant) error
}
