package pick

import "context"

type Repository interface {
	GetByParticipantAndRound(ctx context.Context, participantID, seasonID string, round int) (Pick, bool, error)
	ListByRound(ctx context.Context, seasonID string, round int) ([]Pick, error)
	ListByParticipantAndSeason(ctx context.Context, participantID, seasonID string) ([]Pick, error)
	// Put stores the pick, replacing any existing pick for the same
	// (participant, season, round). Manual submission path.
	Put(ctx context.Context, item Pick) error
	// PutIfAbsent stores the pick only when none exists yet for its
	// key, and reports whether a write happened. The proxy path relies
	// on this so a rerun of the sweep observes "already picked" instead
	// of double-assigning.
	PutIfAbsent(ctx context.Context, item Pick) (bool, error)
}
