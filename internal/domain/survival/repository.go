package survival

import (
	"context"
	"time"
)

type Repository interface {
	// Get returns the ledger entry, or the zero Entry when none has
	// been written yet.
	Get(ctx context.Context, participantID, seasonID string) (Entry, error)
	Upsert(ctx context.Context, item Entry) error
	// IncrementProxyUsedIfBelow bumps the automatic-pick counter only
	// while it is under cap, atomically, and reports whether the bump
	// happened. The sweep treats false as "cap reached".
	IncrementProxyUsedIfBelow(ctx context.Context, participantID, seasonID string, cap int) (bool, error)
	// DecrementProxyUsed gives back one reserved automatic pick. The
	// counter never goes below zero.
	DecrementProxyUsed(ctx context.Context, participantID, seasonID string) error
	// RecordElimination writes the elimination round, timestamp and
	// reason unless an elimination is already recorded for the season
	// or the round was already undone by a revival.
	RecordElimination(ctx context.Context, participantID, seasonID string, round int, at time.Time, reason EliminationReason) (bool, error)
	// ClearElimination removes the elimination record. Other fields of
	// the entry, including the revival flag, are left as they are.
	ClearElimination(ctx context.Context, participantID, seasonID string) error
	ListEliminatedByRound(ctx context.Context, seasonID string, round int) ([]Entry, error)
}
