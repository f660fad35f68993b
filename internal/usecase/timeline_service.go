package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
)

const DefaultLockBuffer = 30 * time.Minute

// TimelineService owns the single canonical notion of when a round
// locks. Every other service asks it; nothing recomputes the buffer.
type TimelineService struct {
	gameweekRepo gameweek.Repository
	fixtureRepo  fixture.Repository
	lockBuffer   time.Duration
}

func NewTimelineService(
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	lockBuffer time.Duration,
) *TimelineService {
	if lockBuffer <= 0 {
		lockBuffer = DefaultLockBuffer
	}

	return &TimelineService{
		gameweekRepo: gameweekRepo,
		fixtureRepo:  fixtureRepo,
		lockBuffer:   lockBuffer,
	}
}

// EffectiveDeadline returns the round's lock time: the stored deadline
// verbatim when present, otherwise the earliest known kickoff minus the
// lock buffer. The boolean is false when neither basis exists; callers
// treat that as "not yet lockable".
func (s *TimelineService) EffectiveDeadline(ctx context.Context, round gameweek.Gameweek) (time.Time, bool, error) {
	if round.Deadline != nil {
		return *round.Deadline, true, nil
	}

	fixtures, err := s.fixtureRepo.ListByRound(ctx, round.SeasonID, round.Number)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("list fixtures for deadline: %w", err)
	}

	kickoff, ok := earliestKickoff(fixtures)
	if !ok {
		return time.Time{}, false, nil
	}

	return kickoff.Add(-s.lockBuffer), true, nil
}

// IsLocked reports whether the round's effective deadline exists and
// has passed.
func (s *TimelineService) IsLocked(ctx context.Context, round gameweek.Gameweek, now time.Time) (bool, error) {
	deadline, ok, err := s.EffectiveDeadline(ctx, round)
	if err != nil {
		return false, err
	}
	if !ok {
		return false, nil
	}

	return !now.Before(deadline), nil
}

// CurrentRound picks the one round the system considers "current":
// the round with the earliest effective deadline still in the future,
// or, when every deadline has passed, the highest-numbered round with
// a computable deadline. Rounds with no deadline basis are skipped.
// The boolean is false for a season with no usable round at all.
func (s *TimelineService) CurrentRound(ctx context.Context, seasonID string, now time.Time) (gameweek.Gameweek, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TimelineService.CurrentRound")
	defer span.End()

	rounds, err := s.gameweekRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("list gameweeks: %w", err)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })

	var (
		bestFuture         gameweek.Gameweek
		bestFutureDeadline time.Time
		haveFuture         bool
		lastPast           gameweek.Gameweek
		havePast           bool
	)

	for _, round := range rounds {
		deadline, ok, err := s.EffectiveDeadline(ctx, round)
		if err != nil {
			return gameweek.Gameweek{}, false, err
		}
		if !ok {
			continue
		}

		if now.Before(deadline) {
			// Ties on equal deadlines break toward the lower round
			// number because rounds are scanned in number order.
			if !haveFuture || deadline.Before(bestFutureDeadline) {
				bestFuture = round
				bestFutureDeadline = deadline
				haveFuture = true
			}
			continue
		}

		lastPast = round
		havePast = true
	}

	if haveFuture {
		return bestFuture, true, nil
	}
	if havePast {
		return lastPast, true, nil
	}

	return gameweek.Gameweek{}, false, nil
}

// NextRoundDeadline resolves the effective deadline of round number+1,
// used by the revival window. Absent when the round does not exist or
// has no deadline basis.
func (s *TimelineService) NextRoundDeadline(ctx context.Context, seasonID string, number int) (time.Time, bool, error) {
	next, exists, err := s.gameweekRepo.GetByNumber(ctx, seasonID, number+1)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get next gameweek: %w", err)
	}
	if !exists {
		return time.Time{}, false, nil
	}

	return s.EffectiveDeadline(ctx, next)
}

func earliestKickoff(fixtures []fixture.Fixture) (time.Time, bool) {
	var min time.Time
	found := false
	for _, item := range fixtures {
		if item.KickoffAt.IsZero() {
			continue
		}
		if fixture.IsCancelledLikeStatus(item.Status) {
			continue
		}
		if !found || item.KickoffAt.Before(min) {
			min = item.KickoffAt
			found = true
		}
	}

	return min, found
}
