package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type RevivalStatus struct {
	ParticipantID string     `json:"participant_id"`
	Eligible      bool       `json:"eligible"`
	RevivalUsed   bool       `json:"revival_used"`
	WindowOpensAt *time.Time `json:"window_opens_at,omitempty"`
	WindowEndsAt  *time.Time `json:"window_ends_at,omitempty"`
}

// RevivalService implements the one-time comeback. An eliminated
// participant may return exactly once, and only between the moment of
// elimination and the deadline of the round after the one that knocked
// them out. Activation re-checks everything at write time, so a status
// probe that said "eligible" does not promise the later activate will.
type RevivalService struct {
	participantRepo participant.Repository
	survivalRepo    survival.Repository
	timeline        *TimelineService
	logger          *logging.Logger
	now             func() time.Time
}

func NewRevivalService(
	participantRepo participant.Repository,
	survivalRepo survival.Repository,
	timeline *TimelineService,
	logger *logging.Logger,
) *RevivalService {
	if logger == nil {
		logger = logging.Default()
	}

	return &RevivalService{
		participantRepo: participantRepo,
		survivalRepo:    survivalRepo,
		timeline:        timeline,
		logger:          logger,
		now:             time.Now,
	}
}

// CheckEligible reports whether the participant could activate a
// revival right now, along with the window bounds when one exists.
func (s *RevivalService) CheckEligible(ctx context.Context, participantID, seasonID string) (RevivalStatus, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.RevivalService.CheckEligible")
	defer span.End()

	status := RevivalStatus{ParticipantID: participantID}

	entry, windowEnd, err := s.window(ctx, participantID, seasonID)
	if err != nil {
		return status, err
	}
	status.RevivalUsed = entry.RevivalUsed
	if !entry.Eliminated() || entry.RevivalUsed {
		return status, nil
	}

	if windowEnd != nil {
		status.WindowOpensAt = entry.EliminatedAt
		status.WindowEndsAt = windowEnd
	}

	now := s.now().UTC()
	status.Eligible = inRevivalWindow(now, *entry.EliminatedAt, windowEnd)
	return status, nil
}

// Activate burns the single revival. The participant comes back alive
// with their elimination cleared; the used clubs ledger and remaining
// proxy allowance are untouched.
func (s *RevivalService) Activate(ctx context.Context, participantID, seasonID string) error {
	ctx, span := startUsecaseSpan(ctx, "usecase.RevivalService.Activate")
	defer span.End()

	if participantID == "" {
		return fmt.Errorf("%w: participant_id is required", ErrInvalidInput)
	}

	entrant, exists, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	entry, windowEnd, err := s.window(ctx, participantID, seasonID)
	if err != nil {
		return err
	}
	if entry.RevivalUsed {
		return fmt.Errorf("%w: revival already used", ErrNotEligible)
	}
	if !entry.Eliminated() || entrant.Alive {
		return fmt.Errorf("%w: participant is not eliminated", ErrNotEligible)
	}

	now := s.now().UTC()
	if !inRevivalWindow(now, *entry.EliminatedAt, windowEnd) {
		return fmt.Errorf("%w: round=%d", ErrWindowClosed, *entry.EliminatedRound)
	}

	revivedRound := *entry.EliminatedRound

	// The revived round is pinned so a later replay of its resolution
	// cannot consume the same loss again.
	entry.RevivalUsed = true
	entry.RevivedRound = &revivedRound
	if err := s.survivalRepo.Upsert(ctx, entry); err != nil {
		return fmt.Errorf("mark revival used: %w", err)
	}
	if err := s.survivalRepo.ClearElimination(ctx, participantID, seasonID); err != nil {
		return fmt.Errorf("clear elimination: %w", err)
	}
	if err := s.participantRepo.SetAlive(ctx, participantID); err != nil {
		return fmt.Errorf("set participant alive: %w", err)
	}

	s.logger.InfoContext(ctx, "revival activated",
		"participant_id", participantID,
		"season_id", seasonID,
		"eliminated_round", revivedRound,
	)

	return nil
}

func (s *RevivalService) window(ctx context.Context, participantID, seasonID string) (survival.Entry, *time.Time, error) {
	entry, err := s.survivalRepo.Get(ctx, participantID, seasonID)
	if err != nil {
		return survival.Entry{}, nil, fmt.Errorf("get survival entry: %w", err)
	}
	if !entry.Eliminated() {
		return entry, nil, nil
	}

	deadline, exists, err := s.timeline.NextRoundDeadline(ctx, seasonID, *entry.EliminatedRound)
	if err != nil {
		return entry, nil, err
	}
	if !exists {
		return entry, nil, nil
	}
	return entry, &deadline, nil
}

// inRevivalWindow applies the half-open interval: opening instant in,
// closing instant out. Without a next-round deadline there is no
// window at all.
func inRevivalWindow(now, opensAt time.Time, endsAt *time.Time) bool {
	if endsAt == nil {
		return false
	}
	if now.Before(opensAt) {
		return false
	}
	return now.Before(*endsAt)
}
