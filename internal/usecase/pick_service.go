package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/club"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/season"
)

type SubmitPickInput struct {
	ParticipantID string
	SeasonID      string // empty means the active season
	Round         int    // 0 means the current round
	ClubID        string
}

// PickService is the authoritative write path for manual picks.
type PickService struct {
	seasonRepo      season.Repository
	gameweekRepo    gameweek.Repository
	clubRepo        club.Repository
	participantRepo participant.Repository
	pickRepo        pick.Repository
	timeline        *TimelineService
	now             func() time.Time
}

func NewPickService(
	seasonRepo season.Repository,
	gameweekRepo gameweek.Repository,
	clubRepo club.Repository,
	participantRepo participant.Repository,
	pickRepo pick.Repository,
	timeline *TimelineService,
) *PickService {
	return &PickService{
		seasonRepo:      seasonRepo,
		gameweekRepo:    gameweekRepo,
		clubRepo:        clubRepo,
		participantRepo: participantRepo,
		pickRepo:        pickRepo,
		timeline:        timeline,
		now:             time.Now,
	}
}

// Submit records or replaces the participant's pick for the round.
// Calling it again with the same inputs lands in the same end state.
func (s *PickService) Submit(ctx context.Context, input SubmitPickInput) (pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.Submit")
	defer span.End()

	input.ParticipantID = strings.TrimSpace(input.ParticipantID)
	input.ClubID = strings.TrimSpace(input.ClubID)
	input.SeasonID = strings.TrimSpace(input.SeasonID)
	if input.ParticipantID == "" {
		return pick.Pick{}, fmt.Errorf("%w: participant_id is required", ErrInvalidInput)
	}
	if input.ClubID == "" {
		return pick.Pick{}, fmt.Errorf("%w: club_id is required", ErrInvalidInput)
	}

	now := s.now().UTC()

	seasonID, err := s.resolveSeason(ctx, input.SeasonID)
	if err != nil {
		return pick.Pick{}, err
	}

	round, err := s.resolveRound(ctx, seasonID, input.Round, now)
	if err != nil {
		return pick.Pick{}, err
	}

	entrant, exists, err := s.participantRepo.GetByID(ctx, input.ParticipantID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return pick.Pick{}, fmt.Errorf("%w: participant=%s", ErrNotFound, input.ParticipantID)
	}
	if !entrant.Alive {
		return pick.Pick{}, fmt.Errorf("%w: participant=%s", ErrNotAlive, input.ParticipantID)
	}

	locked, err := s.timeline.IsLocked(ctx, round, now)
	if err != nil {
		return pick.Pick{}, err
	}
	if locked {
		return pick.Pick{}, fmt.Errorf("%w: round=%d", ErrRoundLocked, round.Number)
	}

	picked, exists, err := s.clubRepo.GetByID(ctx, input.ClubID)
	if err != nil {
		return pick.Pick{}, fmt.Errorf("get club: %w", err)
	}
	if !exists {
		return pick.Pick{}, fmt.Errorf("%w: club=%s", ErrNotFound, input.ClubID)
	}
	if !picked.Active {
		return pick.Pick{}, fmt.Errorf("%w: club=%s", ErrClubInactive, input.ClubID)
	}

	if err := s.checkClubUnused(ctx, input.ParticipantID, seasonID, round.Number, input.ClubID); err != nil {
		return pick.Pick{}, err
	}

	item := pick.Pick{
		ParticipantID: input.ParticipantID,
		SeasonID:      seasonID,
		Round:         round.Number,
		ClubID:        input.ClubID,
		Provenance:    pick.ProvenanceManual,
		CreatedAt:     now,
	}
	if err := s.pickRepo.Put(ctx, item); err != nil {
		return pick.Pick{}, fmt.Errorf("put pick: %w", err)
	}

	return item, nil
}

// ListSeasonPicks returns the participant's picks for the season in
// round order.
func (s *PickService) ListSeasonPicks(ctx context.Context, participantID, seasonID string) ([]pick.Pick, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PickService.ListSeasonPicks")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return nil, fmt.Errorf("%w: participant_id is required", ErrInvalidInput)
	}

	seasonID, err := s.resolveSeason(ctx, strings.TrimSpace(seasonID))
	if err != nil {
		return nil, err
	}

	items, err := s.pickRepo.ListByParticipantAndSeason(ctx, participantID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season picks: %w", err)
	}

	return items, nil
}

func (s *PickService) resolveSeason(ctx context.Context, seasonID string) (string, error) {
	if seasonID != "" {
		item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
		if err != nil {
			return "", fmt.Errorf("get season: %w", err)
		}
		if !exists {
			return "", fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
		}
		return item.ID, nil
	}

	active, exists, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return "", fmt.Errorf("get active season: %w", err)
	}
	if !exists {
		return "", fmt.Errorf("%w: no active season", ErrNoActiveRound)
	}

	return active.ID, nil
}

func (s *PickService) resolveRound(ctx context.Context, seasonID string, number int, now time.Time) (gameweek.Gameweek, error) {
	if number > 0 {
		round, exists, err := s.gameweekRepo.GetByNumber(ctx, seasonID, number)
		if err != nil {
			return gameweek.Gameweek{}, fmt.Errorf("get gameweek: %w", err)
		}
		if !exists {
			return gameweek.Gameweek{}, fmt.Errorf("%w: round=%d", ErrNotFound, number)
		}
		return round, nil
	}

	round, exists, err := s.timeline.CurrentRound(ctx, seasonID, now)
	if err != nil {
		return gameweek.Gameweek{}, err
	}
	if !exists {
		return gameweek.Gameweek{}, fmt.Errorf("%w: season=%s", ErrNoActiveRound, seasonID)
	}

	return round, nil
}

// checkClubUnused enforces one club per season. The target round is
// exempt against itself so a participant can change their mind before
// lock without tripping the reuse ban.
func (s *PickService) checkClubUnused(ctx context.Context, participantID, seasonID string, round int, clubID string) error {
	existing, err := s.pickRepo.ListByParticipantAndSeason(ctx, participantID, seasonID)
	if err != nil {
		return fmt.Errorf("list season picks: %w", err)
	}

	for _, item := range existing {
		if item.Round == round {
			continue
		}
		if item.ClubID == clubID {
			return fmt.Errorf("%w: club=%s round=%d", ErrClubAlreadyUsed, clubID, item.Round)
		}
	}

	return nil
}
