package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type ResolveInput struct {
	SeasonID string
	Round    int
}

// ResolveSummary is the outcome tally for one grading pass.
type ResolveSummary struct {
	Round      int  `json:"round"`
	Total      int  `json:"total"`
	Survived   int  `json:"survived"`
	Eliminated int  `json:"eliminated"`
	Pending    int  `json:"pending"`
	Graded     bool `json:"graded"`
}

// ResolverService grades a locked round from fixture evidence. A pick
// survives on a win or draw and eliminates on a loss; picks whose
// fixture has no decided outcome yet stay pending and the round is not
// marked graded until every pick has a verdict.
type ResolverService struct {
	gameweekRepo    gameweek.Repository
	fixtureRepo     fixture.Repository
	participantRepo participant.Repository
	pickRepo        pick.Repository
	survivalRepo    survival.Repository
	timeline        *TimelineService
	logger          *logging.Logger
	now             func() time.Time
}

func NewResolverService(
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	participantRepo participant.Repository,
	pickRepo pick.Repository,
	survivalRepo survival.Repository,
	timeline *TimelineService,
	logger *logging.Logger,
) *ResolverService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ResolverService{
		gameweekRepo:    gameweekRepo,
		fixtureRepo:     fixtureRepo,
		participantRepo: participantRepo,
		pickRepo:        pickRepo,
		survivalRepo:    survivalRepo,
		timeline:        timeline,
		logger:          logger,
		now:             time.Now,
	}
}

// ResolveRound grades every pick of the round. Reruns are safe: an
// already eliminated participant is never counted twice, and pending
// picks keep the round ungraded so a later pass can finish the job.
func (s *ResolverService) ResolveRound(ctx context.Context, input ResolveInput) (ResolveSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ResolverService.ResolveRound")
	defer span.End()

	if input.SeasonID == "" {
		return ResolveSummary{}, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}
	if input.Round <= 0 {
		return ResolveSummary{}, fmt.Errorf("%w: round must be greater than zero", ErrInvalidInput)
	}

	round, exists, err := s.gameweekRepo.GetByNumber(ctx, input.SeasonID, input.Round)
	if err != nil {
		return ResolveSummary{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return ResolveSummary{}, fmt.Errorf("%w: round=%d", ErrNotFound, input.Round)
	}

	now := s.now().UTC()
	locked, err := s.timeline.IsLocked(ctx, round, now)
	if err != nil {
		return ResolveSummary{}, err
	}
	if !locked {
		return ResolveSummary{}, fmt.Errorf("%w: round=%d", ErrRoundNotDue, input.Round)
	}

	fixtures, err := s.fixtureRepo.ListByRound(ctx, input.SeasonID, input.Round)
	if err != nil {
		return ResolveSummary{}, fmt.Errorf("list round fixtures: %w", err)
	}

	fixtureByClub := make(map[string]fixture.Fixture, len(fixtures)*2)
	for _, item := range fixtures {
		fixtureByClub[item.HomeClubID] = item
		fixtureByClub[item.AwayClubID] = item
	}

	picks, err := s.pickRepo.ListByRound(ctx, input.SeasonID, input.Round)
	if err != nil {
		return ResolveSummary{}, fmt.Errorf("list round picks: %w", err)
	}

	summary := ResolveSummary{Round: input.Round, Total: len(picks)}
	for _, item := range picks {
		outcome := fixture.OutcomePending
		if match, ok := fixtureByClub[item.ClubID]; ok {
			outcome = match.OutcomeFor(item.ClubID)
		}

		switch outcome {
		case fixture.OutcomeWin, fixture.OutcomeDraw:
			summary.Survived++
		case fixture.OutcomeLoss:
			summary.Eliminated++
			if err := s.eliminateOnLoss(ctx, item.ParticipantID, input.SeasonID, input.Round, now); err != nil {
				return ResolveSummary{}, err
			}
		default:
			summary.Pending++
		}
	}

	if summary.Pending == 0 {
		if err := s.gameweekRepo.MarkGraded(ctx, input.SeasonID, input.Round); err != nil {
			return ResolveSummary{}, fmt.Errorf("mark round graded: %w", err)
		}
		summary.Graded = true
	}

	s.logger.InfoContext(ctx, "round resolved",
		"season_id", input.SeasonID,
		"round", input.Round,
		"total", summary.Total,
		"survived", summary.Survived,
		"eliminated", summary.Eliminated,
		"pending", summary.Pending,
		"graded", summary.Graded,
	)

	return summary, nil
}

func (s *ResolverService) eliminateOnLoss(ctx context.Context, participantID, seasonID string, round int, now time.Time) error {
	recorded, err := s.survivalRepo.RecordElimination(ctx, participantID, seasonID, round, now, survival.ReasonLoss)
	if err != nil {
		return fmt.Errorf("record elimination: %w", err)
	}
	if !recorded {
		return nil
	}
	if _, err := s.participantRepo.SetEliminated(ctx, participantID, round); err != nil {
		return fmt.Errorf("set participant eliminated: %w", err)
	}
	return nil
}
