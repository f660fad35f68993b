package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/domain/season"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

// JobQueue schedules a deferred re-check of a season's current round.
// Implementations must deduplicate on (season, round, stage) so a
// crashed tick that re-enqueues does not fan out duplicate work.
type JobQueue interface {
	EnqueueRoundCheck(ctx context.Context, seasonID string, round int, notBefore time.Time) error
}

type TickResult struct {
	SeasonID string          `json:"season_id"`
	Round    int             `json:"round"`
	Stage    string          `json:"stage"`
	Sweep    *SweepResult    `json:"sweep,omitempty"`
	Resolve  *ResolveSummary `json:"resolve,omitempty"`
}

const (
	StageWaiting  = "WAITING"
	StageResolved = "RESOLVED"
	StagePending  = "PENDING_RESULTS"
	StageIdle     = "IDLE"
)

// OrchestratorService advances the active season one step per tick:
// before the deadline it only schedules the next wake-up, after the
// deadline it sweeps proxies and grades, and once grading completes it
// freezes the round report. Each step is idempotent, so a tick may be
// replayed at any point.
type OrchestratorService struct {
	seasonRepo   season.Repository
	gameweekRepo gameweek.Repository
	timeline     *TimelineService
	sweep        *SweepService
	resolver     *ResolverService
	report       *ReportService
	queue        JobQueue
	sweepWorkers int
	logger       *logging.Logger
	now          func() time.Time
}

func NewOrchestratorService(
	seasonRepo season.Repository,
	gameweekRepo gameweek.Repository,
	timeline *TimelineService,
	sweep *SweepService,
	resolver *ResolverService,
	report *ReportService,
	queue JobQueue,
	sweepWorkers int,
	logger *logging.Logger,
) *OrchestratorService {
	if logger == nil {
		logger = logging.Default()
	}

	return &OrchestratorService{
		seasonRepo:   seasonRepo,
		gameweekRepo: gameweekRepo,
		timeline:     timeline,
		sweep:        sweep,
		resolver:     resolver,
		report:       report,
		queue:        queue,
		sweepWorkers: sweepWorkers,
		logger:       logger,
		now:          time.Now,
	}
}

// Tick runs one lifecycle step for the active season.
func (s *OrchestratorService) Tick(ctx context.Context) (TickResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.OrchestratorService.Tick")
	defer span.End()

	active, exists, err := s.seasonRepo.GetActive(ctx)
	if err != nil {
		return TickResult{}, fmt.Errorf("get active season: %w", err)
	}
	if !exists {
		return TickResult{Stage: StageIdle}, nil
	}

	now := s.now().UTC()

	// A locked round that is not graded yet always outranks waiting on
	// the next deadline; otherwise a lock would orphan the round the
	// moment the following one becomes current.
	round, found, err := s.earliestUngradedLocked(ctx, active.ID, now)
	if err != nil {
		return TickResult{}, err
	}
	if !found {
		return s.scheduleNext(ctx, active.ID, now)
	}

	result := TickResult{SeasonID: active.ID, Round: round.Number}

	sweepResult, err := s.sweep.Run(ctx, SweepInput{SeasonID: active.ID, Round: round.Number, MaxWorkers: s.sweepWorkers})
	if err != nil && !errors.Is(err, ErrRoundNotDue) {
		return TickResult{}, err
	}
	if err == nil {
		result.Sweep = &sweepResult
	}

	summary, err := s.resolver.ResolveRound(ctx, ResolveInput{SeasonID: active.ID, Round: round.Number})
	if err != nil {
		return TickResult{}, err
	}
	result.Resolve = &summary

	if !summary.Graded {
		result.Stage = StagePending
		if s.queue != nil {
			if err := s.queue.EnqueueRoundCheck(ctx, active.ID, round.Number, now.Add(5*time.Minute)); err != nil {
				s.logger.WarnContext(ctx, "enqueue round check failed",
					"season_id", active.ID, "round", round.Number, "error", err)
			}
		}
		return result, nil
	}

	if _, err := s.report.Build(ctx, active.ID, round.Number); err != nil {
		return TickResult{}, fmt.Errorf("build round report: %w", err)
	}
	result.Stage = StageResolved

	s.logger.InfoContext(ctx, "round lifecycle completed",
		"season_id", active.ID,
		"round", round.Number,
		"eliminated", summary.Eliminated,
		"survived", summary.Survived,
	)

	return result, nil
}

// earliestUngradedLocked scans the season for the lowest-numbered
// round that is past its effective deadline but not graded. Older
// rounds finish before newer ones start consuming sweeps.
func (s *OrchestratorService) earliestUngradedLocked(ctx context.Context, seasonID string, now time.Time) (gameweek.Gameweek, bool, error) {
	rounds, err := s.gameweekRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return gameweek.Gameweek{}, false, fmt.Errorf("list gameweeks: %w", err)
	}
	sort.Slice(rounds, func(i, j int) bool { return rounds[i].Number < rounds[j].Number })

	for _, round := range rounds {
		if round.Graded {
			continue
		}
		locked, err := s.timeline.IsLocked(ctx, round, now)
		if err != nil {
			return gameweek.Gameweek{}, false, err
		}
		if locked {
			return round, true, nil
		}
	}

	return gameweek.Gameweek{}, false, nil
}

// scheduleNext reports the waiting state and books a wake-up at the
// current round's deadline. With no open round left the season is done.
func (s *OrchestratorService) scheduleNext(ctx context.Context, seasonID string, now time.Time) (TickResult, error) {
	round, exists, err := s.timeline.CurrentRound(ctx, seasonID, now)
	if err != nil {
		return TickResult{}, err
	}
	if !exists {
		return TickResult{SeasonID: seasonID, Stage: StageIdle}, nil
	}

	result := TickResult{SeasonID: seasonID, Round: round.Number}
	if round.Graded {
		result.Stage = StageResolved
		return result, nil
	}

	result.Stage = StageWaiting
	deadline, ok, err := s.timeline.EffectiveDeadline(ctx, round)
	if err != nil {
		return TickResult{}, err
	}
	if ok && s.queue != nil {
		if err := s.queue.EnqueueRoundCheck(ctx, seasonID, round.Number, deadline); err != nil {
			s.logger.WarnContext(ctx, "enqueue round check failed",
				"season_id", seasonID, "round", round.Number, "error", err)
		}
	}

	return result, nil
}
