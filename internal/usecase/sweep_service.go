package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/riskibarqy/survivor-pool/internal/domain/club"
	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

const DefaultProxyPickCap = 2

const (
	sweepOutcomeSkipped    = "skipped"
	sweepOutcomeAssigned   = "assigned"
	sweepOutcomeEliminated = "eliminated"
	sweepOutcomeFailed     = "failed"
)

type SweepInput struct {
	SeasonID   string
	Round      int
	MaxWorkers int
}

type SweepResult struct {
	Round           int        `json:"round"`
	Participants    int        `json:"participants"`
	Assigned        int        `json:"assigned"`
	Eliminated      int        `json:"eliminated"`
	Skipped         int        `json:"skipped"`
	Failed          int        `json:"failed"`
	WorkerCount     int        `json:"worker_count"`
	ParticipantRows []SweepRow `json:"participants_detail"`
}

type SweepRow struct {
	ParticipantID string `json:"participant_id"`
	Outcome       string `json:"outcome"`
	ClubID        string `json:"club_id,omitempty"`
	Reason        string `json:"reason,omitempty"`
	Message       string `json:"message,omitempty"`
}

// SweepService assigns proxy picks for a locked round and eliminates
// participants who have run out of options. Every decision re-checks
// current store state first, so a rerun after a crash converges on the
// same end state instead of double-assigning or double-counting.
type SweepService struct {
	gameweekRepo    gameweek.Repository
	fixtureRepo     fixture.Repository
	clubRepo        club.Repository
	participantRepo participant.Repository
	pickRepo        pick.Repository
	survivalRepo    survival.Repository
	timeline        *TimelineService
	proxyCap        int
	logger          *logging.Logger
	now             func() time.Time
}

func NewSweepService(
	gameweekRepo gameweek.Repository,
	fixtureRepo fixture.Repository,
	clubRepo club.Repository,
	participantRepo participant.Repository,
	pickRepo pick.Repository,
	survivalRepo survival.Repository,
	timeline *TimelineService,
	proxyCap int,
	logger *logging.Logger,
) *SweepService {
	if proxyCap <= 0 {
		proxyCap = DefaultProxyPickCap
	}
	if logger == nil {
		logger = logging.Default()
	}

	return &SweepService{
		gameweekRepo:    gameweekRepo,
		fixtureRepo:     fixtureRepo,
		clubRepo:        clubRepo,
		participantRepo: participantRepo,
		pickRepo:        pickRepo,
		survivalRepo:    survivalRepo,
		timeline:        timeline,
		proxyCap:        proxyCap,
		logger:          logger,
		now:             time.Now,
	}
}

// AssignProxy computes the deterministic fallback club for one
// participant: clubs playing in the round, minus clubs the participant
// has used anywhere in the season, first by club name ascending. The
// boolean is false when no candidate remains.
func (s *SweepService) AssignProxy(ctx context.Context, participantID, seasonID string, round int) (string, bool, error) {
	used, err := s.usedClubs(ctx, participantID, seasonID)
	if err != nil {
		return "", false, err
	}

	fixtures, err := s.fixtureRepo.ListByRound(ctx, seasonID, round)
	if err != nil {
		return "", false, fmt.Errorf("list round fixtures: %w", err)
	}

	playing := make(map[string]struct{}, len(fixtures)*2)
	for _, item := range fixtures {
		playing[item.HomeClubID] = struct{}{}
		playing[item.AwayClubID] = struct{}{}
	}

	clubs, err := s.clubRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return "", false, fmt.Errorf("list season clubs: %w", err)
	}

	candidates := make([]club.Club, 0, len(clubs))
	for _, item := range clubs {
		if !item.Active {
			continue
		}
		if _, ok := playing[item.ID]; !ok {
			continue
		}
		if _, ok := used[item.ID]; ok {
			continue
		}
		candidates = append(candidates, item)
	}
	if len(candidates) == 0 {
		return "", false, nil
	}

	// Alphabetical order by club name is the entire tie-break rule.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Name != candidates[j].Name {
			return candidates[i].Name < candidates[j].Name
		}
		return candidates[i].ID < candidates[j].ID
	})

	return candidates[0].ID, true, nil
}

// Run sweeps one locked round: every alive participant without a pick
// either receives a proxy pick or is eliminated.
func (s *SweepService) Run(ctx context.Context, input SweepInput) (SweepResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SweepService.Run")
	defer span.End()

	if input.SeasonID == "" {
		return SweepResult{}, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}
	if input.Round <= 0 {
		return SweepResult{}, fmt.Errorf("%w: round must be greater than zero", ErrInvalidInput)
	}

	round, exists, err := s.gameweekRepo.GetByNumber(ctx, input.SeasonID, input.Round)
	if err != nil {
		return SweepResult{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return SweepResult{}, fmt.Errorf("%w: round=%d", ErrNotFound, input.Round)
	}

	now := s.now().UTC()
	locked, err := s.timeline.IsLocked(ctx, round, now)
	if err != nil {
		return SweepResult{}, err
	}
	if !locked {
		return SweepResult{}, fmt.Errorf("%w: round=%d", ErrRoundNotDue, input.Round)
	}

	alive, err := s.participantRepo.ListAlive(ctx)
	if err != nil {
		return SweepResult{}, fmt.Errorf("list alive participants: %w", err)
	}

	result := SweepResult{
		Round:           input.Round,
		Participants:    len(alive),
		WorkerCount:     normalizeSweepWorkerCount(input.MaxWorkers, len(alive)),
		ParticipantRows: make([]SweepRow, 0, len(alive)),
	}
	if len(alive) == 0 {
		return result, nil
	}

	rows := make(chan SweepRow, len(alive))
	var assigned, eliminated, skipped, failed atomic.Int32

	pool, err := ants.NewPool(result.WorkerCount)
	if err != nil {
		return SweepResult{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	var workers sync.WaitGroup
	for _, entrant := range alive {
		entrant := entrant
		workers.Add(1)
		if err := pool.Submit(func() {
			defer workers.Done()

			row := s.sweepParticipant(ctx, entrant, input.SeasonID, input.Round, now)
			switch row.Outcome {
			case sweepOutcomeAssigned:
				assigned.Add(1)
			case sweepOutcomeEliminated:
				eliminated.Add(1)
			case sweepOutcomeSkipped:
				skipped.Add(1)
			default:
				failed.Add(1)
			}
			rows <- row
		}); err != nil {
			workers.Done()
			return SweepResult{}, fmt.Errorf("submit sweep task: %w", err)
		}
	}

	workers.Wait()
	close(rows)

	for row := range rows {
		result.ParticipantRows = append(result.ParticipantRows, row)
	}
	sort.SliceStable(result.ParticipantRows, func(i, j int) bool {
		return result.ParticipantRows[i].ParticipantID < result.ParticipantRows[j].ParticipantID
	})

	result.Assigned = int(assigned.Load())
	result.Eliminated = int(eliminated.Load())
	result.Skipped = int(skipped.Load())
	result.Failed = int(failed.Load())

	s.logger.InfoContext(ctx, "sweep finished",
		"season_id", input.SeasonID,
		"round", input.Round,
		"participants", result.Participants,
		"assigned", result.Assigned,
		"eliminated", result.Eliminated,
		"skipped", result.Skipped,
		"failed", result.Failed,
	)

	return result, nil
}

func (s *SweepService) sweepParticipant(ctx context.Context, entrant participant.Participant, seasonID string, round int, now time.Time) SweepRow {
	row := SweepRow{ParticipantID: entrant.ID}

	_, exists, err := s.pickRepo.GetByParticipantAndRound(ctx, entrant.ID, seasonID, round)
	if err != nil {
		row.Outcome = sweepOutcomeFailed
		row.Message = err.Error()
		return row
	}
	if exists {
		row.Outcome = sweepOutcomeSkipped
		return row
	}

	// The counter slot is reserved before the pick is written. A PROXY
	// pick must never exist without its counter update, and a refused
	// reservation means the cap is spent even when a concurrent sweep
	// raced past the pick check above.
	reserved, err := s.survivalRepo.IncrementProxyUsedIfBelow(ctx, entrant.ID, seasonID, s.proxyCap)
	if err != nil {
		row.Outcome = sweepOutcomeFailed
		row.Message = err.Error()
		return row
	}
	if !reserved {
		return s.eliminate(ctx, row, entrant.ID, seasonID, round, now, survival.ReasonProxiesExhausted)
	}

	clubID, found, err := s.AssignProxy(ctx, entrant.ID, seasonID, round)
	if err != nil {
		return s.releaseReservation(ctx, row, entrant.ID, seasonID, err)
	}
	if !found {
		if err := s.survivalRepo.DecrementProxyUsed(ctx, entrant.ID, seasonID); err != nil {
			row.Outcome = sweepOutcomeFailed
			row.Message = err.Error()
			return row
		}
		return s.eliminate(ctx, row, entrant.ID, seasonID, round, now, survival.ReasonNoEligibleClub)
	}

	created, err := s.pickRepo.PutIfAbsent(ctx, pick.Pick{
		ParticipantID: entrant.ID,
		SeasonID:      seasonID,
		Round:         round,
		ClubID:        clubID,
		Provenance:    pick.ProvenanceProxy,
		CreatedAt:     now,
	})
	if err != nil {
		return s.releaseReservation(ctx, row, entrant.ID, seasonID, err)
	}
	if !created {
		// A concurrent sweep wrote this round first and holds its own
		// reservation; this one goes back.
		if err := s.survivalRepo.DecrementProxyUsed(ctx, entrant.ID, seasonID); err != nil {
			row.Outcome = sweepOutcomeFailed
			row.Message = err.Error()
			return row
		}
		row.Outcome = sweepOutcomeSkipped
		return row
	}

	row.Outcome = sweepOutcomeAssigned
	row.ClubID = clubID
	return row
}

func (s *SweepService) releaseReservation(ctx context.Context, row SweepRow, participantID, seasonID string, cause error) SweepRow {
	if err := s.survivalRepo.DecrementProxyUsed(ctx, participantID, seasonID); err != nil {
		s.logger.WarnContext(ctx, "release proxy reservation failed",
			"participant_id", participantID,
			"error", err,
		)
	}
	row.Outcome = sweepOutcomeFailed
	row.Message = cause.Error()
	return row
}

func (s *SweepService) eliminate(ctx context.Context, row SweepRow, participantID, seasonID string, round int, now time.Time, reason survival.EliminationReason) SweepRow {
	recorded, err := s.survivalRepo.RecordElimination(ctx, participantID, seasonID, round, now, reason)
	if err != nil {
		row.Outcome = sweepOutcomeFailed
		row.Message = err.Error()
		return row
	}
	if recorded {
		if _, err := s.participantRepo.SetEliminated(ctx, participantID, round); err != nil {
			row.Outcome = sweepOutcomeFailed
			row.Message = err.Error()
			return row
		}
	}

	row.Outcome = sweepOutcomeEliminated
	row.Reason = string(reason)
	return row
}

func (s *SweepService) usedClubs(ctx context.Context, participantID, seasonID string) (map[string]struct{}, error) {
	picks, err := s.pickRepo.ListByParticipantAndSeason(ctx, participantID, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list season picks: %w", err)
	}

	out := make(map[string]struct{}, len(picks))
	for _, item := range picks {
		out[item.ClubID] = struct{}{}
	}
	return out, nil
}

func normalizeSweepWorkerCount(value int, taskCount int) int {
	if taskCount <= 0 {
		return 1
	}
	if value <= 0 {
		value = 4
	}
	if value > taskCount {
		value = taskCount
	}
	return value
}
