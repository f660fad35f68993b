package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/report"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
	"github.com/riskibarqy/survivor-pool/internal/platform/resilience"
)

// ReportService aggregates one locked round into a stored snapshot:
// pick counts per club, manual versus proxy split, and who went out.
// Concurrent builds of the same round share one pass via singleflight.
type ReportService struct {
	gameweekRepo gameweek.Repository
	pickRepo     pick.Repository
	survivalRepo survival.Repository
	reportRepo   report.Repository
	timeline     *TimelineService
	group        resilience.SingleFlight
	logger       *logging.Logger
	now          func() time.Time
}

func NewReportService(
	gameweekRepo gameweek.Repository,
	pickRepo pick.Repository,
	survivalRepo survival.Repository,
	reportRepo report.Repository,
	timeline *TimelineService,
	logger *logging.Logger,
) *ReportService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReportService{
		gameweekRepo: gameweekRepo,
		pickRepo:     pickRepo,
		survivalRepo: survivalRepo,
		reportRepo:   reportRepo,
		timeline:     timeline,
		logger:       logger,
		now:          time.Now,
	}
}

// Get returns the stored report for a round without rebuilding it.
func (s *ReportService) Get(ctx context.Context, seasonID string, round int) (report.RoundReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Get")
	defer span.End()

	item, exists, err := s.reportRepo.Get(ctx, seasonID, round)
	if err != nil {
		return report.RoundReport{}, fmt.Errorf("get round report: %w", err)
	}
	if !exists {
		return report.RoundReport{}, fmt.Errorf("%w: report round=%d", ErrNotFound, round)
	}
	return item, nil
}

// Build aggregates the round and stores the snapshot. Rebuilding is
// allowed and overwrites the previous snapshot with identical content
// for unchanged inputs.
func (s *ReportService) Build(ctx context.Context, seasonID string, round int) (report.RoundReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReportService.Build")
	defer span.End()

	if seasonID == "" {
		return report.RoundReport{}, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}
	if round <= 0 {
		return report.RoundReport{}, fmt.Errorf("%w: round must be greater than zero", ErrInvalidInput)
	}

	key := fmt.Sprintf("report::%s::%d", seasonID, round)
	value, err, _ := s.group.Do(key, func() (any, error) {
		return s.build(ctx, seasonID, round)
	})
	if err != nil {
		return report.RoundReport{}, err
	}
	return value.(report.RoundReport), nil
}

func (s *ReportService) build(ctx context.Context, seasonID string, round int) (report.RoundReport, error) {
	gw, exists, err := s.gameweekRepo.GetByNumber(ctx, seasonID, round)
	if err != nil {
		return report.RoundReport{}, fmt.Errorf("get gameweek: %w", err)
	}
	if !exists {
		return report.RoundReport{}, fmt.Errorf("%w: round=%d", ErrNotFound, round)
	}

	now := s.now().UTC()
	locked, err := s.timeline.IsLocked(ctx, gw, now)
	if err != nil {
		return report.RoundReport{}, err
	}
	if !locked {
		return report.RoundReport{}, fmt.Errorf("%w: round=%d", ErrRoundNotDue, round)
	}

	picks, err := s.pickRepo.ListByRound(ctx, seasonID, round)
	if err != nil {
		return report.RoundReport{}, fmt.Errorf("list round picks: %w", err)
	}

	item := report.RoundReport{
		SeasonID:    seasonID,
		Round:       round,
		GeneratedAt: now,
	}

	byClub := make(map[string]int, len(picks))
	for _, p := range picks {
		byClub[p.ClubID]++
		switch p.Provenance {
		case pick.ProvenanceProxy:
			item.ProxyCount++
		default:
			item.ManualCount++
		}
	}
	item.PicksByClub = make([]report.ClubCount, 0, len(byClub))
	for clubID, count := range byClub {
		item.PicksByClub = append(item.PicksByClub, report.ClubCount{ClubID: clubID, Count: count})
	}
	sort.Slice(item.PicksByClub, func(i, j int) bool {
		if item.PicksByClub[i].Count != item.PicksByClub[j].Count {
			return item.PicksByClub[i].Count > item.PicksByClub[j].Count
		}
		return item.PicksByClub[i].ClubID < item.PicksByClub[j].ClubID
	})

	// The eliminated list waits for grading; partial results would
	// shift between rebuilds of an unresolved round.
	item.Eliminated = make([]string, 0)
	if gw.Graded {
		out, err := s.survivalRepo.ListEliminatedByRound(ctx, seasonID, round)
		if err != nil {
			return report.RoundReport{}, fmt.Errorf("list eliminations: %w", err)
		}
		for _, entry := range out {
			item.Eliminated = append(item.Eliminated, entry.ParticipantID)
		}
		sort.Strings(item.Eliminated)
	}

	if err := s.reportRepo.Upsert(ctx, item); err != nil {
		return report.RoundReport{}, fmt.Errorf("store round report: %w", err)
	}

	s.logger.InfoContext(ctx, "round report built",
		"season_id", seasonID,
		"round", round,
		"picks", len(picks),
		"manual", item.ManualCount,
		"proxy", item.ProxyCount,
		"eliminated", len(item.Eliminated),
	)

	return item, nil
}
