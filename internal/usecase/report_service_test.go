package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type reportFixture struct {
	service      *ReportService
	gameweekRepo *memory.GameweekRepository
	pickRepo     *memory.PickRepository
	survivalRepo *memory.SurvivalRepository
}

func newReportFixture() reportFixture {
	gameweekRepo := memory.NewGameweekRepository(memory.SeedGameweeks())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	pickRepo := memory.NewPickRepository()
	survivalRepo := memory.NewSurvivalRepository()
	reportRepo := memory.NewReportRepository()

	timeline := NewTimelineService(gameweekRepo, fixtureRepo, 0)
	service := NewReportService(gameweekRepo, pickRepo, survivalRepo, reportRepo, timeline, logging.NewNop())

	return reportFixture{
		service:      service,
		gameweekRepo: gameweekRepo,
		pickRepo:     pickRepo,
		survivalRepo: survivalRepo,
	}
}

func TestReportService_Build_BeforeDeadline(t *testing.T) {
	f := newReportFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC) }

	_, err := f.service.Build(t.Context(), memory.SeasonIDLiga1, 1)
	if !errors.Is(err, ErrRoundNotDue) {
		t.Fatalf("expected ErrRoundNotDue, got %v", err)
	}
}

func TestReportService_Get_BeforeBuild(t *testing.T) {
	f := newReportFixture()

	_, err := f.service.Get(t.Context(), memory.SeasonIDLiga1, 1)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestReportService_Build_Aggregates(t *testing.T) {
	f := newReportFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC) }

	seed := []pick.Pick{
		{ParticipantID: "p-andi", SeasonID: memory.SeasonIDLiga1, Round: 1, ClubID: "idn-persija", Provenance: pick.ProvenanceManual},
		{ParticipantID: "p-budi", SeasonID: memory.SeasonIDLiga1, Round: 1, ClubID: "idn-persija", Provenance: pick.ProvenanceProxy},
		{ParticipantID: "p-citra", SeasonID: memory.SeasonIDLiga1, Round: 1, ClubID: "idn-persib", Provenance: pick.ProvenanceManual},
	}
	for _, item := range seed {
		if err := f.pickRepo.Put(t.Context(), item); err != nil {
			t.Fatalf("seed pick: %v", err)
		}
	}

	eliminatedAt := time.Date(2026, 2, 15, 21, 0, 0, 0, time.UTC)
	if _, err := f.survivalRepo.RecordElimination(t.Context(), "p-dewi", memory.SeasonIDLiga1, 1, eliminatedAt, survival.ReasonNoEligibleClub); err != nil {
		t.Fatalf("record elimination: %v", err)
	}
	if err := f.gameweekRepo.MarkGraded(t.Context(), memory.SeasonIDLiga1, 1); err != nil {
		t.Fatalf("mark graded: %v", err)
	}

	built, err := f.service.Build(t.Context(), memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if built.ManualCount != 2 || built.ProxyCount != 1 {
		t.Fatalf("unexpected provenance split: manual=%d proxy=%d", built.ManualCount, built.ProxyCount)
	}
	if len(built.PicksByClub) != 2 {
		t.Fatalf("unexpected distribution rows: %d", len(built.PicksByClub))
	}
	if built.PicksByClub[0].ClubID != "idn-persija" || built.PicksByClub[0].Count != 2 {
		t.Fatalf("distribution not sorted by count: %+v", built.PicksByClub)
	}
	if len(built.Eliminated) != 1 || built.Eliminated[0] != "p-dewi" {
		t.Fatalf("unexpected eliminated list: %v", built.Eliminated)
	}

	stored, err := f.service.Get(t.Context(), memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if stored.Round != 1 || len(stored.PicksByClub) != 2 {
		t.Fatalf("stored report differs: %+v", stored)
	}
}

func TestReportService_Build_HoldsEliminationsUntilGraded(t *testing.T) {
	f := newReportFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC) }

	eliminatedAt := time.Date(2026, 2, 15, 21, 0, 0, 0, time.UTC)
	if _, err := f.survivalRepo.RecordElimination(t.Context(), "p-dewi", memory.SeasonIDLiga1, 1, eliminatedAt, survival.ReasonLoss); err != nil {
		t.Fatalf("record elimination: %v", err)
	}

	// Locked but not yet graded: eliminations are still in flux.
	built, err := f.service.Build(t.Context(), memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(built.Eliminated) != 0 {
		t.Fatalf("ungraded round leaked eliminations: %v", built.Eliminated)
	}

	if err := f.gameweekRepo.MarkGraded(t.Context(), memory.SeasonIDLiga1, 1); err != nil {
		t.Fatalf("mark graded: %v", err)
	}

	rebuilt, err := f.service.Build(t.Context(), memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if len(rebuilt.Eliminated) != 1 || rebuilt.Eliminated[0] != "p-dewi" {
		t.Fatalf("graded round missing eliminations: %v", rebuilt.Eliminated)
	}
}

func TestReportService_Build_RebuildReplaces(t *testing.T) {
	f := newReportFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC) }

	if err := f.pickRepo.Put(t.Context(), pick.Pick{
		ParticipantID: "p-andi", SeasonID: memory.SeasonIDLiga1, Round: 1, ClubID: "idn-persija", Provenance: pick.ProvenanceManual,
	}); err != nil {
		t.Fatalf("seed pick: %v", err)
	}
	if _, err := f.service.Build(t.Context(), memory.SeasonIDLiga1, 1); err != nil {
		t.Fatalf("first build: %v", err)
	}

	// A late proxy assignment shows up in the rebuilt snapshot.
	if err := f.pickRepo.Put(t.Context(), pick.Pick{
		ParticipantID: "p-budi", SeasonID: memory.SeasonIDLiga1, Round: 1, ClubID: "idn-arema", Provenance: pick.ProvenanceProxy,
	}); err != nil {
		t.Fatalf("seed late pick: %v", err)
	}

	rebuilt, err := f.service.Build(t.Context(), memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("rebuild: %v", err)
	}
	if rebuilt.ManualCount != 1 || rebuilt.ProxyCount != 1 {
		t.Fatalf("rebuild missed the late pick: manual=%d proxy=%d", rebuilt.ManualCount, rebuilt.ProxyCount)
	}

	stored, err := f.service.Get(t.Context(), memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("get report: %v", err)
	}
	if len(stored.PicksByClub) != 2 {
		t.Fatalf("stored report not replaced: %+v", stored.PicksByClub)
	}
}
