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

type sweepFixture struct {
	service         *SweepService
	participantRepo *memory.ParticipantRepository
	pickRepo        *memory.PickRepository
	survivalRepo    *memory.SurvivalRepository
}

func newSweepFixture() sweepFixture {
	gameweekRepo := memory.NewGameweekRepository(memory.SeedGameweeks())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	clubRepo := memory.NewClubRepository(memory.SeedClubs())
	participantRepo := memory.NewParticipantRepository(memory.SeedParticipants())
	pickRepo := memory.NewPickRepository()
	survivalRepo := memory.NewSurvivalRepository()

	timeline := NewTimelineService(gameweekRepo, fixtureRepo, 0)
	service := NewSweepService(
		gameweekRepo,
		fixtureRepo,
		clubRepo,
		participantRepo,
		pickRepo,
		survivalRepo,
		timeline,
		2,
		logging.NewNop(),
	)

	return sweepFixture{
		service:         service,
		participantRepo: participantRepo,
		pickRepo:        pickRepo,
		survivalRepo:    survivalRepo,
	}
}

func TestSweepService_Run_BeforeDeadline(t *testing.T) {
	f := newSweepFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 11, 0, 0, 0, time.UTC) }

	_, err := f.service.Run(t.Context(), SweepInput{SeasonID: memory.SeasonIDLiga1, Round: 1})
	if !errors.Is(err, ErrRoundNotDue) {
		t.Fatalf("expected ErrRoundNotDue, got %v", err)
	}
}

func TestSweepService_Run_AssignsAlphabeticalFallback(t *testing.T) {
	f := newSweepFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 13, 0, 0, 0, time.UTC) }

	// p-andi picked before the deadline; the rest are swept.
	if err := f.pickRepo.Put(t.Context(), pick.Pick{
		ParticipantID: "p-andi",
		SeasonID:      memory.SeasonIDLiga1,
		Round:         1,
		ClubID:        "idn-persija",
		Provenance:    pick.ProvenanceManual,
	}); err != nil {
		t.Fatalf("seed pick: %v", err)
	}

	result, err := f.service.Run(t.Context(), SweepInput{SeasonID: memory.SeasonIDLiga1, Round: 1})
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if result.Skipped != 1 || result.Assigned != 3 || result.Eliminated != 0 {
		t.Fatalf("unexpected tally: skipped=%d assigned=%d eliminated=%d", result.Skipped, result.Assigned, result.Eliminated)
	}

	// All round 1 clubs are playing; Arema FC sorts first by name.
	for _, id := range []string{"p-budi", "p-citra", "p-dewi"} {
		stored, exists, err := f.pickRepo.GetByParticipantAndRound(t.Context(), id, memory.SeasonIDLiga1, 1)
		if err != nil {
			t.Fatalf("get pick for %s: %v", id, err)
		}
		if !exists {
			t.Fatalf("no proxy pick for %s", id)
		}
		if stored.ClubID != "idn-arema" {
			t.Fatalf("unexpected proxy club for %s: got=%s want=idn-arema", id, stored.ClubID)
		}
		if stored.Provenance != pick.ProvenanceProxy {
			t.Fatalf("proxy pick mislabelled for %s: %s", id, stored.Provenance)
		}

		entry, err := f.survivalRepo.Get(t.Context(), id, memory.SeasonIDLiga1)
		if err != nil {
			t.Fatalf("get survival entry: %v", err)
		}
		if entry.ProxyPicksUsed != 1 {
			t.Fatalf("proxy counter for %s: got=%d want=1", id, entry.ProxyPicksUsed)
		}
	}
}

func TestSweepService_AssignProxy_SkipsUsedClubs(t *testing.T) {
	f := newSweepFixture()

	// p-andi already burned Bali United; next by name is Persebaya.
	if err := f.pickRepo.Put(t.Context(), pick.Pick{
		ParticipantID: "p-andi",
		SeasonID:      memory.SeasonIDLiga1,
		Round:         1,
		ClubID:        "idn-baliutd",
		Provenance:    pick.ProvenanceManual,
	}); err != nil {
		t.Fatalf("seed pick: %v", err)
	}

	clubID, found, err := f.service.AssignProxy(t.Context(), "p-andi", memory.SeasonIDLiga1, 2)
	if err != nil {
		t.Fatalf("assign proxy: %v", err)
	}
	if !found {
		t.Fatalf("expected a candidate")
	}
	if clubID != "idn-persebaya" {
		t.Fatalf("unexpected candidate: got=%s want=idn-persebaya", clubID)
	}
}

func TestSweepService_Run_EliminatesWhenProxiesExhausted(t *testing.T) {
	f := newSweepFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 13, 0, 0, 0, time.UTC) }

	if err := f.survivalRepo.Upsert(t.Context(), survival.Entry{
		ParticipantID:  "p-citra",
		SeasonID:       memory.SeasonIDLiga1,
		ProxyPicksUsed: 2,
	}); err != nil {
		t.Fatalf("seed survival entry: %v", err)
	}

	result, err := f.service.Run(t.Context(), SweepInput{SeasonID: memory.SeasonIDLiga1, Round: 1})
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if result.Eliminated != 1 || result.Assigned != 3 {
		t.Fatalf("unexpected tally: eliminated=%d assigned=%d", result.Eliminated, result.Assigned)
	}

	entry, err := f.survivalRepo.Get(t.Context(), "p-citra", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("get survival entry: %v", err)
	}
	if !entry.Eliminated() {
		t.Fatalf("expected an elimination record")
	}
	if entry.Reason != survival.ReasonProxiesExhausted {
		t.Fatalf("unexpected reason: %s", entry.Reason)
	}
	if entry.ProxyPicksUsed != 2 {
		t.Fatalf("refused reservation moved the counter: got=%d want=2", entry.ProxyPicksUsed)
	}

	// A spent cap must block the pick itself, not just charge for it.
	if _, exists, err := f.pickRepo.GetByParticipantAndRound(t.Context(), "p-citra", memory.SeasonIDLiga1, 1); err != nil {
		t.Fatalf("get pick: %v", err)
	} else if exists {
		t.Fatalf("proxy pick written past the cap")
	}

	entrant, _, err := f.participantRepo.GetByID(t.Context(), "p-citra")
	if err != nil {
		t.Fatalf("get participant: %v", err)
	}
	if entrant.Alive {
		t.Fatalf("participant should be dead after exhausting proxies")
	}
}

func TestSweepService_Run_EliminatesWhenNoClubLeft(t *testing.T) {
	f := newSweepFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC) }

	// Round 2 features four clubs; p-andi has used them all already.
	used := map[int]string{1: "idn-persib", 3: "idn-persebaya", 4: "idn-baliutd", 5: "idn-persija"}
	for round, clubID := range used {
		if err := f.pickRepo.Put(t.Context(), pick.Pick{
			ParticipantID: "p-andi",
			SeasonID:      memory.SeasonIDLiga1,
			Round:         round,
			ClubID:        clubID,
			Provenance:    pick.ProvenanceManual,
		}); err != nil {
			t.Fatalf("seed pick: %v", err)
		}
	}

	result, err := f.service.Run(t.Context(), SweepInput{SeasonID: memory.SeasonIDLiga1, Round: 2})
	if err != nil {
		t.Fatalf("run sweep: %v", err)
	}
	if result.Eliminated != 1 {
		t.Fatalf("unexpected eliminated count: %d", result.Eliminated)
	}

	entry, err := f.survivalRepo.Get(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("get survival entry: %v", err)
	}
	if entry.Reason != survival.ReasonNoEligibleClub {
		t.Fatalf("unexpected reason: %s", entry.Reason)
	}
	if entry.ProxyPicksUsed != 0 {
		t.Fatalf("reservation not returned on no-candidate: got=%d want=0", entry.ProxyPicksUsed)
	}
}

func TestSweepService_Run_RerunConverges(t *testing.T) {
	f := newSweepFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 13, 0, 0, 0, time.UTC) }

	first, err := f.service.Run(t.Context(), SweepInput{SeasonID: memory.SeasonIDLiga1, Round: 1})
	if err != nil {
		t.Fatalf("first sweep: %v", err)
	}
	if first.Assigned != 4 {
		t.Fatalf("first sweep assigned: got=%d want=4", first.Assigned)
	}

	second, err := f.service.Run(t.Context(), SweepInput{SeasonID: memory.SeasonIDLiga1, Round: 1})
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if second.Assigned != 0 || second.Skipped != 4 {
		t.Fatalf("rerun must be a no-op: assigned=%d skipped=%d", second.Assigned, second.Skipped)
	}

	// The proxy counter is charged exactly once per assignment.
	entry, err := f.survivalRepo.Get(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("get survival entry: %v", err)
	}
	if entry.ProxyPicksUsed != 1 {
		t.Fatalf("proxy counter after rerun: got=%d want=1", entry.ProxyPicksUsed)
	}
}
