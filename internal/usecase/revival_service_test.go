package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type revivalFixture struct {
	service         *RevivalService
	participantRepo *memory.ParticipantRepository
	survivalRepo    *memory.SurvivalRepository
}

func newRevivalFixture() revivalFixture {
	gameweekRepo := memory.NewGameweekRepository(memory.SeedGameweeks())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	participantRepo := memory.NewParticipantRepository(memory.SeedParticipants())
	survivalRepo := memory.NewSurvivalRepository()

	timeline := NewTimelineService(gameweekRepo, fixtureRepo, 0)
	service := NewRevivalService(participantRepo, survivalRepo, timeline, logging.NewNop())

	return revivalFixture{
		service:         service,
		participantRepo: participantRepo,
		survivalRepo:    survivalRepo,
	}
}

func (f revivalFixture) eliminate(t *testing.T, participantID string, round int, at time.Time) {
	t.Helper()
	recorded, err := f.survivalRepo.RecordElimination(t.Context(), participantID, memory.SeasonIDLiga1, round, at, survival.ReasonLoss)
	if err != nil {
		t.Fatalf("record elimination: %v", err)
	}
	if !recorded {
		t.Fatalf("elimination already recorded for %s", participantID)
	}
	if _, err := f.participantRepo.SetEliminated(t.Context(), participantID, round); err != nil {
		t.Fatalf("set eliminated: %v", err)
	}
}

func TestRevivalService_CheckEligible_WindowBounds(t *testing.T) {
	f := newRevivalFixture()

	eliminatedAt := time.Date(2026, 2, 15, 20, 0, 0, 0, time.UTC)
	f.eliminate(t, "p-andi", 1, eliminatedAt)

	// Round 2's effective deadline closes the window.
	windowEnd := time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC)

	f.service.now = func() time.Time { return eliminatedAt }
	status, err := f.service.CheckEligible(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("check eligible: %v", err)
	}
	if !status.Eligible {
		t.Fatalf("window must include its opening instant")
	}
	if status.WindowOpensAt == nil || !status.WindowOpensAt.Equal(eliminatedAt) {
		t.Fatalf("unexpected window open: %v", status.WindowOpensAt)
	}
	if status.WindowEndsAt == nil || !status.WindowEndsAt.Equal(windowEnd) {
		t.Fatalf("unexpected window end: %v", status.WindowEndsAt)
	}

	f.service.now = func() time.Time { return windowEnd }
	status, err = f.service.CheckEligible(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("check eligible: %v", err)
	}
	if status.Eligible {
		t.Fatalf("window must exclude its closing instant")
	}
}

func TestRevivalService_Activate_RestoresParticipant(t *testing.T) {
	f := newRevivalFixture()

	eliminatedAt := time.Date(2026, 2, 15, 20, 0, 0, 0, time.UTC)
	f.eliminate(t, "p-andi", 1, eliminatedAt)
	f.service.now = func() time.Time { return eliminatedAt.Add(time.Hour) }

	if err := f.service.Activate(t.Context(), "p-andi", memory.SeasonIDLiga1); err != nil {
		t.Fatalf("activate revival: %v", err)
	}

	entrant, _, err := f.participantRepo.GetByID(t.Context(), "p-andi")
	if err != nil {
		t.Fatalf("get participant: %v", err)
	}
	if !entrant.Alive {
		t.Fatalf("participant should be alive after revival")
	}

	entry, err := f.survivalRepo.Get(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("get survival entry: %v", err)
	}
	if entry.Eliminated() {
		t.Fatalf("elimination record should be cleared")
	}
	if !entry.RevivalUsed {
		t.Fatalf("revival flag should be burned")
	}
	if entry.RevivedRound == nil || *entry.RevivedRound != 1 {
		t.Fatalf("revived round should be recorded, got %v", entry.RevivedRound)
	}
}

func TestRevivalService_Activate_OnlyOnce(t *testing.T) {
	f := newRevivalFixture()

	eliminatedAt := time.Date(2026, 2, 15, 20, 0, 0, 0, time.UTC)
	f.eliminate(t, "p-andi", 1, eliminatedAt)
	f.service.now = func() time.Time { return eliminatedAt.Add(time.Hour) }

	if err := f.service.Activate(t.Context(), "p-andi", memory.SeasonIDLiga1); err != nil {
		t.Fatalf("first activate: %v", err)
	}

	// Knocked out again; the second comeback is refused.
	secondAt := time.Date(2026, 2, 22, 18, 0, 0, 0, time.UTC)
	f.eliminate(t, "p-andi", 2, secondAt)
	f.service.now = func() time.Time { return secondAt.Add(time.Hour) }

	err := f.service.Activate(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestRevivalService_Activate_AfterWindowCloses(t *testing.T) {
	f := newRevivalFixture()

	eliminatedAt := time.Date(2026, 2, 15, 20, 0, 0, 0, time.UTC)
	f.eliminate(t, "p-andi", 1, eliminatedAt)
	f.service.now = func() time.Time { return time.Date(2026, 2, 21, 12, 0, 0, 0, time.UTC) }

	err := f.service.Activate(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
}

func TestRevivalService_Activate_NotEliminated(t *testing.T) {
	f := newRevivalFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 16, 0, 0, 0, 0, time.UTC) }

	err := f.service.Activate(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if !errors.Is(err, ErrNotEligible) {
		t.Fatalf("expected ErrNotEligible, got %v", err)
	}
}

func TestRevivalService_NoWindowWithoutNextRound(t *testing.T) {
	f := newRevivalFixture()

	// Round 3 is the last scheduled round. Without a next-round
	// deadline there is nothing to come back for, so no window opens.
	eliminatedAt := time.Date(2026, 2, 28, 16, 0, 0, 0, time.UTC)
	f.eliminate(t, "p-andi", 3, eliminatedAt)
	f.service.now = func() time.Time { return eliminatedAt.Add(time.Minute) }

	status, err := f.service.CheckEligible(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("check eligible: %v", err)
	}
	if status.Eligible {
		t.Fatalf("no next round must mean no eligibility")
	}
	if status.WindowOpensAt != nil || status.WindowEndsAt != nil {
		t.Fatalf("expected no window bounds, got open=%v end=%v", status.WindowOpensAt, status.WindowEndsAt)
	}

	err = f.service.Activate(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if !errors.Is(err, ErrWindowClosed) {
		t.Fatalf("expected ErrWindowClosed, got %v", err)
	}
}
