package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

type recordingQueue struct {
	calls []queueCall
}

type queueCall struct {
	SeasonID  string
	Round     int
	NotBefore time.Time
}

func (q *recordingQueue) EnqueueRoundCheck(_ context.Context, seasonID string, round int, notBefore time.Time) error {
	q.calls = append(q.calls, queueCall{SeasonID: seasonID, Round: round, NotBefore: notBefore})
	return nil
}

type orchestratorFixture struct {
	service     *OrchestratorService
	fixtureRepo *memory.FixtureRepository
	queue       *recordingQueue
}

func newOrchestratorFixture() orchestratorFixture {
	seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons())
	gameweekRepo := memory.NewGameweekRepository(memory.SeedGameweeks())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	clubRepo := memory.NewClubRepository(memory.SeedClubs())
	participantRepo := memory.NewParticipantRepository(memory.SeedParticipants())
	pickRepo := memory.NewPickRepository()
	survivalRepo := memory.NewSurvivalRepository()
	reportRepo := memory.NewReportRepository()

	logger := logging.NewNop()
	timeline := NewTimelineService(gameweekRepo, fixtureRepo, 0)
	sweep := NewSweepService(gameweekRepo, fixtureRepo, clubRepo, participantRepo, pickRepo, survivalRepo, timeline, 2, logger)
	resolver := NewResolverService(gameweekRepo, fixtureRepo, participantRepo, pickRepo, survivalRepo, timeline, logger)
	report := NewReportService(gameweekRepo, pickRepo, survivalRepo, reportRepo, timeline, logger)

	queue := &recordingQueue{}
	service := NewOrchestratorService(seasonRepo, gameweekRepo, timeline, sweep, resolver, report, queue, 2, logger)

	return orchestratorFixture{
		service:     service,
		fixtureRepo: fixtureRepo,
		queue:       queue,
	}
}

func (f orchestratorFixture) setClock(at time.Time) {
	f.service.now = func() time.Time { return at }
	f.service.sweep.now = f.service.now
	f.service.resolver.now = f.service.now
	f.service.report.now = f.service.now
}

func (f orchestratorFixture) finishRoundOneFixtures(t *testing.T) {
	t.Helper()

	fixtures, err := f.fixtureRepo.ListByRound(t.Context(), memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("list fixtures: %v", err)
	}
	for _, item := range fixtures {
		item.Status = fixture.StatusFinished
		item.Result = fixture.Result{Kind: fixture.ResultKindWinner, WinnerClubID: item.HomeClubID}
		if err := f.fixtureRepo.Upsert(t.Context(), item); err != nil {
			t.Fatalf("upsert fixture: %v", err)
		}
	}
}

func TestOrchestratorService_Tick_BeforeDeadlineSchedulesWakeup(t *testing.T) {
	f := newOrchestratorFixture()
	f.setClock(time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC))

	result, err := f.service.Tick(t.Context())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Stage != StageWaiting {
		t.Fatalf("unexpected stage: %s", result.Stage)
	}
	if len(f.queue.calls) != 1 {
		t.Fatalf("expected one scheduled check, got %d", len(f.queue.calls))
	}
	call := f.queue.calls[0]
	wantDeadline := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	if call.Round != 1 || !call.NotBefore.Equal(wantDeadline) {
		t.Fatalf("check scheduled wrong: round=%d at=%s", call.Round, call.NotBefore)
	}
}

func TestOrchestratorService_Tick_ResolvesLockedRound(t *testing.T) {
	f := newOrchestratorFixture()
	f.setClock(time.Date(2026, 2, 15, 22, 0, 0, 0, time.UTC))
	f.finishRoundOneFixtures(t)

	result, err := f.service.Tick(t.Context())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Round != 1 {
		t.Fatalf("unexpected round: %d", result.Round)
	}
	if result.Stage != StageResolved {
		t.Fatalf("unexpected stage: %s", result.Stage)
	}
	if result.Sweep == nil || result.Sweep.Assigned != 4 {
		t.Fatalf("sweep did not run: %+v", result.Sweep)
	}
	if result.Resolve == nil || !result.Resolve.Graded {
		t.Fatalf("round not graded: %+v", result.Resolve)
	}

	// With round 1 graded the next tick moves on to waiting for round 2.
	again, err := f.service.Tick(t.Context())
	if err != nil {
		t.Fatalf("second tick: %v", err)
	}
	if again.Stage != StageWaiting || again.Round != 2 {
		t.Fatalf("expected to wait on round 2: %+v", again)
	}
	if again.Sweep != nil {
		t.Fatalf("graded round must not be swept again: %+v", again.Sweep)
	}
}

func TestOrchestratorService_Tick_PendingResultsRetries(t *testing.T) {
	f := newOrchestratorFixture()
	now := time.Date(2026, 2, 15, 22, 0, 0, 0, time.UTC)
	f.setClock(now)

	// No fixture results yet: proxies are assigned but grading stalls.
	result, err := f.service.Tick(t.Context())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if result.Stage != StagePending {
		t.Fatalf("unexpected stage: %s", result.Stage)
	}
	if len(f.queue.calls) != 1 {
		t.Fatalf("expected one retry check, got %d", len(f.queue.calls))
	}
	if !f.queue.calls[0].NotBefore.After(now) {
		t.Fatalf("retry must be scheduled in the future: %s", f.queue.calls[0].NotBefore)
	}
}
