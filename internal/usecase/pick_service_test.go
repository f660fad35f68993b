package usecase

import (
	"errors"
	"testing"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/club"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
)

type pickFixture struct {
	service         *PickService
	clubRepo        *memory.ClubRepository
	participantRepo *memory.ParticipantRepository
	pickRepo        *memory.PickRepository
}

func newPickFixture() pickFixture {
	seasonRepo := memory.NewSeasonRepository(memory.SeedSeasons())
	gameweekRepo := memory.NewGameweekRepository(memory.SeedGameweeks())
	clubRepo := memory.NewClubRepository(memory.SeedClubs())
	fixtureRepo := memory.NewFixtureRepository(memory.SeedFixtures())
	participantRepo := memory.NewParticipantRepository(memory.SeedParticipants())
	pickRepo := memory.NewPickRepository()

	timeline := NewTimelineService(gameweekRepo, fixtureRepo, 0)
	service := NewPickService(seasonRepo, gameweekRepo, clubRepo, participantRepo, pickRepo, timeline)

	return pickFixture{
		service:         service,
		clubRepo:        clubRepo,
		participantRepo: participantRepo,
		pickRepo:        pickRepo,
	}
}

func TestPickService_Submit_BeforeDeadline(t *testing.T) {
	f := newPickFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }

	got, err := f.service.Submit(t.Context(), SubmitPickInput{
		ParticipantID: "p-andi",
		ClubID:        "idn-persija",
	})
	if err != nil {
		t.Fatalf("submit pick: %v", err)
	}
	if got.Round != 1 {
		t.Fatalf("pick landed on wrong round: got=%d want=1", got.Round)
	}
	if got.Provenance != pick.ProvenanceManual {
		t.Fatalf("unexpected provenance: %s", got.Provenance)
	}

	stored, exists, err := f.pickRepo.GetByParticipantAndRound(t.Context(), "p-andi", memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("get stored pick: %v", err)
	}
	if !exists {
		t.Fatalf("pick was not stored")
	}
	if stored.ClubID != "idn-persija" {
		t.Fatalf("unexpected stored club: %s", stored.ClubID)
	}
}

func TestPickService_Submit_ReplaceBeforeLock(t *testing.T) {
	f := newPickFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }

	if _, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-andi", ClubID: "idn-persija"}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-andi", ClubID: "idn-persib"}); err != nil {
		t.Fatalf("replace submit: %v", err)
	}

	stored, _, err := f.pickRepo.GetByParticipantAndRound(t.Context(), "p-andi", memory.SeasonIDLiga1, 1)
	if err != nil {
		t.Fatalf("get stored pick: %v", err)
	}
	if stored.ClubID != "idn-persib" {
		t.Fatalf("replacement did not stick: got=%s want=idn-persib", stored.ClubID)
	}

	picks, err := f.service.ListSeasonPicks(t.Context(), "p-andi", memory.SeasonIDLiga1)
	if err != nil {
		t.Fatalf("list season picks: %v", err)
	}
	if len(picks) != 1 {
		t.Fatalf("replace must not create a second pick: got=%d", len(picks))
	}
}

func TestPickService_Submit_RoundLocked(t *testing.T) {
	f := newPickFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC) }

	_, err := f.service.Submit(t.Context(), SubmitPickInput{
		ParticipantID: "p-andi",
		Round:         1,
		ClubID:        "idn-persija",
	})
	if !errors.Is(err, ErrRoundLocked) {
		t.Fatalf("expected ErrRoundLocked, got %v", err)
	}
}

func TestPickService_Submit_ClubReuseAcrossRounds(t *testing.T) {
	f := newPickFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }

	if _, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-andi", Round: 1, ClubID: "idn-persija"}); err != nil {
		t.Fatalf("round 1 submit: %v", err)
	}

	_, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-andi", Round: 2, ClubID: "idn-persija"})
	if !errors.Is(err, ErrClubAlreadyUsed) {
		t.Fatalf("expected ErrClubAlreadyUsed, got %v", err)
	}

	// Re-submitting the same club for the same round is not reuse.
	if _, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-andi", Round: 1, ClubID: "idn-persija"}); err != nil {
		t.Fatalf("same-round resubmit: %v", err)
	}
}

func TestPickService_Submit_EliminatedParticipant(t *testing.T) {
	f := newPickFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }

	if _, err := f.participantRepo.SetEliminated(t.Context(), "p-budi", 1); err != nil {
		t.Fatalf("set eliminated: %v", err)
	}

	_, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-budi", ClubID: "idn-persija"})
	if !errors.Is(err, ErrNotAlive) {
		t.Fatalf("expected ErrNotAlive, got %v", err)
	}
}

func TestPickService_Submit_InactiveClub(t *testing.T) {
	f := newPickFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }

	if err := f.clubRepo.Upsert(t.Context(), club.Club{
		ID:       "idn-relegated",
		SeasonID: memory.SeasonIDLiga1,
		Name:     "Relegated FC",
		Active:   false,
	}); err != nil {
		t.Fatalf("upsert club: %v", err)
	}

	_, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-andi", ClubID: "idn-relegated"})
	if !errors.Is(err, ErrClubInactive) {
		t.Fatalf("expected ErrClubInactive, got %v", err)
	}
}

func TestPickService_Submit_UnknownParticipant(t *testing.T) {
	f := newPickFixture()
	f.service.now = func() time.Time { return time.Date(2026, 2, 14, 10, 0, 0, 0, time.UTC) }

	_, err := f.service.Submit(t.Context(), SubmitPickInput{ParticipantID: "p-ghost", ClubID: "idn-persija"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
