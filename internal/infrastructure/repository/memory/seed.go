package memory

import (
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/club"
	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
	"github.com/riskibarqy/survivor-pool/internal/domain/season"
)

const SeasonIDLiga1 = "idn-liga-1-2025"

func SeedSeasons() []season.Season {
	return []season.Season{
		{ID: SeasonIDLiga1, Name: "Liga 1 Indonesia 2025/2026", Active: true},
	}
}

func SeedClubs() []club.Club {
	return []club.Club{
		{ID: "idn-persija", SeasonID: SeasonIDLiga1, Name: "Persija Jakarta", Short: "PSJ", Active: true},
		{ID: "idn-persib", SeasonID: SeasonIDLiga1, Name: "Persib Bandung", Short: "PSB", Active: true},
		{ID: "idn-persebaya", SeasonID: SeasonIDLiga1, Name: "Persebaya Surabaya", Short: "PRB", Active: true},
		{ID: "idn-baliutd", SeasonID: SeasonIDLiga1, Name: "Bali United", Short: "BU", Active: true},
		{ID: "idn-psm", SeasonID: SeasonIDLiga1, Name: "PSM Makassar", Short: "PSM", Active: true},
		{ID: "idn-arema", SeasonID: SeasonIDLiga1, Name: "Arema FC", Short: "ARE", Active: true},
	}
}

func SeedParticipants() []participant.Participant {
	return []participant.Participant{
		{ID: "p-andi", Name: "Andi Wijaya", Alive: true},
		{ID: "p-budi", Name: "Budi Santoso", Alive: true},
		{ID: "p-citra", Name: "Citra Lestari", Alive: true},
		{ID: "p-dewi", Name: "Dewi Anggraini", Alive: true},
	}
}

func SeedGameweeks() []gameweek.Gameweek {
	deadline := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)

	return []gameweek.Gameweek{
		{SeasonID: SeasonIDLiga1, Number: 1, Deadline: &deadline},
		{SeasonID: SeasonIDLiga1, Number: 2},
		{SeasonID: SeasonIDLiga1, Number: 3},
	}
}

func SeedFixtures() []fixture.Fixture {
	return []fixture.Fixture{
		{
			ID:         "fx-idn-001",
			SeasonID:   SeasonIDLiga1,
			Round:      1,
			HomeClubID: "idn-persija",
			AwayClubID: "idn-persib",
			KickoffAt:  time.Date(2026, 2, 14, 19, 0, 0, 0, time.UTC),
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         "fx-idn-002",
			SeasonID:   SeasonIDLiga1,
			Round:      1,
			HomeClubID: "idn-persebaya",
			AwayClubID: "idn-baliutd",
			KickoffAt:  time.Date(2026, 2, 15, 12, 30, 0, 0, time.UTC),
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         "fx-idn-003",
			SeasonID:   SeasonIDLiga1,
			Round:      1,
			HomeClubID: "idn-psm",
			AwayClubID: "idn-arema",
			KickoffAt:  time.Date(2026, 2, 15, 15, 0, 0, 0, time.UTC),
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         "fx-idn-004",
			SeasonID:   SeasonIDLiga1,
			Round:      2,
			HomeClubID: "idn-persib",
			AwayClubID: "idn-persebaya",
			KickoffAt:  time.Date(2026, 2, 21, 12, 30, 0, 0, time.UTC),
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         "fx-idn-005",
			SeasonID:   SeasonIDLiga1,
			Round:      2,
			HomeClubID: "idn-baliutd",
			AwayClubID: "idn-persija",
			KickoffAt:  time.Date(2026, 2, 22, 12, 30, 0, 0, time.UTC),
			Status:     fixture.StatusScheduled,
		},
		{
			ID:         "fx-idn-006",
			SeasonID:   SeasonIDLiga1,
			Round:      3,
			HomeClubID: "idn-arema",
			AwayClubID: "idn-baliutd",
			KickoffAt:  time.Date(2026, 2, 28, 12, 30, 0, 0, time.UTC),
			Status:     fixture.StatusScheduled,
		},
	}
}
