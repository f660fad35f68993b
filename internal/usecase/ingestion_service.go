package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/club"
	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/platform/id"
	"github.com/riskibarqy/survivor-pool/internal/platform/logging"
)

// FeedFixture is one fixture row as a provider delivers it. Result
// evidence arrives in up to three redundant shapes and is reduced to a
// single canonical form at ingestion, in this order of trust: explicit
// winner reference, then result code, then the goal counts.
type FeedFixture struct {
	ExternalID   string
	Round        int
	HomeClubID   string
	AwayClubID   string
	KickoffAt    time.Time
	Status       string
	WinnerClubID *string
	ResultCode   *string
	HomeGoals    *int
	AwayGoals    *int
}

type FeedClub struct {
	ID     string
	Name   string
	Short  string
	Active bool
}

type IngestInput struct {
	SeasonID string
	Clubs    []FeedClub
	Fixtures []FeedFixture
	// RoundDeadlines carries explicit organizer deadlines per round
	// number. Rounds without one fall back to the kickoff rule.
	RoundDeadlines map[int]time.Time
}

type IngestResult struct {
	Clubs    int `json:"clubs"`
	Fixtures int `json:"fixtures"`
	Rounds   int `json:"rounds"`
}

// IngestionService is the only place raw feed evidence is interpreted.
// Everything downstream reads the canonical result it writes here.
type IngestionService struct {
	gameweekRepo gameweek.Repository
	clubRepo     club.Repository
	fixtureRepo  fixture.Repository
	idGen        id.Generator
	logger       *logging.Logger
}

func NewIngestionService(
	gameweekRepo gameweek.Repository,
	clubRepo club.Repository,
	fixtureRepo fixture.Repository,
	idGen id.Generator,
	logger *logging.Logger,
) *IngestionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &IngestionService{
		gameweekRepo: gameweekRepo,
		clubRepo:     clubRepo,
		fixtureRepo:  fixtureRepo,
		idGen:        idGen,
		logger:       logger,
	}
}

func (s *IngestionService) Ingest(ctx context.Context, input IngestInput) (IngestResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.IngestionService.Ingest")
	defer span.End()

	if input.SeasonID == "" {
		return IngestResult{}, fmt.Errorf("%w: season_id is required", ErrInvalidInput)
	}

	result := IngestResult{}

	for _, item := range input.Clubs {
		if item.ID == "" || item.Name == "" {
			return result, fmt.Errorf("%w: club id and name are required", ErrInvalidInput)
		}
		if err := s.clubRepo.Upsert(ctx, club.Club{
			ID:       item.ID,
			SeasonID: input.SeasonID,
			Name:     item.Name,
			Short:    item.Short,
			Active:   item.Active,
		}); err != nil {
			return result, fmt.Errorf("upsert club %s: %w", item.ID, err)
		}
		result.Clubs++
	}

	rounds := make(map[int]struct{})
	for _, item := range input.Fixtures {
		normalized, err := s.normalizeFixture(input.SeasonID, item)
		if err != nil {
			return result, err
		}
		if err := s.fixtureRepo.Upsert(ctx, normalized); err != nil {
			return result, fmt.Errorf("upsert fixture %s: %w", normalized.ID, err)
		}
		rounds[normalized.Round] = struct{}{}
		result.Fixtures++
	}
	for number := range input.RoundDeadlines {
		rounds[number] = struct{}{}
	}

	for number := range rounds {
		gw, exists, err := s.gameweekRepo.GetByNumber(ctx, input.SeasonID, number)
		if err != nil {
			return result, fmt.Errorf("get gameweek %d: %w", number, err)
		}
		if !exists {
			gw = gameweek.Gameweek{SeasonID: input.SeasonID, Number: number}
		}
		if deadline, ok := input.RoundDeadlines[number]; ok {
			utc := deadline.UTC()
			gw.Deadline = &utc
		}
		if err := s.gameweekRepo.Upsert(ctx, gw); err != nil {
			return result, fmt.Errorf("upsert gameweek %d: %w", number, err)
		}
		result.Rounds++
	}

	s.logger.InfoContext(ctx, "feed ingested",
		"season_id", input.SeasonID,
		"clubs", result.Clubs,
		"fixtures", result.Fixtures,
		"rounds", result.Rounds,
	)

	return result, nil
}

func (s *IngestionService) normalizeFixture(seasonID string, item FeedFixture) (fixture.Fixture, error) {
	if item.Round <= 0 {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture round must be greater than zero", ErrInvalidInput)
	}
	if item.HomeClubID == "" || item.AwayClubID == "" {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture club ids are required", ErrInvalidInput)
	}
	if item.HomeClubID == item.AwayClubID {
		return fixture.Fixture{}, fmt.Errorf("%w: fixture clubs must differ", ErrInvalidInput)
	}

	fixtureID := strings.TrimSpace(item.ExternalID)
	if fixtureID == "" {
		generated, err := s.idGen.NewID()
		if err != nil {
			return fixture.Fixture{}, fmt.Errorf("generate fixture id: %w", err)
		}
		fixtureID = generated
	}

	out := fixture.Fixture{
		ID:         fixtureID,
		SeasonID:   seasonID,
		Round:      item.Round,
		HomeClubID: item.HomeClubID,
		AwayClubID: item.AwayClubID,
		KickoffAt:  item.KickoffAt.UTC(),
		Status:     fixture.NormalizeStatus(item.Status),
	}

	result, err := normalizeResult(item)
	if err != nil {
		return fixture.Fixture{}, err
	}
	out.Result = result
	return out, nil
}

// normalizeResult collapses the redundant evidence fields into one
// tagged value. The strongest shape present wins; weaker shapes are
// ignored even when they disagree.
func normalizeResult(item FeedFixture) (fixture.Result, error) {
	if item.WinnerClubID != nil {
		winner := strings.TrimSpace(*item.WinnerClubID)
		if winner != "" && winner != item.HomeClubID && winner != item.AwayClubID {
			return fixture.Result{}, fmt.Errorf("%w: winner %s is not in fixture", ErrInvalidInput, winner)
		}
		return fixture.Result{Kind: fixture.ResultKindWinner, WinnerClubID: winner}, nil
	}

	if item.ResultCode != nil {
		code := strings.ToUpper(strings.TrimSpace(*item.ResultCode))
		switch code {
		case fixture.CodeHomeWin, fixture.CodeAwayWin, fixture.CodeDraw:
			return fixture.Result{Kind: fixture.ResultKindCode, Code: code}, nil
		case "":
			// fall through to goals
		default:
			return fixture.Result{}, fmt.Errorf("%w: unknown result code %q", ErrInvalidInput, code)
		}
	}

	if item.HomeGoals != nil && item.AwayGoals != nil {
		if *item.HomeGoals < 0 || *item.AwayGoals < 0 {
			return fixture.Result{}, fmt.Errorf("%w: goal counts cannot be negative", ErrInvalidInput)
		}
		return fixture.Result{
			Kind:      fixture.ResultKindGoals,
			HomeGoals: *item.HomeGoals,
			AwayGoals: *item.AwayGoals,
		}, nil
	}

	return fixture.Result{Kind: fixture.ResultKindNone}, nil
}
