package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/survivor-pool/internal/domain/season"
)

type SeasonService struct {
	seasonRepo season.Repository
}

func NewSeasonService(seasonRepo season.Repository) *SeasonService {
	return &SeasonService{seasonRepo: seasonRepo}
}

func (s *SeasonService) List(ctx context.Context) ([]season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.List")
	defer span.End()

	items, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	return items, nil
}

// Resolve returns the season with the given ID, or the active season
// when the ID is empty.
func (s *SeasonService) Resolve(ctx context.Context, seasonID string) (season.Season, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SeasonService.Resolve")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		active, exists, err := s.seasonRepo.GetActive(ctx)
		if err != nil {
			return season.Season{}, fmt.Errorf("get active season: %w", err)
		}
		if !exists {
			return season.Season{}, fmt.Errorf("%w: no active season", ErrNoActiveRound)
		}
		return active, nil
	}

	item, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return season.Season{}, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return season.Season{}, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	return item, nil
}
