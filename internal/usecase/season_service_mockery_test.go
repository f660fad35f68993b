package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/riskibarqy/survivor-pool/internal/domain/season"
	seasonmock "github.com/riskibarqy/survivor-pool/internal/mocks/domain/season"
	"github.com/stretchr/testify/mock"
)

func TestSeasonService_Resolve_ActiveFallbackUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seasonRepo := seasonmock.NewRepository(t)
	service := NewSeasonService(seasonRepo)

	active := season.Season{ID: "idn-liga-1-2025", Name: "Liga 1 2025/26", Active: true}
	seasonRepo.
		On("GetActive", mock.MatchedBy(func(v context.Context) bool { return v != nil })).
		Return(active, true, nil).
		Once()

	got, err := service.Resolve(ctx, "  ")
	if err != nil {
		t.Fatalf("resolve active season: %v", err)
	}
	if got.ID != active.ID {
		t.Fatalf("unexpected season id: got=%s want=%s", got.ID, active.ID)
	}
}

func TestSeasonService_Resolve_NotFoundUsingMockery(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	seasonRepo := seasonmock.NewRepository(t)
	service := NewSeasonService(seasonRepo)

	seasonRepo.
		On("GetByID", mock.MatchedBy(func(v context.Context) bool { return v != nil }), "missing-season").
		Return(season.Season{}, false, nil).
		Once()

	_, err := service.Resolve(ctx, "missing-season")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
