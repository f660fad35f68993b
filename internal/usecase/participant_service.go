package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
)

// ParticipantStanding joins a participant with their season ledger.
type ParticipantStanding struct {
	Participant participant.Participant
	Entry       survival.Entry
}

type ParticipantService struct {
	participantRepo participant.Repository
	survivalRepo    survival.Repository
}

func NewParticipantService(participantRepo participant.Repository, survivalRepo survival.Repository) *ParticipantService {
	return &ParticipantService{
		participantRepo: participantRepo,
		survivalRepo:    survivalRepo,
	}
}

func (s *ParticipantService) ListStandings(ctx context.Context, seasonID string) ([]ParticipantStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.ListStandings")
	defer span.End()

	items, err := s.participantRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}

	out := make([]ParticipantStanding, 0, len(items))
	for _, item := range items {
		entry, err := s.survivalRepo.Get(ctx, item.ID, seasonID)
		if err != nil {
			return nil, fmt.Errorf("get survival entry: %w", err)
		}
		out = append(out, ParticipantStanding{Participant: item, Entry: entry})
	}

	return out, nil
}

func (s *ParticipantService) GetStanding(ctx context.Context, participantID, seasonID string) (ParticipantStanding, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ParticipantService.GetStanding")
	defer span.End()

	participantID = strings.TrimSpace(participantID)
	if participantID == "" {
		return ParticipantStanding{}, fmt.Errorf("%w: participant_id is required", ErrInvalidInput)
	}

	item, exists, err := s.participantRepo.GetByID(ctx, participantID)
	if err != nil {
		return ParticipantStanding{}, fmt.Errorf("get participant: %w", err)
	}
	if !exists {
		return ParticipantStanding{}, fmt.Errorf("%w: participant=%s", ErrNotFound, participantID)
	}

	entry, err := s.survivalRepo.Get(ctx, participantID, seasonID)
	if err != nil {
		return ParticipantStanding{}, fmt.Errorf("get survival entry: %w", err)
	}

	return ParticipantStanding{Participant: item, Entry: entry}, nil
}
