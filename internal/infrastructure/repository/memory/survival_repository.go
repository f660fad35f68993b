package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
)

type SurvivalRepository struct {
	mu    sync.Mutex
	items map[string]survival.Entry
}

func NewSurvivalRepository() *SurvivalRepository {
	return &SurvivalRepository{items: make(map[string]survival.Entry)}
}

func (r *SurvivalRepository) Get(_ context.Context, participantID, seasonID string) (survival.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.items[survivalKey(participantID, seasonID)]
	if !ok {
		return survival.Entry{ParticipantID: participantID, SeasonID: seasonID}, nil
	}

	return cloneEntry(entry), nil
}

func (r *SurvivalRepository) Upsert(_ context.Context, item survival.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[survivalKey(item.ParticipantID, item.SeasonID)] = cloneEntry(item)

	return nil
}

func (r *SurvivalRepository) IncrementProxyUsedIfBelow(_ context.Context, participantID, seasonID string, cap int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := survivalKey(participantID, seasonID)
	entry, ok := r.items[key]
	if !ok {
		entry = survival.Entry{ParticipantID: participantID, SeasonID: seasonID}
	}
	if entry.ProxyPicksUsed >= cap {
		return false, nil
	}

	entry.ProxyPicksUsed++
	r.items[key] = entry

	return true, nil
}

func (r *SurvivalRepository) DecrementProxyUsed(_ context.Context, participantID, seasonID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := survivalKey(participantID, seasonID)
	entry, ok := r.items[key]
	if !ok || entry.ProxyPicksUsed <= 0 {
		return nil
	}

	entry.ProxyPicksUsed--
	r.items[key] = entry

	return nil
}

func (r *SurvivalRepository) RecordElimination(_ context.Context, participantID, seasonID string, round int, at time.Time, reason survival.EliminationReason) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := survivalKey(participantID, seasonID)
	entry, ok := r.items[key]
	if !ok {
		entry = survival.Entry{ParticipantID: participantID, SeasonID: seasonID}
	}
	if entry.EliminatedRound != nil {
		return false, nil
	}
	if entry.RevivedRound != nil && *entry.RevivedRound == round {
		return false, nil
	}

	entry.EliminatedRound = &round
	entry.EliminatedAt = &at
	entry.Reason = reason
	r.items[key] = entry

	return true, nil
}

func (r *SurvivalRepository) ClearElimination(_ context.Context, participantID, seasonID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := survivalKey(participantID, seasonID)
	entry, ok := r.items[key]
	if !ok {
		return nil
	}

	entry.EliminatedRound = nil
	entry.EliminatedAt = nil
	entry.Reason = survival.ReasonNone
	r.items[key] = entry

	return nil
}

func (r *SurvivalRepository) ListEliminatedByRound(_ context.Context, seasonID string, round int) ([]survival.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]survival.Entry, 0)
	for _, entry := range r.items {
		if entry.SeasonID != seasonID || entry.EliminatedRound == nil {
			continue
		}
		if *entry.EliminatedRound == round {
			out = append(out, cloneEntry(entry))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ParticipantID < out[j].ParticipantID })

	return out, nil
}

func survivalKey(participantID, seasonID string) string {
	return fmt.Sprintf("%s::%s", participantID, seasonID)
}

func cloneEntry(entry survival.Entry) survival.Entry {
	out := entry
	if entry.RevivedRound != nil {
		round := *entry.RevivedRound
		out.RevivedRound = &round
	}
	if entry.EliminatedRound != nil {
		round := *entry.EliminatedRound
		out.EliminatedRound = &round
	}
	if entry.EliminatedAt != nil {
		at := *entry.EliminatedAt
		out.EliminatedAt = &at
	}

	return out
}
