package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
)

type PickRepository struct {
	mu    sync.RWMutex
	items map[string]pick.Pick
}

func NewPickRepository() *PickRepository {
	return &PickRepository{items: make(map[string]pick.Pick)}
}

func (r *PickRepository) GetByParticipantAndRound(_ context.Context, participantID, seasonID string, round int) (pick.Pick, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[pickKey(participantID, seasonID, round)]
	if !ok {
		return pick.Pick{}, false, nil
	}

	return p, true, nil
}

func (r *PickRepository) ListByRound(_ context.Context, seasonID string, round int) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(r.items))
	for _, p := range r.items {
		if p.SeasonID == seasonID && p.Round == round {
			out = append(out, p)
		}
	}
	sortPicks(out)

	return out, nil
}

func (r *PickRepository) ListByParticipantAndSeason(_ context.Context, participantID, seasonID string) ([]pick.Pick, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]pick.Pick, 0, len(r.items))
	for _, p := range r.items {
		if p.ParticipantID == participantID && p.SeasonID == seasonID {
			out = append(out, p)
		}
	}
	sortPicks(out)

	return out, nil
}

func (r *PickRepository) Put(_ context.Context, item pick.Pick) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[pickKey(item.ParticipantID, item.SeasonID, item.Round)] = item

	return nil
}

func (r *PickRepository) PutIfAbsent(_ context.Context, item pick.Pick) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := pickKey(item.ParticipantID, item.SeasonID, item.Round)
	if _, ok := r.items[key]; ok {
		return false, nil
	}
	r.items[key] = item

	return true, nil
}

func pickKey(participantID, seasonID string, round int) string {
	return fmt.Sprintf("%s::%s::%d", participantID, seasonID, round)
}

func sortPicks(items []pick.Pick) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Round != items[j].Round {
			return items[i].Round < items[j].Round
		}
		return items[i].ParticipantID < items[j].ParticipantID
	})
}
