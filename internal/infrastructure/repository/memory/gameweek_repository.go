package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
)

type GameweekRepository struct {
	mu    sync.RWMutex
	items map[string]gameweek.Gameweek
}

func NewGameweekRepository(gameweeks []gameweek.Gameweek) *GameweekRepository {
	items := make(map[string]gameweek.Gameweek, len(gameweeks))
	for _, gw := range gameweeks {
		items[gameweekKey(gw.SeasonID, gw.Number)] = cloneGameweek(gw)
	}

	return &GameweekRepository{items: items}
}

func (r *GameweekRepository) GetByNumber(_ context.Context, seasonID string, number int) (gameweek.Gameweek, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	gw, ok := r.items[gameweekKey(seasonID, number)]
	if !ok {
		return gameweek.Gameweek{}, false, nil
	}

	return cloneGameweek(gw), true, nil
}

func (r *GameweekRepository) ListBySeason(_ context.Context, seasonID string) ([]gameweek.Gameweek, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]gameweek.Gameweek, 0, len(r.items))
	for _, gw := range r.items {
		if gw.SeasonID == seasonID {
			out = append(out, cloneGameweek(gw))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Number < out[j].Number })

	return out, nil
}

func (r *GameweekRepository) Upsert(_ context.Context, item gameweek.Gameweek) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[gameweekKey(item.SeasonID, item.Number)] = cloneGameweek(item)

	return nil
}

func (r *GameweekRepository) MarkGraded(_ context.Context, seasonID string, number int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := gameweekKey(seasonID, number)
	gw, ok := r.items[key]
	if !ok {
		return fmt.Errorf("gameweek %s not found", key)
	}
	gw.Graded = true
	r.items[key] = gw

	return nil
}

func gameweekKey(seasonID string, number int) string {
	return fmt.Sprintf("%s::%d", seasonID, number)
}

func cloneGameweek(gw gameweek.Gameweek) gameweek.Gameweek {
	out := gw
	if gw.Deadline != nil {
		deadline := *gw.Deadline
		out.Deadline = &deadline
	}

	return out
}
