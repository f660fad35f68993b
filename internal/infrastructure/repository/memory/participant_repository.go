package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
)

type ParticipantRepository struct {
	mu    sync.RWMutex
	items map[string]participant.Participant
}

func NewParticipantRepository(participants []participant.Participant) *ParticipantRepository {
	items := make(map[string]participant.Participant, len(participants))
	for _, p := range participants {
		items[p.ID] = cloneParticipant(p)
	}

	return &ParticipantRepository{items: items}
}

func (r *ParticipantRepository) GetByID(_ context.Context, id string) (participant.Participant, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[id]
	if !ok {
		return participant.Participant{}, false, nil
	}

	return cloneParticipant(p), true, nil
}

func (r *ParticipantRepository) ListAlive(_ context.Context) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(r.items))
	for _, p := range r.items {
		if p.Alive {
			out = append(out, cloneParticipant(p))
		}
	}
	sortParticipants(out)

	return out, nil
}

func (r *ParticipantRepository) List(_ context.Context) ([]participant.Participant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]participant.Participant, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, cloneParticipant(p))
	}
	sortParticipants(out)

	return out, nil
}

func (r *ParticipantRepository) SetEliminated(_ context.Context, id string, round int) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return false, fmt.Errorf("participant %s not found", id)
	}
	if !p.Alive {
		return false, nil
	}

	p.Alive = false
	p.EliminatedRound = &round
	r.items[id] = p

	return true, nil
}

func (r *ParticipantRepository) SetAlive(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.items[id]
	if !ok {
		return fmt.Errorf("participant %s not found", id)
	}

	p.Alive = true
	p.EliminatedRound = nil
	r.items[id] = p

	return nil
}

func (r *ParticipantRepository) Upsert(_ context.Context, item participant.Participant) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = cloneParticipant(item)

	return nil
}

func sortParticipants(items []participant.Participant) {
	sort.Slice(items, func(i, j int) bool { return items[i].ID < items[j].ID })
}

func cloneParticipant(p participant.Participant) participant.Participant {
	out := p
	if p.EliminatedRound != nil {
		round := *p.EliminatedRound
		out.EliminatedRound = &round
	}

	return out
}
