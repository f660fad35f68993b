package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/riskibarqy/survivor-pool/internal/domain/report"
)

type ReportRepository struct {
	mu    sync.RWMutex
	items map[string]report.RoundReport
}

func NewReportRepository() *ReportRepository {
	return &ReportRepository{items: make(map[string]report.RoundReport)}
}

func (r *ReportRepository) Get(_ context.Context, seasonID string, round int) (report.RoundReport, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[reportKey(seasonID, round)]
	if !ok {
		return report.RoundReport{}, false, nil
	}

	return cloneReport(item), true, nil
}

func (r *ReportRepository) Upsert(_ context.Context, item report.RoundReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[reportKey(item.SeasonID, item.Round)] = cloneReport(item)

	return nil
}

func reportKey(seasonID string, round int) string {
	return fmt.Sprintf("%s::%d", seasonID, round)
}

func cloneReport(item report.RoundReport) report.RoundReport {
	out := item
	out.PicksByClub = append([]report.ClubCount(nil), item.PicksByClub...)
	out.Eliminated = append([]string(nil), item.Eliminated...)

	return out
}
