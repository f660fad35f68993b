package postgres

import (
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/survivor-pool/internal/domain/report"
)

type reportTableModel struct {
	ID          int64     `db:"id"`
	SeasonID    string    `db:"season_public_id"`
	Round       int       `db:"round"`
	PicksByClub []byte    `db:"picks_by_club"`
	ManualCount int       `db:"manual_count"`
	ProxyCount  int       `db:"proxy_count"`
	Eliminated  []byte    `db:"eliminated"`
	GeneratedAt time.Time `db:"generated_at"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type reportClubCountJSON struct {
	ClubID string `json:"club_id"`
	Count  int    `json:"count"`
}

func reportFromRow(row reportTableModel) (report.RoundReport, error) {
	out := report.RoundReport{
		SeasonID:    row.SeasonID,
		Round:       row.Round,
		ManualCount: row.ManualCount,
		ProxyCount:  row.ProxyCount,
		GeneratedAt: row.GeneratedAt.UTC(),
	}

	var counts []reportClubCountJSON
	if len(row.PicksByClub) > 0 {
		if err := sonic.Unmarshal(row.PicksByClub, &counts); err != nil {
			return report.RoundReport{}, fmt.Errorf("decode picks by club: %w", err)
		}
	}
	out.PicksByClub = make([]report.ClubCount, 0, len(counts))
	for _, c := range counts {
		out.PicksByClub = append(out.PicksByClub, report.ClubCount{ClubID: c.ClubID, Count: c.Count})
	}

	out.Eliminated = make([]string, 0)
	if len(row.Eliminated) > 0 {
		if err := sonic.Unmarshal(row.Eliminated, &out.Eliminated); err != nil {
			return report.RoundReport{}, fmt.Errorf("decode eliminated list: %w", err)
		}
	}

	return out, nil
}

func reportColumns(item report.RoundReport) ([]byte, []byte, error) {
	counts := make([]reportClubCountJSON, 0, len(item.PicksByClub))
	for _, c := range item.PicksByClub {
		counts = append(counts, reportClubCountJSON{ClubID: c.ClubID, Count: c.Count})
	}

	picksByClub, err := sonic.Marshal(counts)
	if err != nil {
		return nil, nil, fmt.Errorf("encode picks by club: %w", err)
	}

	eliminated := item.Eliminated
	if eliminated == nil {
		eliminated = []string{}
	}
	eliminatedJSON, err := sonic.Marshal(eliminated)
	if err != nil {
		return nil, nil, fmt.Errorf("encode eliminated list: %w", err)
	}

	return picksByClub, eliminatedJSON, nil
}
