package report

import "time"

// ClubCount is one row of a round's pick distribution.
type ClubCount struct {
	ClubID string
	Count  int
}

// RoundReport is the derived summary for a resolved round. Rebuilt
// idempotently; the latest build replaces any stored copy.
type RoundReport struct {
	SeasonID    string
	Round       int
	PicksByClub []ClubCount
	ManualCount int
	ProxyCount  int
	Eliminated  []string
	GeneratedAt time.Time
}
