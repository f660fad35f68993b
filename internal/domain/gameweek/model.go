package gameweek

import "time"

// Gameweek is one round of picks within a season. Deadline is the
// explicitly stored lock time; when nil the effective deadline is
// derived from the round's earliest kickoff.
type Gameweek struct {
	SeasonID string
	Number   int
	Deadline *time.Time
	Graded   bool
}
