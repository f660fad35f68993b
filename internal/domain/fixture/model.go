package fixture

import (
	"strings"
	"time"
)

const (
	StatusScheduled = "SCHEDULED"
	StatusLive      = "LIVE"
	StatusFinished  = "FINISHED"
	StatusCancelled = "CANCELLED"
	StatusPostponed = "POSTPONED"
)

// Outcome is the verdict a finished fixture yields for one of its clubs.
type Outcome string

const (
	OutcomeWin     Outcome = "WIN"
	OutcomeDraw    Outcome = "DRAW"
	OutcomeLoss    Outcome = "LOSS"
	OutcomePending Outcome = "PENDING"
)

// ResultKind tags which form of outcome evidence a fixture carries.
// Evidence is normalized once at ingestion; consumers never work out
// which field to trust per call.
type ResultKind string

const (
	ResultKindNone   ResultKind = "NONE"
	ResultKindWinner ResultKind = "WINNER"
	ResultKindCode   ResultKind = "CODE"
	ResultKindGoals  ResultKind = "GOALS"
)

// Result codes for ResultKindCode.
const (
	CodeHomeWin = "H"
	CodeAwayWin = "A"
	CodeDraw    = "D"
)

// Result is the tagged outcome variant. Exactly the fields implied by
// Kind are meaningful; the rest stay zero.
type Result struct {
	Kind         ResultKind
	WinnerClubID string // WINNER; empty means draw
	Code         string // CODE; one of H, A, D
	HomeGoals    int    // GOALS
	AwayGoals    int    // GOALS
}

// Fixture is one match inside a gameweek.
type Fixture struct {
	ID         string
	SeasonID   string
	Round      int
	HomeClubID string
	AwayClubID string
	KickoffAt  time.Time
	Status     string
	Result     Result
}

// OutcomeFor resolves the fixture's verdict for the given club. Clubs
// not playing in this fixture, and fixtures without usable evidence,
// yield PENDING.
func (f Fixture) OutcomeFor(clubID string) Outcome {
	if clubID != f.HomeClubID && clubID != f.AwayClubID {
		return OutcomePending
	}
	if !IsFinishedStatus(f.Status) {
		return OutcomePending
	}

	switch f.Result.Kind {
	case ResultKindWinner:
		if f.Result.WinnerClubID == "" {
			return OutcomeDraw
		}
		if f.Result.WinnerClubID == clubID {
			return OutcomeWin
		}
		return OutcomeLoss
	case ResultKindCode:
		winnerSide := ""
		switch f.Result.Code {
		case CodeDraw:
			return OutcomeDraw
		case CodeHomeWin:
			winnerSide = f.HomeClubID
		case CodeAwayWin:
			winnerSide = f.AwayClubID
		default:
			return OutcomePending
		}
		if winnerSide == clubID {
			return OutcomeWin
		}
		return OutcomeLoss
	case ResultKindGoals:
		ours, theirs := f.Result.HomeGoals, f.Result.AwayGoals
		if clubID == f.AwayClubID {
			ours, theirs = theirs, ours
		}
		switch {
		case ours > theirs:
			return OutcomeWin
		case ours < theirs:
			return OutcomeLoss
		default:
			return OutcomeDraw
		}
	default:
		return OutcomePending
	}
}

// HasClub reports whether the club plays in this fixture.
func (f Fixture) HasClub(clubID string) bool {
	return clubID == f.HomeClubID || clubID == f.AwayClubID
}

func NormalizeStatus(value string) string {
	status := strings.ToUpper(strings.TrimSpace(value))
	if status == "" {
		return StatusScheduled
	}
	return status
}

func IsFinishedStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusFinished, "FT", "AET", "PEN":
		return true
	default:
		return false
	}
}

func IsCancelledLikeStatus(status string) bool {
	switch NormalizeStatus(status) {
	case StatusCancelled, StatusPostponed, "ABANDONED":
		return true
	default:
		return false
	}
}
