package survival

import "time"

// EliminationReason enumerates why a participant left the pool.
type EliminationReason string

const (
	ReasonNone             EliminationReason = ""
	ReasonLoss             EliminationReason = "LOSS"
	ReasonNoEligibleClub   EliminationReason = "NO_ELIGIBLE_CLUB"
	ReasonProxiesExhausted EliminationReason = "NO_AUTOMATIC_PICKS_REMAINING"
)

// Entry is the per-(participant, season) ledger: automatic picks
// consumed, the one-time revival flag, and the elimination record the
// revival window is computed from. RevivedRound remembers which round
// the revival undid, so that round can never eliminate the participant
// again. Entries are created lazily; a missing row reads as the zero
// Entry.
type Entry struct {
	ParticipantID   string
	SeasonID        string
	ProxyPicksUsed  int
	RevivalUsed     bool
	RevivedRound    *int
	EliminatedRound *int
	EliminatedAt    *time.Time
	Reason          EliminationReason
}

// Eliminated reports whether the entry carries an elimination record.
func (e Entry) Eliminated() bool {
	return e.EliminatedRound != nil
}
