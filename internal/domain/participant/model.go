package participant

// Participant is one entrant in the pool. Alive and EliminatedRound
// move together: alive participants carry a nil marker, eliminated
// ones carry the round that knocked them out. The revival flow is the
// only path that clears the marker again.
type Participant struct {
	ID              string
	Name            string
	Alive           bool
	EliminatedRound *int
}
