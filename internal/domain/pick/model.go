package pick

import "time"

// Provenance records how a pick came to exist.
type Provenance string

const (
	ProvenanceManual Provenance = "MANUAL"
	ProvenanceProxy  Provenance = "PROXY"
)

// Pick is the one decision a participant holds for a round.
// (ParticipantID, SeasonID, Round) is the identity; the club may be
// replaced freely until the round locks.
type Pick struct {
	ParticipantID string
	SeasonID      string
	Round         int
	ClubID        string
	Provenance    Provenance
	CreatedAt     time.Time
}
