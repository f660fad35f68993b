package postgres

import (
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
)

type pickTableModel struct {
	ID            int64     `db:"id"`
	ParticipantID string    `db:"participant_public_id"`
	SeasonID      string    `db:"season_public_id"`
	Round         int       `db:"round"`
	ClubID        string    `db:"club_public_id"`
	Provenance    string    `db:"provenance"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

func pickFromRow(row pickTableModel) pick.Pick {
	return pick.Pick{
		ParticipantID: row.ParticipantID,
		SeasonID:      row.SeasonID,
		Round:         row.Round,
		ClubID:        row.ClubID,
		Provenance:    pick.Provenance(row.Provenance),
		CreatedAt:     row.CreatedAt.UTC(),
	}
}
