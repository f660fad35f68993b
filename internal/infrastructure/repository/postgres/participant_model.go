package postgres

import (
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
)

type participantTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	Name            string    `db:"name"`
	Alive           bool      `db:"alive"`
	EliminatedRound *int      `db:"eliminated_round"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

func participantFromRow(row participantTableModel) participant.Participant {
	out := participant.Participant{
		ID:    row.PublicID,
		Name:  row.Name,
		Alive: row.Alive,
	}
	if row.EliminatedRound != nil {
		round := *row.EliminatedRound
		out.EliminatedRound = &round
	}

	return out
}
