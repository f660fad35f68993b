package postgres

import (
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
)

type survivalTableModel struct {
	ID              int64      `db:"id"`
	ParticipantID   string     `db:"participant_public_id"`
	SeasonID        string     `db:"season_public_id"`
	ProxyPicksUsed  int        `db:"proxy_picks_used"`
	RevivalUsed     bool       `db:"revival_used"`
	RevivedRound    *int       `db:"revived_round"`
	EliminatedRound *int       `db:"eliminated_round"`
	EliminatedAt    *time.Time `db:"eliminated_at"`
	Reason          string     `db:"reason"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

func survivalFromRow(row survivalTableModel) survival.Entry {
	out := survival.Entry{
		ParticipantID:  row.ParticipantID,
		SeasonID:       row.SeasonID,
		ProxyPicksUsed: row.ProxyPicksUsed,
		RevivalUsed:    row.RevivalUsed,
		Reason:         survival.EliminationReason(row.Reason),
	}
	if row.RevivedRound != nil {
		round := *row.RevivedRound
		out.RevivedRound = &round
	}
	if row.EliminatedRound != nil {
		round := *row.EliminatedRound
		out.EliminatedRound = &round
	}
	if row.EliminatedAt != nil {
		at := row.EliminatedAt.UTC()
		out.EliminatedAt = &at
	}

	return out
}
