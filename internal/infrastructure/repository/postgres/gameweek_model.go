package postgres

import (
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
)

type gameweekTableModel struct {
	ID        int64      `db:"id"`
	SeasonID  string     `db:"season_public_id"`
	Number    int        `db:"number"`
	Deadline  *time.Time `db:"deadline"`
	Graded    bool       `db:"graded"`
	CreatedAt time.Time  `db:"created_at"`
	UpdatedAt time.Time  `db:"updated_at"`
}

func gameweekFromRow(row gameweekTableModel) gameweek.Gameweek {
	out := gameweek.Gameweek{
		SeasonID: row.SeasonID,
		Number:   row.Number,
		Graded:   row.Graded,
	}
	if row.Deadline != nil {
		deadline := row.Deadline.UTC()
		out.Deadline = &deadline
	}

	return out
}
