package postgres

import (
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/club"
)

type clubTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	SeasonID  string    `db:"season_public_id"`
	Name      string    `db:"name"`
	Short     string    `db:"short"`
	Active    bool      `db:"active"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func clubFromRow(row clubTableModel) club.Club {
	return club.Club{
		ID:       row.PublicID,
		SeasonID: row.SeasonID,
		Name:     row.Name,
		Short:    row.Short,
		Active:   row.Active,
	}
}
