package postgres

import (
	"database/sql"
	"time"

	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
)

type fixtureTableModel struct {
	ID           int64          `db:"id"`
	PublicID     string         `db:"public_id"`
	SeasonID     string         `db:"season_public_id"`
	Round        int            `db:"round"`
	HomeClubID   string         `db:"home_club_public_id"`
	AwayClubID   string         `db:"away_club_public_id"`
	KickoffAt    time.Time      `db:"kickoff_at"`
	Status       string         `db:"status"`
	ResultKind   string         `db:"result_kind"`
	WinnerClubID sql.NullString `db:"winner_club_public_id"`
	ResultCode   sql.NullString `db:"result_code"`
	HomeGoals    sql.NullInt64  `db:"home_goals"`
	AwayGoals    sql.NullInt64  `db:"away_goals"`
	CreatedAt    time.Time      `db:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at"`
}

func fixtureFromRow(row fixtureTableModel) fixture.Fixture {
	return fixture.Fixture{
		ID:         row.PublicID,
		SeasonID:   row.SeasonID,
		Round:      row.Round,
		HomeClubID: row.HomeClubID,
		AwayClubID: row.AwayClubID,
		KickoffAt:  row.KickoffAt.UTC(),
		Status:     row.Status,
		Result: fixture.Result{
			Kind:         fixture.ResultKind(row.ResultKind),
			WinnerClubID: row.WinnerClubID.String,
			Code:         row.ResultCode.String,
			HomeGoals:    int(row.HomeGoals.Int64),
			AwayGoals:    int(row.AwayGoals.Int64),
		},
	}
}

func nullString(value string) sql.NullString {
	return sql.NullString{String: value, Valid: value != ""}
}
