package app

import (
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"

	"github.com/riskibarqy/survivor-pool/internal/config"
	"github.com/riskibarqy/survivor-pool/internal/domain/club"
	"github.com/riskibarqy/survivor-pool/internal/domain/fixture"
	"github.com/riskibarqy/survivor-pool/internal/domain/gameweek"
	"github.com/riskibarqy/survivor-pool/internal/domain/participant"
	"github.com/riskibarqy/survivor-pool/internal/domain/pick"
	"github.com/riskibarqy/survivor-pool/internal/domain/report"
	"github.com/riskibarqy/survivor-pool/internal/domain/season"
	"github.com/riskibarqy/survivor-pool/internal/domain/survival"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/survivor-pool/internal/infrastructure/repository/postgres"
)

type repositories struct {
	seasons      season.Repository
	gameweeks    gameweek.Repository
	clubs        club.Repository
	fixtures     fixture.Repository
	participants participant.Repository
	picks        pick.Repository
	survival     survival.Repository
	reports      report.Repository
}

// buildRepositories picks the backing store from config. An empty
// DB_URL selects the seeded in-memory store, which is enough for local
// development and tests. The returned close func is nil for memory.
func buildRepositories(cfg config.Config, logger *slog.Logger) (repositories, func() error, error) {
	if cfg.DBURL == "" {
		logger.Info("using in-memory repositories", "reason", "DB_URL empty")
		return repositories{
			seasons:      memory.NewSeasonRepository(memory.SeedSeasons()),
			gameweeks:    memory.NewGameweekRepository(memory.SeedGameweeks()),
			clubs:        memory.NewClubRepository(memory.SeedClubs()),
			fixtures:     memory.NewFixtureRepository(memory.SeedFixtures()),
			participants: memory.NewParticipantRepository(memory.SeedParticipants()),
			picks:        memory.NewPickRepository(),
			survival:     memory.NewSurvivalRepository(),
			reports:      memory.NewReportRepository(),
		}, nil, nil
	}

	opts := []otelsql.Option{
		otelsql.WithAttributes(semconv.DBSystemPostgreSQL),
	}
	if name := dbNameFromURL(cfg.DBURL); name != "" {
		opts = append(opts, otelsql.WithDBName(name))
	}

	db, err := otelsqlx.Connect("postgres", cfg.DBURL, opts...)
	if err != nil {
		return repositories{}, nil, fmt.Errorf("connect postgres: %w", err)
	}

	logger.Info("using postgres repositories", "db_name", dbNameFromURL(cfg.DBURL))

	return repositories{
		seasons:      postgres.NewSeasonRepository(db),
		gameweeks:    postgres.NewGameweekRepository(db),
		clubs:        postgres.NewClubRepository(db),
		fixtures:     postgres.NewFixtureRepository(db),
		participants: postgres.NewParticipantRepository(db),
		picks:        postgres.NewPickRepository(db),
		survival:     postgres.NewSurvivalRepository(db),
		reports:      postgres.NewReportRepository(db),
	}, db.Close, nil
}
