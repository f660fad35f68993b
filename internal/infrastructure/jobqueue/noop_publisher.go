package jobqueue

import (
	"context"
	"log/slog"
	"time"
)

// NoopPublisher is used when QStash is not configured. Round checks
// then rely on the periodic tick alone.
type NoopPublisher struct {
	logger *slog.Logger
}

func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}

	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) EnqueueRoundCheck(ctx context.Context, seasonID string, round int, notBefore time.Time) error {
	p.logger.DebugContext(ctx, "round check enqueue skipped, no job queue configured",
		"season_id", seasonID,
		"round", round,
		"not_before", notBefore,
	)

	return nil
}
