package httpapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

// RunRoundCheckJob is the QStash callback. The payload identifies the
// round that was due, but the tick re-derives everything from store
// state, so stale or duplicate deliveries are harmless.
func (h *Handler) RunRoundCheckJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRoundCheckJob")
	defer span.End()

	result, err := h.orchestrator.Tick(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "round check job failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	h.logger.InfoContext(ctx, "round check job finished",
		"season_id", result.SeasonID,
		"round", result.Round,
		"stage", result.Stage,
	)

	writeSuccess(ctx, w, http.StatusOK, result)
}

func parseRoundNumber(raw string) (int, error) {
	number, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || number <= 0 {
		return 0, fmt.Errorf("%w: round must be a positive number, got %q", usecase.ErrInvalidInput, raw)
	}

	return number, nil
}
