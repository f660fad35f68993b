package httpapi

import (
	"fmt"
	"net/http"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

type feedClubRequest struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Short  string `json:"short"`
	Active *bool  `json:"active"`
}

type feedFixtureRequest struct {
	ExternalID   string    `json:"external_id"`
	Round        int       `json:"round" validate:"required,gt=0"`
	HomeClubID   string    `json:"home_club_id" validate:"required"`
	AwayClubID   string    `json:"away_club_id" validate:"required"`
	KickoffAt    time.Time `json:"kickoff_at"`
	Status       string    `json:"status"`
	WinnerClubID *string   `json:"winner_club_id"`
	ResultCode   *string   `json:"result_code"`
	HomeGoals    *int      `json:"home_goals"`
	AwayGoals    *int      `json:"away_goals"`
}

type ingestFeedRequest struct {
	SeasonID       string               `json:"season_id"`
	Clubs          []feedClubRequest    `json:"clubs" validate:"dive"`
	Fixtures       []feedFixtureRequest `json:"fixtures" validate:"dive"`
	RoundDeadlines map[string]time.Time `json:"round_deadlines"`
}

func (h *Handler) IngestFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.IngestFeed")
	defer span.End()

	var req ingestFeedRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	season, err := h.seasonService.Resolve(ctx, req.SeasonID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	input := usecase.IngestInput{SeasonID: season.ID}

	input.Clubs = make([]usecase.FeedClub, 0, len(req.Clubs))
	for _, c := range req.Clubs {
		active := true
		if c.Active != nil {
			active = *c.Active
		}
		input.Clubs = append(input.Clubs, usecase.FeedClub{
			ID:     c.ID,
			Name:   c.Name,
			Short:  c.Short,
			Active: active,
		})
	}

	input.Fixtures = make([]usecase.FeedFixture, 0, len(req.Fixtures))
	for _, f := range req.Fixtures {
		input.Fixtures = append(input.Fixtures, usecase.FeedFixture{
			ExternalID:   f.ExternalID,
			Round:        f.Round,
			HomeClubID:   f.HomeClubID,
			AwayClubID:   f.AwayClubID,
			KickoffAt:    f.KickoffAt,
			Status:       f.Status,
			WinnerClubID: f.WinnerClubID,
			ResultCode:   f.ResultCode,
			HomeGoals:    f.HomeGoals,
			AwayGoals:    f.AwayGoals,
		})
	}

	if len(req.RoundDeadlines) > 0 {
		input.RoundDeadlines = make(map[int]time.Time, len(req.RoundDeadlines))
		for raw, deadline := range req.RoundDeadlines {
			number, err := parseRoundNumber(raw)
			if err != nil {
				writeError(ctx, w, err)
				return
			}
			input.RoundDeadlines[number] = deadline
		}
	}

	result, err := h.ingestionService.Ingest(ctx, input)
	if err != nil {
		h.logger.ErrorContext(ctx, "ingest feed failed", "season_id", season.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}
