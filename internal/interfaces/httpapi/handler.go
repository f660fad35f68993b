package httpapi

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/survivor-pool/internal/usecase"
)

type Handler struct {
	seasonService      *usecase.SeasonService
	timelineService    *usecase.TimelineService
	pickService        *usecase.PickService
	participantService *usecase.ParticipantService
	revivalService     *usecase.RevivalService
	reportService      *usecase.ReportService
	ingestionService   *usecase.IngestionService
	orchestrator       *usecase.OrchestratorService
	logger             *slog.Logger
	validator          *validator.Validate
}

func NewHandler(
	seasonService *usecase.SeasonService,
	timelineService *usecase.TimelineService,
	pickService *usecase.PickService,
	participantService *usecase.ParticipantService,
	revivalService *usecase.RevivalService,
	reportService *usecase.ReportService,
	ingestionService *usecase.IngestionService,
	orchestrator *usecase.OrchestratorService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		seasonService:      seasonService,
		timelineService:    timelineService,
		pickService:        pickService,
		participantService: participantService,
		revivalService:     revivalService,
		reportService:      reportService,
		ingestionService:   ingestionService,
		orchestrator:       orchestrator,
		logger:             logger,
		validator:          validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

type seasonDTO struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Active bool   `json:"active"`
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.seasonService.List(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonDTO, 0, len(seasons))
	for _, s := range seasons {
		items = append(items, seasonDTO{ID: s.ID, Name: s.Name, Active: s.Active})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type currentRoundDTO struct {
	SeasonID string     `json:"season_id"`
	Round    int        `json:"round"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Locked   bool       `json:"locked"`
	Graded   bool       `json:"graded"`
}

func (h *Handler) GetCurrentRound(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentRound")
	defer span.End()

	season, err := h.seasonService.Resolve(ctx, r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	now := time.Now().UTC()
	round, exists, err := h.timelineService.CurrentRound(ctx, season.ID, now)
	if err != nil {
		h.logger.ErrorContext(ctx, "resolve current round failed", "season_id", season.ID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeError(ctx, w, fmt.Errorf("%w: no round with a computable deadline", usecase.ErrNoActiveRound))
		return
	}

	dto := currentRoundDTO{SeasonID: season.ID, Round: round.Number, Graded: round.Graded}
	if deadline, ok, err := h.timelineService.EffectiveDeadline(ctx, round); err == nil && ok {
		utc := deadline.UTC()
		dto.Deadline = &utc
		dto.Locked = !now.Before(utc)
	}

	writeSuccess(ctx, w, http.StatusOK, dto)
}

type submitPickRequest struct {
	ParticipantID string `json:"participant_id" validate:"required"`
	SeasonID      string `json:"season_id"`
	Round         int    `json:"round" validate:"gte=0"`
	ClubID        string `json:"club_id" validate:"required"`
}

type pickDTO struct {
	ParticipantID string    `json:"participant_id"`
	SeasonID      string    `json:"season_id"`
	Round         int       `json:"round"`
	ClubID        string    `json:"club_id"`
	Provenance    string    `json:"provenance"`
	CreatedAt     time.Time `json:"created_at"`
}

func (h *Handler) SubmitPick(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitPick")
	defer span.End()

	var req submitPickRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: decode request body: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validator.Struct(req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.pickService.Submit(ctx, usecase.SubmitPickInput{
		ParticipantID: req.ParticipantID,
		SeasonID:      req.SeasonID,
		Round:         req.Round,
		ClubID:        req.ClubID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "submit pick failed", "participant_id", req.ParticipantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, pickDTO{
		ParticipantID: item.ParticipantID,
		SeasonID:      item.SeasonID,
		Round:         item.Round,
		ClubID:        item.ClubID,
		Provenance:    string(item.Provenance),
		CreatedAt:     item.CreatedAt,
	})
}

func (h *Handler) ListParticipantPicks(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipantPicks")
	defer span.End()

	participantID := r.PathValue("participantID")
	picks, err := h.pickService.ListSeasonPicks(ctx, participantID, r.URL.Query().Get("season_id"))
	if err != nil {
		h.logger.WarnContext(ctx, "list picks failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]pickDTO, 0, len(picks))
	for _, item := range picks {
		items = append(items, pickDTO{
			ParticipantID: item.ParticipantID,
			SeasonID:      item.SeasonID,
			Round:         item.Round,
			ClubID:        item.ClubID,
			Provenance:    string(item.Provenance),
			CreatedAt:     item.CreatedAt,
		})
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

type participantDTO struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Alive           bool       `json:"alive"`
	ProxyPicksUsed  int        `json:"proxy_picks_used"`
	RevivalUsed     bool       `json:"revival_used"`
	EliminatedRound *int       `json:"eliminated_round,omitempty"`
	EliminatedAt    *time.Time `json:"eliminated_at,omitempty"`
	Reason          string     `json:"elimination_reason,omitempty"`
}

func standingToDTO(s usecase.ParticipantStanding) participantDTO {
	return participantDTO{
		ID:              s.Participant.ID,
		Name:            s.Participant.Name,
		Alive:           s.Participant.Alive,
		ProxyPicksUsed:  s.Entry.ProxyPicksUsed,
		RevivalUsed:     s.Entry.RevivalUsed,
		EliminatedRound: s.Entry.EliminatedRound,
		EliminatedAt:    s.Entry.EliminatedAt,
		Reason:          string(s.Entry.Reason),
	}
}

func (h *Handler) ListParticipants(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListParticipants")
	defer span.End()

	season, err := h.seasonService.Resolve(ctx, r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standings, err := h.participantService.ListStandings(ctx, season.ID)
	if err != nil {
		h.logger.ErrorContext(ctx, "list participants failed", "season_id", season.ID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]participantDTO, 0, len(standings))
	for _, s := range standings {
		items = append(items, standingToDTO(s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetParticipant(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetParticipant")
	defer span.End()

	season, err := h.seasonService.Resolve(ctx, r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	standing, err := h.participantService.GetStanding(ctx, r.PathValue("participantID"), season.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, standingToDTO(standing))
}

type revivalStatusDTO struct {
	ParticipantID string     `json:"participant_id"`
	Eligible      bool       `json:"eligible"`
	RevivalUsed   bool       `json:"revival_used"`
	WindowOpensAt *time.Time `json:"window_opens_at,omitempty"`
	WindowEndsAt  *time.Time `json:"window_ends_at,omitempty"`
}

func (h *Handler) GetRevivalStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRevivalStatus")
	defer span.End()

	season, err := h.seasonService.Resolve(ctx, r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.revivalService.CheckEligible(ctx, r.PathValue("participantID"), season.ID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, revivalStatusDTO{
		ParticipantID: status.ParticipantID,
		Eligible:      status.Eligible,
		RevivalUsed:   status.RevivalUsed,
		WindowOpensAt: status.WindowOpensAt,
		WindowEndsAt:  status.WindowEndsAt,
	})
}

func (h *Handler) ActivateRevival(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivateRevival")
	defer span.End()

	season, err := h.seasonService.Resolve(ctx, r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	participantID := r.PathValue("participantID")
	if err := h.revivalService.Activate(ctx, participantID, season.ID); err != nil {
		h.logger.WarnContext(ctx, "activate revival failed", "participant_id", participantID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "revived"})
}

type clubCountDTO struct {
	ClubID string `json:"club_id"`
	Count  int    `json:"count"`
}

type roundReportDTO struct {
	SeasonID    string         `json:"season_id"`
	Round       int            `json:"round"`
	PicksByClub []clubCountDTO `json:"picks_by_club"`
	ManualCount int            `json:"manual_count"`
	ProxyCount  int            `json:"proxy_count"`
	Eliminated  []string       `json:"eliminated"`
	GeneratedAt time.Time      `json:"generated_at"`
}

func (h *Handler) GetRoundReport(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetRoundReport")
	defer span.End()

	season, err := h.seasonService.Resolve(ctx, r.URL.Query().Get("season_id"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	round, err := parseRoundPathValue(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	item, err := h.reportService.Get(ctx, season.ID, round)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	counts := make([]clubCountDTO, 0, len(item.PicksByClub))
	for _, c := range item.PicksByClub {
		counts = append(counts, clubCountDTO{ClubID: c.ClubID, Count: c.Count})
	}

	writeSuccess(ctx, w, http.StatusOK, roundReportDTO{
		SeasonID:    item.SeasonID,
		Round:       item.Round,
		PicksByClub: counts,
		ManualCount: item.ManualCount,
		ProxyCount:  item.ProxyCount,
		Eliminated:  item.Eliminated,
		GeneratedAt: item.GeneratedAt,
	})
}

func parseRoundPathValue(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("round"))
	round, err := strconv.Atoi(raw)
	if err != nil || round <= 0 {
		return 0, fmt.Errorf("%w: round must be a positive number, got %q", usecase.ErrInvalidInput, raw)
	}

	return round, nil
}
