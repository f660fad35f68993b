package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons", handler.ListSeasons)
	mux.HandleFunc("GET /v1/rounds/current", handler.GetCurrentRound)
	mux.HandleFunc("GET /v1/rounds/{round}/report", handler.GetRoundReport)
	mux.HandleFunc("POST /v1/picks", handler.SubmitPick)
	mux.HandleFunc("GET /v1/participants", handler.ListParticipants)
	mux.HandleFunc("GET /v1/participants/{participantID}", handler.GetParticipant)
	mux.HandleFunc("GET /v1/participants/{participantID}/picks", handler.ListParticipantPicks)
	mux.HandleFunc("GET /v1/participants/{participantID}/revival", handler.GetRevivalStatus)
	mux.HandleFunc("POST /v1/participants/{participantID}/revival", handler.ActivateRevival)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /internal/jobs/round-check", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRoundCheckJob)))
	mux.Handle("POST /internal/ingestion/feed", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.IngestFeed)))
}
