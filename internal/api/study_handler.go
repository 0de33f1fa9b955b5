package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/birdapp/woodpecker/internal/api/shared"
	"github.com/birdapp/woodpecker/internal/domain"
	"github.com/birdapp/woodpecker/internal/platform/logger"
	"github.com/birdapp/woodpecker/internal/redact"
	"github.com/birdapp/woodpecker/internal/service/study"
	"github.com/go-chi/chi/v5"
)

// StudyHandler handles study session HTTP requests.
type StudyHandler struct {
	studyService study.Service
	registry     *study.Registry
	logger       *slog.Logger
}

// NewStudyHandler creates a new StudyHandler
func NewStudyHandler(studyService study.Service, registry *study.Registry, logger *slog.Logger) *StudyHandler {
	if studyService == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("studyService cannot be nil for StudyHandler")
	}
	if registry == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("registry cannot be nil for StudyHandler")
	}
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for StudyHandler")
	}

	return &StudyHandler{
		studyService: studyService,
		registry:     registry,
		logger:       logger.With(slog.String("component", "study_handler")),
	}
}

// Routes mounts the study endpoints under /decks/{deckID}/study.
func (h *StudyHandler) Routes(r chi.Router) {
	r.Route("/decks/{deckID}/study", func(r chi.Router) {
		r.Post("/", h.StartSession)
		r.Get("/", h.GetSession)
		r.Delete("/", h.DiscardSession)
		r.Post("/answer", h.Answer)
		r.Post("/save", h.Save)
	})
}

// StartSession handles POST /decks/{deckID}/study
// The mode may come from the body or the "mode" query parameter.
func (h *StudyHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := handlePathUUID(w, r, "deckID", log)
	if !ok {
		return
	}

	var req StartSessionRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	if req.Mode == "" {
		req.Mode = r.URL.Query().Get("mode")
	}
	mode, err := study.ParseMode(req.Mode)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	session, err := h.registry.Start(r.Context(), h.studyService, deckID, mode)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start study session")
		return
	}

	log.Debug("study session registered",
		slog.String("deck_id", deckID.String()),
		slog.String("mode", string(mode)))
	shared.RespondWithJSON(w, r, http.StatusCreated, sessionToResponse(session))
}

// GetSession handles GET /decks/{deckID}/study
func (h *StudyHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, sessionToResponse(session))
}

// DiscardSession handles DELETE /decks/{deckID}/study
// Unsaved grades are lost.
func (h *StudyHandler) DiscardSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	if session.HasPendingChanges() {
		log.Info("discarding study session with unsaved changes",
			slog.String("deck_id", session.DeckID().String()))
	}
	h.registry.Remove(session.DeckID())
	w.WriteHeader(http.StatusNoContent)
}

// Answer handles POST /decks/{deckID}/study/answer
func (h *StudyHandler) Answer(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	var req AnswerRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		log.Warn("invalid request format", slog.String("error", redact.Error(err)))
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	grade, err := domain.ParseGrade(req.Grade)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	result, err := h.studyService.Answer(r.Context(), session, grade)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to grade card")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AnswerResponse{
		Result:  result,
		Session: sessionToResponse(session),
	})
}

// Save handles POST /decks/{deckID}/study/save
// A partial save answers 207 with the cards that are still pending.
func (h *StudyHandler) Save(w http.ResponseWriter, r *http.Request) {
	session, ok := h.lookupSession(w, r)
	if !ok {
		return
	}

	err := h.studyService.SaveChanges(r.Context(), session)

	var saveErr *study.SaveError
	switch {
	case err == nil:
		shared.RespondWithJSON(w, r, http.StatusOK, SaveResponse{
			Session:      sessionToResponse(session),
			SessionSaved: true,
		})
	case errors.As(err, &saveErr):
		logger.FromContextOrDefault(r.Context(), h.logger).Warn("study session partially saved",
			slog.String("deck_id", session.DeckID().String()),
			slog.Int("failed_cards", len(saveErr.Cards)),
			slog.Bool("session_failed", saveErr.Session != nil),
			slog.String("error", redact.Error(err)))
		shared.RespondWithJSON(w, r, http.StatusMultiStatus, SaveResponse{
			Session:       sessionToResponse(session),
			FailedCardIDs: saveErr.FailedCardIDs(),
			SessionSaved:  saveErr.Session == nil,
		})
	default:
		HandleAPIError(w, r, err, "Failed to save study session")
	}
}

func (h *StudyHandler) lookupSession(w http.ResponseWriter, r *http.Request) (*study.Session, bool) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	deckID, ok := handlePathUUID(w, r, "deckID", log)
	if !ok {
		return nil, false
	}

	session, ok := h.registry.Get(deckID)
	if !ok {
		HandleAPIError(w, r, ErrNoStudySession, "")
		return nil, false
	}
	return session, true
}
