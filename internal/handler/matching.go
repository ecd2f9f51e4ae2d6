package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meetcast/matching-server-go/internal/audit"
	apperrors "github.com/meetcast/matching-server-go/internal/errors"
	"github.com/meetcast/matching-server-go/internal/model"
	"github.com/meetcast/matching-server-go/internal/service"
)

type MatchingHandler struct {
	matchingService  *service.MatchingService
	lifecycleService *service.LifecycleService
}

func NewMatchingHandler(
	matchingService *service.MatchingService,
	lifecycleService *service.LifecycleService,
) *MatchingHandler {
	return &MatchingHandler{
		matchingService:  matchingService,
		lifecycleService: lifecycleService,
	}
}

func (h *MatchingHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Create)
	r.Post("/{matchingID}/response", h.Respond)
	r.Post("/{matchingID}/start", h.Start)
	r.Post("/{matchingID}/extend", h.Extend)
	r.Post("/{matchingID}/complete", h.Complete)

	return r
}

// POST /v1/matchings
func (h *MatchingHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleGuest)
	if identity == nil {
		return
	}

	var input service.CreateSoloMatchingInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid JSON"))
		return
	}

	matching, err := h.matchingService.CreateSolo(r.Context(), identity.UserID, input)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventOfferCreate,
		UserID:     identity.UserID,
		MatchingID: matching.ID,
		Kind:       string(model.KindSolo),
	})

	writeJSON(w, http.StatusCreated, matching)
}

// POST /v1/matchings/{matchingID}/response
func (h *MatchingHandler) Respond(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleCast)
	if identity == nil {
		return
	}

	matchingID := chi.URLParam(r, "matchingID")

	var req struct {
		Response model.MatchingResponse `json:"response"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid JSON"))
		return
	}

	matching, err := h.matchingService.RespondSolo(r.Context(), matchingID, identity.UserID, req.Response)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventOfferRespond,
		UserID:     identity.UserID,
		MatchingID: matching.ID,
		Kind:       string(model.KindSolo),
		Details:    map[string]interface{}{"response": string(req.Response)},
	})

	writeJSON(w, http.StatusOK, matching)
}

// POST /v1/matchings/{matchingID}/start
func (h *MatchingHandler) Start(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleCast)
	if identity == nil {
		return
	}

	matchingID := chi.URLParam(r, "matchingID")

	session, err := h.lifecycleService.Start(r.Context(), model.KindSolo, matchingID, identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventSessionStart,
		UserID:     identity.UserID,
		MatchingID: matchingID,
		Kind:       string(model.KindSolo),
	})

	writeJSON(w, http.StatusOK, session)
}

// POST /v1/matchings/{matchingID}/extend
func (h *MatchingHandler) Extend(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleGuest)
	if identity == nil {
		return
	}

	matchingID := chi.URLParam(r, "matchingID")

	var req struct {
		Minutes int `json:"minutes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.InvalidInput("body", "invalid JSON"))
		return
	}

	session, err := h.lifecycleService.Extend(r.Context(), model.KindSolo, matchingID, identity.UserID, req.Minutes)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventSessionExtend,
		UserID:     identity.UserID,
		MatchingID: matchingID,
		Kind:       string(model.KindSolo),
		Details:    map[string]interface{}{"minutes": req.Minutes},
	})

	writeJSON(w, http.StatusOK, session)
}

// POST /v1/matchings/{matchingID}/complete
func (h *MatchingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleCast)
	if identity == nil {
		return
	}

	matchingID := chi.URLParam(r, "matchingID")

	session, err := h.lifecycleService.Complete(r.Context(), model.KindSolo, matchingID, identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	audit.LogFromRequest(r, audit.Event{
		Type:       audit.EventSessionComplete,
		UserID:     identity.UserID,
		MatchingID: matchingID,
		Kind:       string(model.KindSolo),
	})

	writeJSON(w, http.StatusOK, session)
}
