package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/meetcast/matching-server-go/internal/model"
	"github.com/meetcast/matching-server-go/internal/service"
)

type ViewHandler struct {
	viewService *service.ViewService
}

func NewViewHandler(viewService *service.ViewService) *ViewHandler {
	return &ViewHandler{
		viewService: viewService,
	}
}

func (h *ViewHandler) GuestRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/matchings", h.GuestOffers)
	r.Get("/matchings/unreviewed", h.GuestUnreviewed)

	return r
}

func (h *ViewHandler) CastRoutes() chi.Router {
	r := chi.NewRouter()

	r.Get("/matchings", h.CastOffers)

	return r
}

// GET /v1/guest/matchings
func (h *ViewHandler) GuestOffers(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleGuest)
	if identity == nil {
		return
	}

	view, err := h.viewService.GuestOffers(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GET /v1/guest/matchings/unreviewed
func (h *ViewHandler) GuestUnreviewed(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleGuest)
	if identity == nil {
		return
	}

	view, err := h.viewService.GuestUnreviewed(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// GET /v1/cast/matchings
func (h *ViewHandler) CastOffers(w http.ResponseWriter, r *http.Request) {
	identity := requireRole(w, r, model.RoleCast)
	if identity == nil {
		return
	}

	view, err := h.viewService.CastOffers(r.Context(), identity.UserID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, view)
}
