// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mdupont/wedding-rsvp/internal/model"
	"github.com/mdupont/wedding-rsvp/internal/service"
	"github.com/mdupont/wedding-rsvp/internal/store"
)

// Handler holds all HTTP handlers for the RSVP API.
type Handler struct {
	svc *service.Service
}

// New constructs a Handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Routes mounts every endpoint on a chi router.
func (h *Handler) Routes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/guests", h.ListGuests)
		r.Get("/guests/lookup", h.LookupGuest)
		r.Get("/guests/{id}", h.GetGuest)
		r.Get("/guests/{id}/response", h.GetLatestResponse)
		r.Post("/rsvp", h.SubmitRSVP)
		r.Get("/capacity", h.GetCapacity)
		r.Post("/guestbook", h.SignGuestbook)
		r.Get("/guestbook", h.ListGuestbook)
		r.Get("/stats", h.GetStats)
	})
}

// ─── Helper utilities ─────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, model.ErrorResponse{Error: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// writeServiceError maps domain errors to HTTP statuses. Every message is
// display-ready; internal errors never leak their cause to the client.
func writeServiceError(w http.ResponseWriter, err error) {
	var vErr *service.ValidationError
	var cErr *service.CapacityError
	switch {
	case errors.As(err, &vErr):
		writeError(w, http.StatusBadRequest, vErr.Msg)
	case errors.As(err, &cErr):
		remaining := cErr.Remaining
		writeJSON(w, http.StatusConflict, model.ErrorResponse{
			Error:     cErr.Error(),
			Remaining: &remaining,
		})
	case errors.Is(err, store.ErrGuestNotFound):
		writeError(w, http.StatusNotFound, "invité introuvable")
	case errors.Is(err, store.ErrUnavailable):
		writeError(w, http.StatusBadGateway, "le service est momentanément indisponible, réessayez dans un instant")
	default:
		writeError(w, http.StatusInternalServerError, "une erreur interne est survenue")
	}
}

// ─── Guests ───────────────────────────────────────────────────────────────────

// ListGuests handles GET /api/guests — full list, emails redacted.
func (h *Handler) ListGuests(w http.ResponseWriter, r *http.Request) {
	guests, err := h.svc.ListGuests(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if guests == nil {
		guests = []model.Guest{}
	}
	writeJSON(w, http.StatusOK, guests)
}

// GetGuest handles GET /api/guests/{id} — single lookup, full fields.
func (h *Handler) GetGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := h.svc.GuestByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guest)
}

// LookupGuest handles GET /api/guests/lookup?nom=&prenom= — the fallback
// identification path for guests without an id link.
func (h *Handler) LookupGuest(w http.ResponseWriter, r *http.Request) {
	guest, err := h.svc.GuestByName(r.Context(), r.URL.Query().Get("nom"), r.URL.Query().Get("prenom"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, guest)
}

// GetLatestResponse handles GET /api/guests/{id}/response — the guest's
// most recent log entry, so a returning guest sees what they last sent.
func (h *Handler) GetLatestResponse(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.LatestResponse(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ─── RSVP ─────────────────────────────────────────────────────────────────────

// SubmitRSVP handles POST /api/rsvp.
func (h *Handler) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	var req model.RsvpRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "requête invalide : "+err.Error())
		return
	}

	result, err := h.svc.SubmitRSVP(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

// GetCapacity handles GET /api/capacity.
func (h *Handler) GetCapacity(w http.ResponseWriter, r *http.Request) {
	capacity, err := h.svc.Capacity(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, capacity)
}

// ─── Guestbook ────────────────────────────────────────────────────────────────

// SignGuestbook handles POST /api/guestbook.
func (h *Handler) SignGuestbook(w http.ResponseWriter, r *http.Request) {
	var req model.GuestbookRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "requête invalide : "+err.Error())
		return
	}

	entry, err := h.svc.SignGuestbook(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, entry)
}

// ListGuestbook handles GET /api/guestbook?limit=N — latest N messages.
func (h *Handler) ListGuestbook(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit doit être un entier positif")
			return
		}
		limit = n
	}

	entries, err := h.svc.Guestbook(r.Context(), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if entries == nil {
		entries = []model.GuestbookEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

// ─── Stats ────────────────────────────────────────────────────────────────────

// GetStats handles GET /api/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ─── Health check ─────────────────────────────────────────────────────────────

// HealthCheck handles GET /health.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
