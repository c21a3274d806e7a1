// internal/adapters/http_server/handlers.go
package httpserver

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"trip_category/internal/adapters/booking"
	"trip_category/internal/domain"
)

// CategoryAPI is what the handlers need from the category service.
type CategoryAPI interface {
	ListCategories(ctx context.Context, ref domain.ModuleRef) (domain.CategoryListing, error)
	ChooseCategory(ctx context.Context, ref domain.ModuleRef, refID string) (domain.CategoryChange, error)
}

type Handlers struct {
	Categories CategoryAPI
	validate   *validator.Validate
}

func NewHandlers(c CategoryAPI) *Handlers {
	return &Handlers{Categories: c, validate: validator.New()}
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type chooseCategoryRequest struct {
	RefID string `json:"refId" validate:"required,max=64"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/v1/trips/{tripID}/modules/{moduleID}", func(r chi.Router) {
		r.Get("/hotel-categories", h.listCategories)
		r.Put("/hotel-category", h.chooseCategory)
	})
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// writeError maps service errors to problem responses.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrCategoryNotFound):
		writeProblem(w, http.StatusNotFound, "Unknown Hotel Category", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeProblem(w, http.StatusNotFound, "Not Found", "trip module not found")
	case errors.Is(err, domain.ErrNoMatchingRoom),
		errors.Is(err, domain.ErrEmptySelection),
		errors.Is(err, domain.ErrCurrencyMismatch),
		errors.Is(err, domain.ErrEmptyGroup),
		errors.Is(err, domain.ErrNoSelection):
		writeProblem(w, http.StatusConflict, "Inconsistent Offer", err.Error())
	case errors.Is(err, booking.ErrConflict):
		writeProblem(w, http.StatusConflict, "Booking Conflict", err.Error())
	default:
		log.Error().Err(err).Msg("category request failed")
		writeProblem(w, http.StatusBadGateway, "Bad Gateway", "booking service unavailable")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func moduleRef(r *http.Request) domain.ModuleRef {
	return domain.ModuleRef{TripID: chi.URLParam(r, "tripID"), ModuleID: chi.URLParam(r, "moduleID")}
}

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	out, err := h.Categories.ListCategories(r.Context(), moduleRef(r))
	if err != nil {
		writeError(w, err)
		return
	}

	etag, body := calcETagAndBody(out)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write listCategories body")
	}
}

func (h *Handlers) chooseCategory(w http.ResponseWriter, r *http.Request) {
	var req chooseCategoryRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, 4096)).Decode(&req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "body must be JSON like {\"refId\":\"3*\"}")
		return
	}
	if err := h.validate.Struct(req); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return
	}

	out, err := h.Categories.ChooseCategory(r.Context(), moduleRef(r), req.RefID)
	if err != nil {
		writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	status := http.StatusAccepted
	if out.Unchanged {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(out); err != nil {
		log.Error().Err(err).Msg("failed to write chooseCategory body")
	}
}
