package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"registrar/internal/export"
	"registrar/internal/registration/models"
	dErrors "registrar/pkg/domainerrors"
)

//go:generate mockgen -source=handler.go -destination=mocks/service_mock.go -package=mocks Service

// Service defines the registration operations the HTTP layer delegates to.
type Service interface {
	Register(ctx context.Context, req *models.RegistrationRequest) (models.Participant, error)
	RemainingSeats(ctx context.Context) (int, error)
	Roster(ctx context.Context) ([]models.RosterEntry, error)
	Export(ctx context.Context) ([]byte, error)
}

// Handler wires the registration endpoints to the service.
type Handler struct {
	logger  *slog.Logger
	service Service
	limit   func(http.Handler) http.Handler
}

type Option func(*Handler)

// WithRegisterLimit applies a middleware (rate limiting) to POST /register
// only; the read endpoints stay unthrottled.
func WithRegisterLimit(limit func(http.Handler) http.Handler) Option {
	return func(h *Handler) {
		h.limit = limit
	}
}

func New(service Service, logger *slog.Logger, opts ...Option) *Handler {
	h := &Handler{logger: logger, service: service}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Register mounts the registration routes on the router.
func (h *Handler) Register(r chi.Router) {
	r.Group(func(gr chi.Router) {
		if h.limit != nil {
			gr.Use(h.limit)
		}
		gr.Post("/register", h.handleRegister)
	})
	r.Get("/remaining-seats", h.handleRemainingSeats)
	r.Get("/participants", h.handleParticipants)
	r.Get("/participants/export", h.handleExport)
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req models.RegistrationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, dErrors.New(dErrors.CodeBadRequest, "invalid request body"))
		return
	}

	_, err := h.service.Register(r.Context(), &req)
	if err != nil {
		code := dErrors.GetCode(err)
		if code == dErrors.CodeInternal {
			h.logger.ErrorContext(r.Context(), "registration failed", "error", err)
			writeError(w, dErrors.New(dErrors.CodeInternal, "internal server error"))
			return
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{
		"message": "registration successful, check your email for details",
	})
}

func (h *Handler) handleRemainingSeats(w http.ResponseWriter, r *http.Request) {
	remaining, err := h.service.RemainingSeats(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch remaining seats", "error", err)
		writeError(w, dErrors.New(dErrors.CodeInternal, "internal server error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"remainingSeats": remaining})
}

func (h *Handler) handleParticipants(w http.ResponseWriter, r *http.Request) {
	roster, err := h.service.Roster(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to list participants", "error", err)
		writeError(w, dErrors.New(dErrors.CodeInternal, "error fetching data"))
		return
	}
	if roster == nil {
		roster = []models.RosterEntry{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"participants": roster})
}

func (h *Handler) handleExport(w http.ResponseWriter, r *http.Request) {
	data, err := h.service.Export(r.Context())
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to build roster export", "error", err)
		writeError(w, dErrors.New(dErrors.CodeInternal, "error building export"))
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
