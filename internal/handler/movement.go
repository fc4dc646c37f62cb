package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/PierreVega17/Backend-Finanzas/internal/domain"
	"github.com/PierreVega17/Backend-Finanzas/internal/service"
)

// MovementHandler handles movement CRUD requests. All routes sit behind
// RequireAuth, so a principal is always present.
type MovementHandler struct {
	movements *service.MovementService
}

// NewMovementHandler creates a new MovementHandler.
func NewMovementHandler(movements *service.MovementService) *MovementHandler {
	return &MovementHandler{movements: movements}
}

// HandleList returns the principal's movements, optionally filtered by
// ?year= and ?month=. A month without a year is rejected as a bad request
// rather than silently ignored, so a typo in the query never widens the
// result set.
// GET /api/movements
func (h *MovementHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	var filter domain.MovementFilter
	if yearStr := r.URL.Query().Get("year"); yearStr != "" {
		year, err := strconv.Atoi(yearStr)
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid year.")
			return
		}
		filter.Year = year
	}
	if monthStr := r.URL.Query().Get("month"); monthStr != "" {
		month, err := strconv.Atoi(monthStr)
		if err != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "Invalid month.")
			return
		}
		filter.Month = time.Month(month)
	}

	movements, err := h.movements.ListByUser(r.Context(), principal.ID, filter)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("list movements", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toMovementDTOs(movements))
}

// HandleCreate records a new movement for the principal.
// POST /api/movements
func (h *MovementHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	var req createMovementRequest
	if !readValidJSON(w, r, &req) {
		return
	}

	movement := &domain.Movement{
		Type:        domain.MovementType(req.Type),
		Amount:      req.Amount,
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.Date != nil {
		movement.Date = *req.Date
	}

	if err := h.movements.Create(r.Context(), principal.ID, movement); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create movement", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, toMovementDTO(movement))
}

// HandleUpdate applies a partial update to one of the principal's movements.
// Another user's movement is reported as not found.
// PUT /api/movements/{id}
func (h *MovementHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid movement id.")
		return
	}

	var req updateMovementRequest
	if !readValidJSON(w, r, &req) {
		return
	}

	movement, err := h.movements.Update(r.Context(), principal.ID, id, req.patch())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Movement not found.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("update movement", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, toMovementDTO(movement))
}

// HandleDelete removes one of the principal's movements.
// DELETE /api/movements/{id}
func (h *MovementHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid movement id.")
		return
	}

	if err := h.movements.Delete(r.Context(), principal.ID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Movement not found.")
			return
		}
		slog.Error("delete movement", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Movement deleted."})
}
