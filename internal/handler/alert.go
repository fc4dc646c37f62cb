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

// AlertHandler handles alert CRUD and the on-demand check endpoint. All
// routes sit behind RequireAuth.
type AlertHandler struct {
	alerts *service.AlertService
}

// NewAlertHandler creates a new AlertHandler.
func NewAlertHandler(alerts *service.AlertService) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// HandleList returns all of the principal's alerts.
// GET /api/alerts
func (h *AlertHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	alerts, err := h.alerts.ListByUser(r.Context(), principal.ID)
	if err != nil {
		slog.Error("list alerts", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toAlertDTOs(alerts))
}

// HandleCheck evaluates the principal's active alerts against their spending
// windows and returns the triggered subset.
// GET /api/alerts/check
func (h *AlertHandler) HandleCheck(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	check, err := h.alerts.CheckAll(r.Context(), principal.ID, time.Now())
	if err != nil {
		slog.Error("check alerts", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, toAlertCheckDTO(check))
}

// HandleCreate stores a new alert for the principal.
// POST /api/alerts
func (h *AlertHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	var req createAlertRequest
	if !readValidJSON(w, r, &req) {
		return
	}

	alert, err := h.alerts.Create(r.Context(), principal.ID, req.Threshold, domain.Frequency(req.Frequency))
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		slog.Error("create alert", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusCreated, toAlertDTO(alert))
}

// HandleUpdate applies a partial update to one of the principal's alerts.
// PUT /api/alerts/{id}
func (h *AlertHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid alert id.")
		return
	}

	var req updateAlertRequest
	if !readValidJSON(w, r, &req) {
		return
	}

	alert, err := h.alerts.Update(r.Context(), principal.ID, id, req.patch())
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			writeError(w, http.StatusNotFound, "Alert not found.")
		case errors.Is(err, domain.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("update alert", "error", err)
			writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		}
		return
	}

	writeJSON(w, http.StatusOK, toAlertDTO(alert))
}

// HandleDelete removes one of the principal's alerts.
// DELETE /api/alerts/{id}
func (h *AlertHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	principal := PrincipalFromContext(r.Context())

	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid alert id.")
		return
	}

	if err := h.alerts.Delete(r.Context(), principal.ID, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Alert not found.")
			return
		}
		slog.Error("delete alert", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "Alert deleted."})
}
