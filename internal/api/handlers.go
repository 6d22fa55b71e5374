package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"tempo-tracker/internal/domain/entities"
	"tempo-tracker/internal/domain/ports"
	"tempo-tracker/internal/domain/services"
)

// Handler exposes the domain services over HTTP.
type Handler struct {
	taskService   *services.TaskService
	ledger        *services.SessionLedger
	reportService *services.ReportService
	logger        *slog.Logger
}

// NewHandler creates a new API handler
func NewHandler(
	taskService *services.TaskService,
	ledger *services.SessionLedger,
	reportService *services.ReportService,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		taskService:   taskService,
		ledger:        ledger,
		reportService: reportService,
		logger:        logger,
	}
}

type createTaskRequest struct {
	Title              string     `json:"title"`
	ProjectID          string     `json:"project_id"`
	Priority           string     `json:"priority"`
	EstimatedMins      int        `json:"estimated_mins"`
	EstimatedIntensity int        `json:"estimated_intensity"`
	DueDate            *time.Time `json:"due_date,omitempty"`
}

type updateTaskRequest struct {
	Title              *string    `json:"title,omitempty"`
	ProjectID          *string    `json:"project_id,omitempty"`
	Priority           *string    `json:"priority,omitempty"`
	EstimatedMins      *int       `json:"estimated_mins,omitempty"`
	EstimatedIntensity *int       `json:"estimated_intensity,omitempty"`
	DueDate            *time.Time `json:"due_date,omitempty"`
	ClearDueDate       bool       `json:"clear_due_date,omitempty"`
}

type completeTaskRequest struct {
	ActualIntensity int  `json:"actual_intensity"`
	ActualMins      *int `json:"actual_mins,omitempty"`
}

// Health reports storage health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// CreateTask handles POST /api/v1/tasks.
func (h *Handler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, entities.NewValidationError("body", "invalid JSON", nil))
		return
	}

	input := services.CreateTaskInput{
		Title:              req.Title,
		ProjectID:          req.ProjectID,
		Priority:           entities.Priority(req.Priority),
		EstimatedMins:      req.EstimatedMins,
		EstimatedIntensity: req.EstimatedIntensity,
		DueDate:            req.DueDate,
	}

	task, err := h.taskService.CreateTask(r.Context(), input)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, task)
}

// GetTask handles GET /api/v1/tasks/{id}.
func (h *Handler) GetTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ListTasks handles GET /api/v1/tasks.
func (h *Handler) ListTasks(w http.ResponseWriter, r *http.Request) {
	filters := &ports.TaskFilters{
		ProjectID: r.URL.Query().Get("project"),
		Search:    r.URL.Query().Get("search"),
	}

	if status := r.URL.Query().Get("status"); status != "" {
		if !entities.IsValidStatus(status) {
			writeError(w, h.logger, entities.NewValidationError("status", "unknown status", status))
			return
		}
		s := entities.Status(status)
		filters.Status = &s
	}
	if priority := r.URL.Query().Get("priority"); priority != "" {
		if !entities.IsValidPriority(priority) {
			writeError(w, h.logger, entities.NewValidationError("priority", "unknown priority", priority))
			return
		}
		p := entities.Priority(priority)
		filters.Priority = &p
	}

	tasks, err := h.taskService.ListTasks(r.Context(), filters)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"tasks": tasks,
		"count": len(tasks),
	})
}

// UpdateTask handles PATCH /api/v1/tasks/{id}.
func (h *Handler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var req updateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, entities.NewValidationError("body", "invalid JSON", nil))
		return
	}

	patch := &services.TaskPatch{
		Title:              req.Title,
		ProjectID:          req.ProjectID,
		EstimatedMins:      req.EstimatedMins,
		EstimatedIntensity: req.EstimatedIntensity,
		DueDate:            req.DueDate,
		ClearDueDate:       req.ClearDueDate,
	}
	if req.Priority != nil {
		p := entities.Priority(*req.Priority)
		patch.Priority = &p
	}

	task, err := h.taskService.UpdateTask(r.Context(), chi.URLParam(r, "id"), patch)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (h *Handler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if err := h.taskService.DeleteTask(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// StartSession handles POST /api/v1/tasks/{id}/start.
func (h *Handler) StartSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.ledger.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// StopSession handles POST /api/v1/tasks/{id}/stop.
func (h *Handler) StopSession(w http.ResponseWriter, r *http.Request) {
	session, err := h.ledger.Stop(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if session == nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"stopped": false})
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// CompleteTask handles POST /api/v1/tasks/{id}/complete.
func (h *Handler) CompleteTask(w http.ResponseWriter, r *http.Request) {
	var req completeTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, entities.NewValidationError("body", "invalid JSON", nil))
		return
	}

	task, err := h.taskService.CompleteTask(r.Context(), chi.URLParam(r, "id"),
		req.ActualIntensity, req.ActualMins)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ArchiveTask handles POST /api/v1/tasks/{id}/archive.
func (h *Handler) ArchiveTask(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.ArchiveTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, task)
}

// ListSessions handles GET /api/v1/tasks/{id}/sessions.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions, err := h.ledger.Sessions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"sessions": sessions,
		"count":    len(sessions),
	})
}

// TaskTime handles GET /api/v1/tasks/{id}/time.
func (h *Handler) TaskTime(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	minutes, err := h.ledger.TotalMinutes(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	elapsed, err := h.ledger.Elapsed(r.Context(), id)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"task_id":         id,
		"total_minutes":   minutes,
		"elapsed_seconds": elapsed,
	})
}

// TaskAccuracy handles GET /api/v1/tasks/{id}/accuracy.
func (h *Handler) TaskAccuracy(w http.ResponseWriter, r *http.Request) {
	task, err := h.taskService.GetTask(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, services.ComputeAccuracy(task))
}

// GenerateReport handles GET /api/v1/reports.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	granularity := query.Get("granularity")
	if granularity == "" {
		granularity = string(entities.GranularityDay)
	}

	period, err := parsePeriod(query.Get("from"), query.Get("to"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}

	report, err := h.reportService.GenerateReport(r.Context(), period,
		entities.Granularity(granularity))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Stats handles GET /api/v1/stats.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.taskService.Stats(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// parsePeriod reads the report window from query parameters, defaulting to
// the last seven days.
func parsePeriod(from, to string) (entities.Period, error) {
	now := time.Now()
	period := entities.Period{Start: now.AddDate(0, 0, -7), End: now}

	if from != "" {
		start, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return entities.Period{}, entities.NewValidationError("from", "must be RFC3339", from)
		}
		period.Start = start
	}
	if to != "" {
		end, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return entities.Period{}, entities.NewValidationError("to", "must be RFC3339", to)
		}
		period.End = end
	}

	if !period.IsValid() {
		return entities.Period{}, entities.NewValidationError("period", "end must be after start", nil)
	}
	return period, nil
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// writeError maps domain errors to HTTP status codes.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case entities.IsValidation(err):
		status = http.StatusBadRequest
	case entities.IsNotFound(err):
		status = http.StatusNotFound
	case errors.Is(err, entities.ErrInvalidStatusTransition),
		errors.Is(err, entities.ErrTaskArchived),
		errors.Is(err, entities.ErrTaskCompleted):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed", slog.Any("error", err))
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}
