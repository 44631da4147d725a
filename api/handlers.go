/*
handlers.go - HTTP API handlers for the trainee time-tracking system

PURPOSE:
  Exposes the computation engine via REST API. Handles HTTP
  request/response, JSON serialization, raw-string parsing into typed
  values, and delegates everything else to the tracking services.

ENDPOINTS:
  Trainees:
    GET    /api/trainees                     List all trainees
    POST   /api/trainees                     Create/update trainee config
    GET    /api/trainees/{id}                Get trainee details
    POST   /api/trainees/{id}/complete       Mark engagement completed
    POST   /api/trainees/{id}/terminate      Soft-terminate

  Time records:
    GET    /api/trainees/{id}/records        Records in ?from=&to=
    POST   /api/trainees/{id}/records        Submit a day's attendance
    PUT    /api/trainees/{id}/records/{date} Amend within the edit window

  Aggregates:
    GET    /api/trainees/{id}/summary/weekly?date=   Weekly summary
                                             (recomputed, cached, returned)
    GET    /api/trainees/{id}/reports/monthly?year=&month=
    GET    /api/trainees/{id}/progress       OJT completion view
    GET    /api/progress                     Batch: all active ojt trainees

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Malformed input (bad dates, bad clock strings, bad JSON)
  - 404: Trainee or record not found
  - 409: Duplicate record for a date
  - 422: Business-rule violations, with the full violated-rule set
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/warp/trainee-engine/engine"
	"github.com/warp/trainee-engine/tracking"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Trainees  *tracking.TraineeService
	Records   *tracking.RecordService
	Summaries *tracking.SummaryService
	Progress  *tracking.ProgressService
	Logger    *logrus.Logger
}

// NewHandler wires the services over the given store.
func NewHandler(store engine.Store, logger *logrus.Logger) *Handler {
	return &Handler{
		Trainees:  tracking.NewTraineeService(store, logger),
		Records:   tracking.NewRecordService(store, logger),
		Summaries: tracking.NewSummaryService(store, logger),
		Progress:  tracking.NewProgressService(store, logger),
		Logger:    logger,
	}
}

// =============================================================================
// TRAINEE HANDLERS
// =============================================================================

func (h *Handler) ListTrainees(w http.ResponseWriter, r *http.Request) {
	trainees, err := h.Trainees.List(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]TraineeDTO, len(trainees))
	for i, t := range trainees {
		dtos[i] = toTraineeDTO(t)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SaveTrainee(w http.ResponseWriter, r *http.Request) {
	var req SaveTraineeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.badRequest(w, "invalid JSON body")
		return
	}

	t, err := traineeFromRequest(req)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	saved, err := h.Trainees.Save(r.Context(), t)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toTraineeDTO(saved))
}

func (h *Handler) GetTrainee(w http.ResponseWriter, r *http.Request) {
	t, err := h.Trainees.Get(r.Context(), engine.TraineeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTraineeDTO(t))
}

func (h *Handler) CompleteTrainee(w http.ResponseWriter, r *http.Request) {
	t, err := h.Trainees.Complete(r.Context(), engine.TraineeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTraineeDTO(t))
}

func (h *Handler) TerminateTrainee(w http.ResponseWriter, r *http.Request) {
	t, err := h.Trainees.Terminate(r.Context(), engine.TraineeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTraineeDTO(t))
}

func traineeFromRequest(req SaveTraineeRequest) (engine.Trainee, error) {
	t := engine.Trainee{
		ID:     engine.TraineeID(req.ID),
		Name:   req.Name,
		Type:   engine.TraineeType(req.TraineeType),
		Status: engine.TraineeStatus(req.Status),
	}
	if t.Status == "" {
		t.Status = engine.TraineeActive
	}

	var err error
	if t.StartDate, err = engine.ParseDate(req.StartDate); err != nil {
		return engine.Trainee{}, err
	}
	if req.EndDate != nil {
		d, err := engine.ParseDate(*req.EndDate)
		if err != nil {
			return engine.Trainee{}, err
		}
		t.EndDate = &d
	}
	if t.HourlyRate, err = parseDecimalPtr("hourly_rate", req.HourlyRate); err != nil {
		return engine.Trainee{}, err
	}
	if t.MaxWeeklyHours, err = parseDecimalPtr("max_weekly_hours", req.MaxWeeklyHours); err != nil {
		return engine.Trainee{}, err
	}
	if t.TotalRequiredHours, err = parseDecimalPtr("total_required_hours", req.TotalRequiredHours); err != nil {
		return engine.Trainee{}, err
	}
	return t, nil
}

// =============================================================================
// TIME RECORD HANDLERS
// =============================================================================

func (h *Handler) ListRecords(w http.ResponseWriter, r *http.Request) {
	traineeID := engine.TraineeID(chi.URLParam(r, "id"))

	from, err := queryDate(r, "from", engine.Today().AddDays(-30))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}
	to, err := queryDate(r, "to", engine.Today())
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	records, err := h.Records.Records(r.Context(), traineeID, from, to)
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]TimeRecordDTO, len(records))
	for i, rec := range records {
		dtos[i] = toTimeRecordDTO(rec)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

func (h *Handler) SubmitRecord(w http.ResponseWriter, r *http.Request) {
	traineeID := engine.TraineeID(chi.URLParam(r, "id"))

	in, err := recordInputFromBody(r)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	rec, err := h.Records.Submit(r.Context(), traineeID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusCreated, toTimeRecordDTO(rec))
}

func (h *Handler) AmendRecord(w http.ResponseWriter, r *http.Request) {
	traineeID := engine.TraineeID(chi.URLParam(r, "id"))

	date, err := engine.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	in, err := recordInputFromBody(r)
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}
	// The URL owns the date; a differing body date is a client error.
	if !in.Date.IsZero() && !in.Date.Equal(date) {
		h.badRequest(w, "body date does not match URL date")
		return
	}
	in.Date = date

	rec, err := h.Records.Amend(r.Context(), traineeID, in)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toTimeRecordDTO(rec))
}

func recordInputFromBody(r *http.Request) (tracking.RecordInput, error) {
	var req SubmitRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return tracking.RecordInput{}, fmt.Errorf("invalid JSON body")
	}

	in := tracking.RecordInput{
		Status: engine.RecordStatus(req.Status),
		Notes:  req.Notes,
	}

	var err error
	if req.Date != "" {
		if in.Date, err = engine.ParseDate(req.Date); err != nil {
			return tracking.RecordInput{}, err
		}
	}
	if in.AMTimeIn, err = parseClockPtr(req.AMTimeIn); err != nil {
		return tracking.RecordInput{}, err
	}
	if in.AMTimeOut, err = parseClockPtr(req.AMTimeOut); err != nil {
		return tracking.RecordInput{}, err
	}
	if in.PMTimeIn, err = parseClockPtr(req.PMTimeIn); err != nil {
		return tracking.RecordInput{}, err
	}
	if in.PMTimeOut, err = parseClockPtr(req.PMTimeOut); err != nil {
		return tracking.RecordInput{}, err
	}
	return in, nil
}

// =============================================================================
// AGGREGATE HANDLERS
// =============================================================================

func (h *Handler) GetWeeklySummary(w http.ResponseWriter, r *http.Request) {
	traineeID := engine.TraineeID(chi.URLParam(r, "id"))

	date, err := queryDate(r, "date", engine.Today())
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}

	summary, err := h.Summaries.RefreshWeekly(r.Context(), traineeID, date)
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toWeeklySummaryDTO(summary))
}

func (h *Handler) GetMonthlyReport(w http.ResponseWriter, r *http.Request) {
	traineeID := engine.TraineeID(chi.URLParam(r, "id"))

	year, err := queryInt(r, "year")
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}
	month, err := queryInt(r, "month")
	if err != nil {
		h.badRequest(w, err.Error())
		return
	}
	if month < 1 || month > 12 {
		h.badRequest(w, "month must be 1-12")
		return
	}

	report, err := h.Summaries.RefreshMonthly(r.Context(), traineeID, year, time.Month(month))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toMonthlyReportDTO(report))
}

func (h *Handler) GetProgress(w http.ResponseWriter, r *http.Request) {
	p, err := h.Progress.Progress(r.Context(), engine.TraineeID(chi.URLParam(r, "id")))
	if err != nil {
		h.writeError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, toOJTProgressDTO(p))
}

func (h *Handler) ListProgress(w http.ResponseWriter, r *http.Request) {
	progress, err := h.Progress.ActiveProgress(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}
	dtos := make([]OJTProgressDTO, len(progress))
	for i, p := range progress {
		dtos[i] = toOJTProgressDTO(p)
	}
	h.writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// HELPERS
// =============================================================================

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.Logger.WithError(err).Error("failed to encode response")
	}
}

func (h *Handler) badRequest(w http.ResponseWriter, msg string) {
	h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: msg})
}

// writeError maps domain errors to HTTP responses. Rule violations carry
// the full violated set so a form can show every problem at once.
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	var vs engine.Violations
	switch {
	case errors.As(err, &vs):
		h.writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Error:      "validation failed",
			Violations: toViolationDTOs(vs),
		})
	case engine.IsNotFound(err):
		h.writeJSON(w, http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, engine.ErrDuplicateRecord):
		h.writeJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error()})
	case engine.IsClientError(err):
		h.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		h.Logger.WithError(err).Error("internal error")
		h.writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func queryDate(r *http.Request, key string, fallback engine.Date) (engine.Date, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return fallback, nil
	}
	return engine.ParseDate(s)
}

func queryInt(r *http.Request, key string) (int, error) {
	s := r.URL.Query().Get(key)
	if s == "" {
		return 0, fmt.Errorf("missing query parameter %q", key)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %q: %v", key, err)
	}
	return n, nil
}

func parseDecimalPtr(field string, s *string) (*decimal.Decimal, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*s)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", field, *s)
	}
	return &d, nil
}

func parseClockPtr(s *string) (*engine.ClockTime, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	c, err := engine.ParseClock(*s)
	if err != nil {
		return nil, err
	}
	return &c, nil
}
