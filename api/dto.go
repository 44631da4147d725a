/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

ENCODING:
  Decimal quantities (hours, rates, pay) travel as strings so no client
  ever receives a float-rounded pay figure. Dates are "YYYY-MM-DD", clock
  times "HH:MM"; the raw-string parsing into typed values happens in
  handlers, which is the validation front-end the engine expects.

SEE ALSO:
  - handlers.go: Parses requests and builds responses from these types
*/
package api

import (
	"github.com/warp/trainee-engine/engine"
)

// =============================================================================
// TRAINEES
// =============================================================================

// TraineeDTO represents a trainee in API responses.
type TraineeDTO struct {
	ID                 string  `json:"id"`
	Name               string  `json:"name"`
	TraineeType        string  `json:"trainee_type"`
	HourlyRate         *string `json:"hourly_rate,omitempty"`
	MaxWeeklyHours     *string `json:"max_weekly_hours,omitempty"`
	TotalRequiredHours *string `json:"total_required_hours,omitempty"`
	StartDate          string  `json:"start_date"`
	EndDate            *string `json:"end_date,omitempty"`
	Status             string  `json:"status"`
}

// SaveTraineeRequest creates or updates a trainee. Empty ID on create.
type SaveTraineeRequest struct {
	ID                 string  `json:"id,omitempty"`
	Name               string  `json:"name"`
	TraineeType        string  `json:"trainee_type"`
	HourlyRate         *string `json:"hourly_rate,omitempty"`
	MaxWeeklyHours     *string `json:"max_weekly_hours,omitempty"`
	TotalRequiredHours *string `json:"total_required_hours,omitempty"`
	StartDate          string  `json:"start_date"`
	EndDate            *string `json:"end_date,omitempty"`
	Status             string  `json:"status,omitempty"`
}

func toTraineeDTO(t engine.Trainee) TraineeDTO {
	dto := TraineeDTO{
		ID:          string(t.ID),
		Name:        t.Name,
		TraineeType: string(t.Type),
		StartDate:   t.StartDate.String(),
		Status:      string(t.Status),
	}
	if t.HourlyRate != nil {
		s := t.HourlyRate.String()
		dto.HourlyRate = &s
	}
	if t.MaxWeeklyHours != nil {
		s := t.MaxWeeklyHours.String()
		dto.MaxWeeklyHours = &s
	}
	if t.TotalRequiredHours != nil {
		s := t.TotalRequiredHours.String()
		dto.TotalRequiredHours = &s
	}
	if t.EndDate != nil {
		s := t.EndDate.String()
		dto.EndDate = &s
	}
	return dto
}

// =============================================================================
// TIME RECORDS
// =============================================================================

// TimeRecordDTO represents one day's attendance in API responses,
// including the derived hour fields.
type TimeRecordDTO struct {
	ID         string  `json:"id"`
	TraineeID  string  `json:"trainee_id"`
	Date       string  `json:"date"`
	AMTimeIn   *string `json:"am_time_in,omitempty"`
	AMTimeOut  *string `json:"am_time_out,omitempty"`
	PMTimeIn   *string `json:"pm_time_in,omitempty"`
	PMTimeOut  *string `json:"pm_time_out,omitempty"`
	AMHours    string  `json:"am_hours"`
	PMHours    string  `json:"pm_hours"`
	TotalHours string  `json:"total_hours"`
	Status     string  `json:"status"`
	Notes      string  `json:"notes,omitempty"`
}

// SubmitRecordRequest is a candidate record as entered by the trainee.
// Hour fields are absent: they are derived, never client-settable.
type SubmitRecordRequest struct {
	Date      string  `json:"date"`
	AMTimeIn  *string `json:"am_time_in,omitempty"`
	AMTimeOut *string `json:"am_time_out,omitempty"`
	PMTimeIn  *string `json:"pm_time_in,omitempty"`
	PMTimeOut *string `json:"pm_time_out,omitempty"`
	Status    string  `json:"status"`
	Notes     string  `json:"notes,omitempty"`
}

func toTimeRecordDTO(rec engine.TimeRecord) TimeRecordDTO {
	dto := TimeRecordDTO{
		ID:         string(rec.ID),
		TraineeID:  string(rec.TraineeID),
		Date:       rec.Date.String(),
		AMHours:    rec.AMHours.StringFixed(2),
		PMHours:    rec.PMHours.StringFixed(2),
		TotalHours: rec.TotalHours.StringFixed(2),
		Status:     string(rec.Status),
		Notes:      rec.Notes,
	}
	dto.AMTimeIn = clockString(rec.AMTimeIn)
	dto.AMTimeOut = clockString(rec.AMTimeOut)
	dto.PMTimeIn = clockString(rec.PMTimeIn)
	dto.PMTimeOut = clockString(rec.PMTimeOut)
	return dto
}

func clockString(c *engine.ClockTime) *string {
	if c == nil {
		return nil
	}
	s := c.String()
	return &s
}

// =============================================================================
// AGGREGATES
// =============================================================================

type WeeklySummaryDTO struct {
	TraineeID        string `json:"trainee_id"`
	WeekStart        string `json:"week_start_date"`
	WeekEnd          string `json:"week_end_date"`
	TotalHoursWorked string `json:"total_hours_worked"`
	BillableHours    string `json:"billable_hours"`
	GrossPay         string `json:"gross_pay"`
	DaysPresent      int    `json:"days_present"`
}

func toWeeklySummaryDTO(s engine.WeeklySummary) WeeklySummaryDTO {
	return WeeklySummaryDTO{
		TraineeID:        string(s.TraineeID),
		WeekStart:        s.WeekStart.String(),
		WeekEnd:          s.WeekEnd.String(),
		TotalHoursWorked: s.TotalHoursWorked.StringFixed(2),
		BillableHours:    s.BillableHours.StringFixed(2),
		GrossPay:         s.GrossPay.StringFixed(2),
		DaysPresent:      s.DaysPresent,
	}
}

type MonthlyReportDTO struct {
	TraineeID        string `json:"trainee_id"`
	Year             int    `json:"year"`
	Month            int    `json:"month"`
	TotalHoursWorked string `json:"total_hours_worked"`
	BillableHours    string `json:"billable_hours"`
	GrossPay         string `json:"gross_pay"`
	DaysPresent      int    `json:"days_present"`
	DaysAbsent       int    `json:"days_absent"`
}

func toMonthlyReportDTO(r engine.MonthlyReport) MonthlyReportDTO {
	return MonthlyReportDTO{
		TraineeID:        string(r.TraineeID),
		Year:             r.Year,
		Month:            r.Month,
		TotalHoursWorked: r.TotalHoursWorked.StringFixed(2),
		BillableHours:    r.BillableHours.StringFixed(2),
		GrossPay:         r.GrossPay.StringFixed(2),
		DaysPresent:      r.DaysPresent,
		DaysAbsent:       r.DaysAbsent,
	}
}

type OJTProgressDTO struct {
	TraineeID            string `json:"trainee_id"`
	TotalRequiredHours   string `json:"total_required_hours"`
	HoursRendered        string `json:"hours_rendered"`
	RemainingHours       string `json:"remaining_hours"`
	CompletionPercentage string `json:"completion_percentage"`
}

func toOJTProgressDTO(p engine.OJTProgress) OJTProgressDTO {
	return OJTProgressDTO{
		TraineeID:            string(p.TraineeID),
		TotalRequiredHours:   p.TotalRequiredHours.StringFixed(2),
		HoursRendered:        p.HoursRendered.StringFixed(2),
		RemainingHours:       p.RemainingHours.StringFixed(2),
		CompletionPercentage: p.CompletionPercentage.StringFixed(2),
	}
}

// =============================================================================
// ERRORS
// =============================================================================

// ViolationDTO is one violated business rule in an error response.
type ViolationDTO struct {
	Code    string `json:"code"`
	Session string `json:"session,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse carries an error message and, for validation failures,
// the full set of violated rules.
type ErrorResponse struct {
	Error      string         `json:"error"`
	Violations []ViolationDTO `json:"violations,omitempty"`
}

func toViolationDTOs(vs engine.Violations) []ViolationDTO {
	out := make([]ViolationDTO, len(vs))
	for i, v := range vs {
		out[i] = ViolationDTO{Code: string(v.Code), Session: string(v.Session), Message: v.Message}
	}
	return out
}
