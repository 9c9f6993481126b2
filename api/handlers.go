/*
handlers.go - HTTP API handlers for the work time tracker

PURPOSE:
  Exposes the work time engine via REST API. Handles HTTP
  request/response, JSON serialization, and delegates to domain logic.

ENDPOINTS:
  Clocking:
    POST   /api/stamp                  Toggle clock in/out
    GET    /api/status                 Current in/out state

  Summaries:
    GET    /api/day/{date}             Computed stats for one day
    GET    /api/week/{year}/{week}     ISO week totals
    GET    /api/timeinfo               Live end-of-day predictions

  Sessions:
    GET    /api/sessions               Recent raw bookings
    POST   /api/sessions               Manual IN/OUT pair
    DELETE /api/sessions/{id}          Remove one booking

  Overtime:
    GET    /api/overtime               Ledger balance + adjustments
    POST   /api/overtime/adjustments   Book a correction

  Statistics:
    GET    /api/statistics?from=&to=   Range aggregation

  Config:
    GET    /api/config                 Current work rules
    PUT    /api/config                 Replace work rules

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Tracker: Domain service (storage + engine)
  - User:    The tracked user; this is a single-user deployment, the
             name comes from server config

REQUEST FLOW:
  1. Parse HTTP request
  2. Validate input
  3. Call domain logic (tracker, engine)
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SEE ALSO:
  - dto.go: Request/response data structures
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/warp/worktime-engine/engine"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Tracker *worktime.Tracker
	User    string
}

// NewHandler creates a new handler serving the given user.
func NewHandler(tracker *worktime.Tracker, user string) *Handler {
	return &Handler{Tracker: tracker, User: user}
}

// =============================================================================
// CLOCKING HANDLERS
// =============================================================================

// Stamp toggles the clock: IN if the last event was OUT (or none), OUT
// otherwise.
func (h *Handler) Stamp(w http.ResponseWriter, r *http.Request) {
	res, err := h.Tracker.Stamp(r.Context(), h.User)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to stamp", err)
		return
	}

	writeJSON(w, http.StatusOK, StampDTO{
		Status:    string(res.Status),
		Timestamp: res.Timestamp.Format(time.RFC3339),
	})
}

// Status reports the current clock state.
func (h *Handler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.Tracker.CurrentStatus(r.Context(), h.User)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get status", err)
		return
	}

	dto := StatusDTO{
		ClockedIn:       status.ClockedIn,
		DurationSeconds: int(status.Duration.Seconds()),
		Duration:        formatSigned(int(status.Duration.Seconds())),
	}
	if status.ClockedIn {
		dto.Since = status.Since.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, dto)
}

// =============================================================================
// SUMMARY HANDLERS
// =============================================================================

// GetDay returns the computed stats for a single day.
func (h *Handler) GetDay(w http.ResponseWriter, r *http.Request) {
	date, err := time.Parse("2006-01-02", chi.URLParam(r, "date"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	summary, err := h.Tracker.Day(r.Context(), h.User, date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute day", err)
		return
	}

	writeJSON(w, http.StatusOK, toDayDTO(summary))
}

// GetWeek returns the totals for one ISO week.
func (h *Handler) GetWeek(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid year", err)
		return
	}
	week, err := strconv.Atoi(chi.URLParam(r, "week"))
	if err != nil || week < 1 || week > 53 {
		writeError(w, http.StatusBadRequest, "Invalid week (1-53)", err)
		return
	}

	summary, err := h.Tracker.Week(r.Context(), h.User, year, week)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute week", err)
		return
	}

	writeJSON(w, http.StatusOK, WeekDTO{
		Year:            summary.Year,
		Week:            summary.Week,
		WorkedSeconds:   summary.WorkedSeconds,
		Worked:          formatSigned(summary.WorkedSeconds),
		PauseSeconds:    summary.PauseSeconds,
		OvertimeSeconds: summary.OvertimeSeconds,
		Overtime:        formatSigned(summary.OvertimeSeconds),
		TargetSeconds:   summary.TargetSeconds,
	})
}

// TimeInfo returns the live predictions for the current day.
func (h *Handler) TimeInfo(w http.ResponseWriter, r *http.Request) {
	forecast, err := h.Tracker.Forecast(r.Context(), h.User)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute forecast", err)
		return
	}

	writeJSON(w, http.StatusOK, TimeInfoDTO{
		Now:              h.Tracker.NowLocal().Format(time.RFC3339),
		InProgress:       forecast.InProgress,
		WorkedSeconds:    forecast.CurrentNetSeconds,
		Worked:           formatSigned(forecast.CurrentNetSeconds),
		RemainingSeconds: forecast.RemainingSeconds,
		Remaining:        formatSigned(forecast.RemainingSeconds),
		SixHour:          toEstimateDTO(forecast.SixHour),
		NineHour:         toEstimateDTO(forecast.NineHour),
		TenHour:          toEstimateDTO(forecast.TenHour),
		Target:           toEstimateDTO(forecast.Target),
	})
}

// =============================================================================
// SESSION HANDLERS
// =============================================================================

// ListSessions returns recent raw bookings, newest first.
func (h *Handler) ListSessions(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "Invalid limit", err)
			return
		}
		limit = n
	}

	bookings, err := h.Tracker.ListBookings(r.Context(), h.User, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list bookings", err)
		return
	}

	dtos := make([]BookingDTO, len(bookings))
	for i, b := range bookings {
		dtos[i] = BookingDTO{
			ID:        b.ID,
			Timestamp: b.Timestamp.Format(time.RFC3339),
			Action:    string(b.Action),
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateSession adds a manual IN/OUT pair on the given date. An end at
// or before the start wraps into the next day (night shifts).
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	start, err := engine.ParseClockTime(req.Start)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid start time (use HH:MM)", err)
		return
	}
	end, err := engine.ParseClockTime(req.End)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid end time (use HH:MM)", err)
		return
	}

	if err := h.Tracker.CreateSession(r.Context(), h.User, date, start, end); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create session", err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"created": true})
}

// DeleteBooking removes a single stored clock event.
func (h *Handler) DeleteBooking(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid booking id", err)
		return
	}

	err = h.Tracker.DeleteBooking(r.Context(), h.User, id)
	if errors.Is(err, worktime.ErrBookingNotFound) {
		writeError(w, http.StatusNotFound, "Booking not found", nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete booking", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"deleted": true})
}

// =============================================================================
// OVERTIME HANDLERS
// =============================================================================

// GetOvertime returns the ledger balance with all adjustments.
func (h *Handler) GetOvertime(w http.ResponseWriter, r *http.Request) {
	report, err := h.Tracker.Overtime(r.Context(), h.User)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to compute overtime", err)
		return
	}

	writeJSON(w, http.StatusOK, OvertimeDTO{
		BalanceSeconds: report.BalanceSeconds,
		Balance:        formatSigned(report.BalanceSeconds),
		FreeDays:       report.FreeDays.StringFixed(2),
		Adjustments:    toAdjustmentDTOs(report.Adjustments),
	})
}

// CreateAdjustment books a manual correction. A second adjustment on the
// same calendar day supersedes the first.
func (h *Handler) CreateAdjustment(w http.ResponseWriter, r *http.Request) {
	var req CreateAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}
	if req.DeltaSeconds == 0 {
		writeError(w, http.StatusBadRequest, "delta_seconds must be non-zero", nil)
		return
	}

	adj, err := h.Tracker.Adjust(r.Context(), h.User, date, req.DeltaSeconds, req.Reason)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save adjustment", err)
		return
	}

	dtos := toAdjustmentDTOs([]worktime.StoredAdjustment{adj})
	writeJSON(w, http.StatusCreated, dtos[0])
}

// =============================================================================
// STATISTICS HANDLERS
// =============================================================================

// GetStatistics aggregates daily, weekly and trend series over a range.
func (h *Handler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid from date (use YYYY-MM-DD)", err)
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid to date (use YYYY-MM-DD)", err)
		return
	}
	if to.Before(from) {
		writeError(w, http.StatusBadRequest, "to must not precede from", nil)
		return
	}

	stats, err := h.Tracker.Statistics(r.Context(), h.User, from, to)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to aggregate statistics", err)
		return
	}

	writeJSON(w, http.StatusOK, toStatisticsDTO(stats))
}

// =============================================================================
// CONFIG HANDLERS
// =============================================================================

// GetConfig returns the effective work configuration.
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	user, err := h.Tracker.Store.GetOrCreateUser(r.Context(), h.User)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to resolve user", err)
		return
	}
	cfg, err := h.Tracker.ConfigFor(r.Context(), user.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load config", err)
		return
	}

	writeJSON(w, http.StatusOK, ConfigDTO{
		TargetWorkSeconds: cfg.TargetWorkSeconds,
		WorkStart:         cfg.WorkStart.String(),
		WorkEnd:           cfg.WorkEnd.String(),
		ShortBreakLogic:   cfg.ShortBreakLogic,
		ExtendedPause:     cfg.ExtendedPause,
		TimeOffsetSeconds: cfg.TimeOffsetSeconds,
	})
}

// PutConfig replaces the work configuration.
func (h *Handler) PutConfig(w http.ResponseWriter, r *http.Request) {
	var req ConfigDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.TargetWorkSeconds <= 0 {
		writeError(w, http.StatusBadRequest, "target_work_seconds must be positive", nil)
		return
	}

	record := worktime.ConfigRecord{
		TargetWorkSeconds: req.TargetWorkSeconds,
		WorkStart:         req.WorkStart,
		WorkEnd:           req.WorkEnd,
		ShortBreakLogic:   req.ShortBreakLogic,
		ExtendedPause:     req.ExtendedPause,
		TimeOffsetSeconds: req.TimeOffsetSeconds,
	}
	err := h.Tracker.SaveConfig(r.Context(), h.User, record)
	if errors.Is(err, engine.ErrInvalidWindow) {
		writeError(w, http.StatusBadRequest, "Work window end must be after start", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save config", err)
		return
	}
	writeJSON(w, http.StatusOK, req)
}

// =============================================================================
// DTO MAPPING
// =============================================================================

func toDayDTO(s worktime.DaySummary) DayDTO {
	dto := DayDTO{
		Date:             formatDate(s.Date),
		WorkedSeconds:    s.Stats.WorkedSeconds,
		Worked:           formatSigned(s.Stats.WorkedSeconds),
		PauseSeconds:     s.Stats.TotalPauseSeconds,
		Pause:            formatSigned(s.Stats.TotalPauseSeconds),
		StatutorySeconds: s.Stats.StatutoryBreakSeconds,
		OvertimeSeconds:  s.Stats.OvertimeSeconds,
		Overtime:         formatSigned(s.Stats.OvertimeSeconds),
		TargetSeconds:    s.Config.TargetWorkSeconds,
		Open:             s.Stats.Open,
		DroppedEvents:    s.Stats.DroppedEvents,
		Sessions:         toSessionDTOs(s.Sessions),
	}
	if !s.Stats.FirstStamp.IsZero() {
		dto.FirstStamp = s.Stats.FirstStamp.Format(time.RFC3339)
		dto.LastStamp = s.Stats.LastStamp.Format(time.RFC3339)
	}
	return dto
}

func toStatisticsDTO(stats engine.RangeStats) StatisticsDTO {
	dto := StatisticsDTO{
		Daily:  make([]DailyStatDTO, len(stats.Daily)),
		Weekly: make([]WeekDTO, len(stats.Weekly)),
		Trend:  make([]TrendPointDTO, len(stats.Trend)),
	}
	for i, d := range stats.Daily {
		dto.Daily[i] = DailyStatDTO{
			Date:            formatDate(d.Date),
			HasEvents:       d.HasEvents,
			WorkedSeconds:   d.Stats.WorkedSeconds,
			PauseSeconds:    d.Stats.TotalPauseSeconds,
			OvertimeSeconds: d.Stats.OvertimeSeconds,
		}
	}
	for i, wk := range stats.Weekly {
		dto.Weekly[i] = WeekDTO{
			Year:            wk.Year,
			Week:            wk.Week,
			WorkedSeconds:   wk.WorkedSeconds,
			Worked:          formatSigned(wk.WorkedSeconds),
			PauseSeconds:    wk.PauseSeconds,
			OvertimeSeconds: wk.OvertimeSeconds,
			Overtime:        formatSigned(wk.OvertimeSeconds),
			TargetSeconds:   wk.TargetSeconds,
		}
	}
	for i, p := range stats.Trend {
		dto.Trend[i] = TrendPointDTO{
			Date:           formatDate(p.Date),
			BalanceSeconds: p.BalanceSeconds,
			Balance:        formatSigned(p.BalanceSeconds),
		}
	}
	return dto
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
