/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

FORMATTING:
  Every duration crosses the wire twice: as raw seconds for clients that
  compute, and as a signed "HH:MM" display string for clients that only
  render. The engine itself never formats anything; formatting lives
  here at the boundary and nowhere else.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - worktime/service.go: Domain types these map from
*/
package api

import (
	"fmt"
	"time"

	"github.com/warp/worktime-engine/engine"
	"github.com/warp/worktime-engine/worktime"
)

// =============================================================================
// REQUEST/RESPONSE TYPES
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// StampDTO is the response to a stamp toggle.
type StampDTO struct {
	Status    string `json:"status"` // "in" or "out"
	Timestamp string `json:"timestamp"`
}

// StatusDTO reports whether the user is currently clocked in.
type StatusDTO struct {
	ClockedIn       bool   `json:"clocked_in"`
	Since           string `json:"since,omitempty"`
	DurationSeconds int    `json:"duration_seconds"`
	Duration        string `json:"duration"`
}

// SessionDTO is one IN/OUT pair within a day.
type SessionDTO struct {
	InID  int64  `json:"in_id"`
	OutID int64  `json:"out_id,omitempty"`
	Start string `json:"start"`
	End   string `json:"end,omitempty"`
	Open  bool   `json:"open"`
}

// DayDTO is the computed summary of a single civil day.
type DayDTO struct {
	Date             string       `json:"date"`
	WorkedSeconds    int          `json:"worked_seconds"`
	Worked           string       `json:"worked"`
	PauseSeconds     int          `json:"pause_seconds"`
	Pause            string       `json:"pause"`
	StatutorySeconds int          `json:"statutory_break_seconds"`
	OvertimeSeconds  int          `json:"overtime_seconds"`
	Overtime         string       `json:"overtime"`
	TargetSeconds    int          `json:"target_seconds"`
	FirstStamp       string       `json:"first_stamp,omitempty"`
	LastStamp        string       `json:"last_stamp,omitempty"`
	Open             bool         `json:"open"`
	DroppedEvents    int          `json:"dropped_events,omitempty"`
	Sessions         []SessionDTO `json:"sessions"`
}

// WeekDTO is the summary of one ISO week.
type WeekDTO struct {
	Year            int    `json:"year"`
	Week            int    `json:"week"`
	WorkedSeconds   int    `json:"worked_seconds"`
	Worked          string `json:"worked"`
	PauseSeconds    int    `json:"pause_seconds"`
	OvertimeSeconds int    `json:"overtime_seconds"`
	Overtime        string `json:"overtime"`
	TargetSeconds   int    `json:"target_seconds"`
}

// EstimateDTO is a predicted milestone time.
type EstimateDTO struct {
	Status string `json:"status"` // "pending", "met", "unreachable"
	At     string `json:"at,omitempty"`
}

// TimeInfoDTO is the live prediction response.
type TimeInfoDTO struct {
	Now              string      `json:"now"`
	InProgress       bool        `json:"in_progress"`
	WorkedSeconds    int         `json:"worked_seconds"`
	Worked           string      `json:"worked"`
	RemainingSeconds int         `json:"remaining_seconds"`
	Remaining        string      `json:"remaining"`
	SixHour          EstimateDTO `json:"six_hour"`
	NineHour         EstimateDTO `json:"nine_hour"`
	TenHour          EstimateDTO `json:"ten_hour"`
	Target           EstimateDTO `json:"target"`
}

// CreateSessionRequest adds a manual IN/OUT pair.
type CreateSessionRequest struct {
	Date  string `json:"date"`  // YYYY-MM-DD
	Start string `json:"start"` // HH:MM
	End   string `json:"end"`   // HH:MM, wraps to next day if <= start
}

// BookingDTO is a raw stored clock event.
type BookingDTO struct {
	ID        int64  `json:"id"`
	Timestamp string `json:"timestamp"`
	Action    string `json:"action"`
}

// AdjustmentDTO is a manual overtime correction.
type AdjustmentDTO struct {
	ID           int64  `json:"id"`
	EffectiveAt  string `json:"effective_at"`
	DeltaSeconds int    `json:"delta_seconds"`
	Delta        string `json:"delta"`
	Reason       string `json:"reason,omitempty"`
}

// CreateAdjustmentRequest books a correction onto a calendar day.
type CreateAdjustmentRequest struct {
	Date         string `json:"date"` // YYYY-MM-DD
	DeltaSeconds int    `json:"delta_seconds"`
	Reason       string `json:"reason"`
}

// OvertimeDTO is the ledger balance response.
type OvertimeDTO struct {
	BalanceSeconds int             `json:"balance_seconds"`
	Balance        string          `json:"balance"`
	FreeDays       string          `json:"free_days"`
	Adjustments    []AdjustmentDTO `json:"adjustments"`
}

// DailyStatDTO is one day in a statistics range.
type DailyStatDTO struct {
	Date            string `json:"date"`
	HasEvents       bool   `json:"has_events"`
	WorkedSeconds   int    `json:"worked_seconds"`
	PauseSeconds    int    `json:"pause_seconds"`
	OvertimeSeconds int    `json:"overtime_seconds"`
}

// TrendPointDTO is the running balance at the end of one day.
type TrendPointDTO struct {
	Date           string `json:"date"`
	BalanceSeconds int    `json:"balance_seconds"`
	Balance        string `json:"balance"`
}

// StatisticsDTO is the range aggregation response.
type StatisticsDTO struct {
	Daily  []DailyStatDTO  `json:"daily"`
	Weekly []WeekDTO       `json:"weekly"`
	Trend  []TrendPointDTO `json:"trend"`
}

// ConfigDTO mirrors the stored work configuration.
type ConfigDTO struct {
	TargetWorkSeconds int    `json:"target_work_seconds"`
	WorkStart         string `json:"work_start"`
	WorkEnd           string `json:"work_end"`
	ShortBreakLogic   bool   `json:"short_break_logic"`
	ExtendedPause     bool   `json:"extended_pause"`
	TimeOffsetSeconds int    `json:"time_offset_seconds"`
}

// =============================================================================
// FORMATTING HELPERS
// =============================================================================

// formatSigned renders seconds as a signed HH:MM string ("-01:18", "07:48").
// Seconds are truncated, not rounded; the raw value rides alongside.
func formatSigned(seconds int) string {
	sign := ""
	if seconds < 0 {
		sign = "-"
		seconds = -seconds
	}
	return fmt.Sprintf("%s%02d:%02d", sign, seconds/3600, (seconds%3600)/60)
}

func formatClock(t time.Time) string {
	return t.Format("15:04")
}

func formatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func toEstimateDTO(e engine.MilestoneEstimate) EstimateDTO {
	dto := EstimateDTO{Status: string(e.Status)}
	if !e.At.IsZero() {
		dto.At = formatClock(e.At)
	}
	return dto
}

func toSessionDTOs(pairs []worktime.SessionPair) []SessionDTO {
	dtos := make([]SessionDTO, len(pairs))
	for i, p := range pairs {
		dto := SessionDTO{
			InID:  p.InID,
			Start: p.Start.Format(time.RFC3339),
			Open:  p.OutID == 0,
		}
		if p.OutID != 0 {
			dto.OutID = p.OutID
			dto.End = p.End.Format(time.RFC3339)
		}
		dtos[i] = dto
	}
	return dtos
}

func toAdjustmentDTOs(adjustments []worktime.StoredAdjustment) []AdjustmentDTO {
	dtos := make([]AdjustmentDTO, len(adjustments))
	for i, adj := range adjustments {
		dtos[i] = AdjustmentDTO{
			ID:           adj.ID,
			EffectiveAt:  formatDate(adj.EffectiveAt),
			DeltaSeconds: adj.DeltaSeconds,
			Delta:        formatSigned(adj.DeltaSeconds),
			Reason:       adj.Reason,
		}
	}
	return dtos
}
