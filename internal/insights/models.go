package insights

import (
	"time"

	"callops-platform/internal/callops"
)

// Scorecard is one headline figure on the insights panel. Progress is a
// 0..1 fill ratio for rendering.
type Scorecard struct {
	Label    string  `json:"label"`
	Value    string  `json:"value"`
	Detail   string  `json:"detail"`
	Progress float64 `json:"progress"`
}

// CallsSummary aggregates the calls collection by status, channel and
// priority, with duration totals over completed calls.
type CallsSummary struct {
	TotalCalls     int `json:"total_calls"`
	ScheduledCalls int `json:"scheduled_calls"`
	InProgress     int `json:"in_progress_calls"`
	CompletedCalls int `json:"completed_calls"`
	NoShowCalls    int `json:"no_show_calls"`

	ByChannel  map[callops.Channel]int  `json:"by_channel"`
	ByPriority map[callops.Priority]int `json:"by_priority"`

	TotalDurationMinutes   int `json:"total_duration_minutes"`
	AverageDurationMinutes int `json:"average_duration_minutes"`
}

// FollowUp is a pending follow-up commitment on a logged call.
type FollowUp struct {
	CallID       string    `json:"call_id"`
	CustomerID   string    `json:"customer_id"`
	CustomerName string    `json:"customer_name,omitempty"`
	Objective    string    `json:"objective"`
	NextStep     string    `json:"next_step,omitempty"`
	DueAt        time.Time `json:"due_at"`
}

// NoteDigest is a timeline note with its customer reference resolved for
// display.
type NoteDigest struct {
	Note         callops.TimelineNote `json:"note"`
	CustomerName string               `json:"customer_name,omitempty"`
}
