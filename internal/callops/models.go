package callops

import "time"

// CallRecord tracks a scheduled or completed conversation with a customer.
//
// Reference invariants:
// - CustomerID/ScriptID/WorkflowID are non-owning references. They may dangle;
//   no cascading cleanup exists because deletion is not part of the contract.
// - ID is assigned at creation and never reassigned.

type CallRecord struct {
	ID         string `json:"id"`
	CustomerID string `json:"customer_id"`
	ScriptID   string `json:"script_id,omitempty"`
	WorkflowID string `json:"workflow_id,omitempty"`

	ScheduledAt time.Time  `json:"scheduled_at"`
	Status      CallStatus `json:"status"`
	Objective   string     `json:"objective"`
	Channel     Channel    `json:"channel"`
	Priority    Priority   `json:"priority"`

	// DurationMinutes is zero until a completion assigns it.
	DurationMinutes int `json:"duration_minutes,omitempty"`

	Outcome string `json:"outcome,omitempty"`
	// FollowUpDate is optional; the zero time means none was set.
	FollowUpDate time.Time `json:"follow_up_date"`
	Sentiment    Sentiment `json:"sentiment,omitempty"`
	NextStep     string    `json:"next_step,omitempty"`
}

type CallStatus string

const (
	CallStatusScheduled  CallStatus = "scheduled"
	CallStatusInProgress CallStatus = "in-progress"
	CallStatusCompleted  CallStatus = "completed"
	CallStatusNoShow     CallStatus = "no-show"
)

type Channel string

const (
	ChannelPhone Channel = "phone"
	ChannelVideo Channel = "video"
	ChannelVoIP  Channel = "voip"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// CustomerProfile is a tracked account. AccountValue feeds pipelineValue.

type CustomerProfile struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Company      string   `json:"company"`
	Role         string   `json:"role"`
	Timezone     string   `json:"timezone"`
	Phone        string   `json:"phone"`
	Email        string   `json:"email"`
	Tags         []string `json:"tags"`
	Notes        string   `json:"notes"`
	AccountValue float64  `json:"account_value"`
}

// CallScript is a reusable ordered set of talking-point segments for a persona.
// Segments are owned exclusively by their script; any segment mutation
// refreshes LastUpdated.

type CallScript struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Persona     string          `json:"persona"`
	Objective   string          `json:"objective"`
	Segments    []ScriptSegment `json:"segments"`
	LastUpdated time.Time       `json:"last_updated"`
	Tags        []string        `json:"tags"`
}

type ScriptSegment struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Cues    []string `json:"cues,omitempty"`
}

// Workflow is an ordered automation playbook. Step order reflects execution
// sequence, so steps append rather than head-insert.

type Workflow struct {
	ID              string         `json:"id"`
	Name            string         `json:"name"`
	Goal            string         `json:"goal"`
	Persona         string         `json:"persona"`
	Trigger         string         `json:"trigger"`
	Steps           []WorkflowStep `json:"steps"`
	SuccessCriteria string         `json:"success_criteria"`
	Active          bool           `json:"active"`
}

type WorkflowStep struct {
	ID           string        `json:"id"`
	Title        string        `json:"title"`
	Stage        WorkflowStage `json:"stage"`
	DelayMinutes int           `json:"delay_minutes"`
	Instructions string        `json:"instructions"`
	Automation   string        `json:"automation,omitempty"`
}

type WorkflowStage string

const (
	StageResearch WorkflowStage = "research"
	StageOutreach WorkflowStage = "outreach"
	StageCall     WorkflowStage = "call"
	StageFollowUp WorkflowStage = "follow-up"
	StageHandoff  WorkflowStage = "handoff"
)

// TimelineNote is a freeform timestamped annotation, optionally tied to a call
// and/or customer.

type TimelineNote struct {
	ID         string       `json:"id"`
	CallID     string       `json:"call_id,omitempty"`
	CustomerID string       `json:"customer_id,omitempty"`
	CreatedAt  time.Time    `json:"created_at"`
	Category   NoteCategory `json:"category"`
	Sentiment  Sentiment    `json:"sentiment"`
	Content    string       `json:"content"`
	Owner      string       `json:"owner"`
}

type NoteCategory string

const (
	NoteCategoryInsight   NoteCategory = "insight"
	NoteCategoryObjection NoteCategory = "objection"
	NoteCategoryDeal      NoteCategory = "deal"
	NoteCategoryTask      NoteCategory = "task"
)

// Metrics is the derived aggregate snapshot. It is always recomputed from
// {calls, customers}; callers never mutate it directly.

type Metrics struct {
	ConversionRate float64 `json:"conversion_rate"`
	WinRate        float64 `json:"win_rate"`
	MeetingsBooked int     `json:"meetings_booked"`
	AvgHandleTime  int     `json:"avg_handle_time"`
	PipelineValue  float64 `json:"pipeline_value"`
}

// State is the full store snapshot: the five collections, the derived metrics,
// and the active-call pointer. This is also the persisted layout.

type State struct {
	Calls        []CallRecord      `json:"calls"`
	Customers    []CustomerProfile `json:"customers"`
	Scripts      []CallScript      `json:"scripts"`
	Workflows    []Workflow        `json:"workflows"`
	Notes        []TimelineNote    `json:"notes"`
	Metrics      Metrics           `json:"metrics"`
	ActiveCallID string            `json:"active_call_id,omitempty"`
}
