package journal

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Entry is one append-only record of a store mutation, the "recent activity"
// feed behind the dashboard.
//
// Entries are never updated or deleted. Recording is best-effort: callers
// must not block a mutation on journal failures.

type Entry struct {
	ID string `json:"id"`

	// Op is the store operation that produced the entry.
	Op Op `json:"op"`

	// Target identifiers, filled depending on the operation.
	CallID     string `json:"call_id,omitempty"`
	CustomerID string `json:"customer_id,omitempty"`
	ScriptID   string `json:"script_id,omitempty"`
	WorkflowID string `json:"workflow_id,omitempty"`
	NoteID     string `json:"note_id,omitempty"`

	// Detail is a short human-readable description.
	Detail string `json:"detail,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

type Op string

const (
	OpScheduleCall     Op = "schedule_call"
	OpUpdateCallStatus Op = "update_call_status"
	OpLogOutcome       Op = "log_outcome"
	OpAssignScript     Op = "assign_script"
	OpAddScript        Op = "add_script"
	OpUpdateSegment    Op = "update_segment"
	OpAddSegment       Op = "add_segment"
	OpAddWorkflow      Op = "add_workflow"
	OpToggleWorkflow   Op = "toggle_workflow"
	OpAddWorkflowStep  Op = "add_workflow_step"
	OpAddCustomer      Op = "add_customer"
	OpAddNote          Op = "add_note"
)

// Repository is the persistence contract. Append-only: no update or delete
// methods exist.
type Repository interface {
	Append(ctx context.Context, e Entry) error
	Recent(ctx context.Context, limit int) ([]Entry, error)
}

var ErrInvalidEntry = errors.New("journal: invalid entry")

// Service records store activity.
type Service struct {
	repo  Repository
	clock func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, clock: time.Now}
}

func (s *Service) Append(ctx context.Context, e Entry) error {
	if s.repo == nil {
		return errors.New("journal: repository not configured")
	}
	if e.Op == "" {
		return ErrInvalidEntry
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.clock().UTC()
	}
	return s.repo.Append(ctx, e)
}

// Recent returns the newest entries, most recent first. limit <= 0 returns
// everything.
func (s *Service) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if s.repo == nil {
		return nil, errors.New("journal: repository not configured")
	}
	return s.repo.Recent(ctx, limit)
}
