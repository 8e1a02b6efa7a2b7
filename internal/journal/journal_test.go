package journal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestAppend_AssignsIDAndTimestamp(t *testing.T) {
	repo := NewMemoryRepo()
	svc := NewService(repo)
	now := time.Unix(1700000000, 0).UTC()
	svc.clock = func() time.Time { return now }

	if err := svc.Append(context.Background(), Entry{Op: OpAddCustomer, CustomerID: "cust", Detail: "added Priya"}); err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	entries, err := svc.Recent(context.Background(), 0)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].ID == "" {
		t.Fatalf("expected assigned id")
	}
	if !entries[0].CreatedAt.Equal(now) {
		t.Fatalf("expected clock timestamp, got %v", entries[0].CreatedAt)
	}
}

func TestAppend_RejectsMissingOp(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if err := svc.Append(context.Background(), Entry{Detail: "no op"}); !errors.Is(err, ErrInvalidEntry) {
		t.Fatalf("expected ErrInvalidEntry, got %v", err)
	}
}

func TestRecent_NewestFirstWithLimit(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ops := []Op{OpScheduleCall, OpUpdateCallStatus, OpLogOutcome}
	for _, op := range ops {
		if err := svc.Append(context.Background(), Entry{Op: op}); err != nil {
			t.Fatalf("unexpected err: %v", err)
		}
	}

	entries, err := svc.Recent(context.Background(), 2)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].Op != OpLogOutcome || entries[1].Op != OpUpdateCallStatus {
		t.Fatalf("expected newest first, got %+v", entries)
	}
}
