package insights

import (
	"testing"
	"time"

	"callops-platform/internal/callops"
)

// fixedProvider serves a canned snapshot.
type fixedProvider struct {
	state callops.State
}

func (p fixedProvider) Snapshot() callops.State { return p.state }

func testState(now time.Time) callops.State {
	return callops.State{
		Calls: []callops.CallRecord{
			{ID: "c1", CustomerID: "cust1", Status: callops.CallStatusCompleted, Channel: callops.ChannelPhone, Priority: callops.PriorityHigh, DurationMinutes: 30, FollowUpDate: now.Add(48 * time.Hour), Objective: "demo", NextStep: "send recap"},
			{ID: "c2", CustomerID: "cust1", Status: callops.CallStatusCompleted, Channel: callops.ChannelVideo, Priority: callops.PriorityMedium, DurationMinutes: 20},
			{ID: "c3", CustomerID: "cust2", Status: callops.CallStatusScheduled, Channel: callops.ChannelPhone, Priority: callops.PriorityHigh, FollowUpDate: now.Add(24 * time.Hour), Objective: "pricing"},
			{ID: "c4", CustomerID: "cust2", Status: callops.CallStatusNoShow, Channel: callops.ChannelVoIP, Priority: callops.PriorityLow},
		},
		Customers: []callops.CustomerProfile{
			{ID: "cust1", Name: "Priya Desai", AccountValue: 18000},
			{ID: "cust2", Name: "Marcus Lee", AccountValue: 8400},
		},
		Notes: []callops.TimelineNote{
			{ID: "n2", CustomerID: "cust2", CreatedAt: now, Category: callops.NoteCategoryDeal, Content: "newest"},
			{ID: "n1", CustomerID: "cust1", CreatedAt: now.Add(-time.Hour), Category: callops.NoteCategoryInsight, Content: "older"},
		},
		Metrics: callops.Metrics{ConversionRate: 0.5, MeetingsBooked: 10, AvgHandleTime: 24, PipelineValue: 26400},
	}
}

func TestSummary_AggregatesByStatusChannelPriority(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	svc := NewService(fixedProvider{state: testState(now)})

	out := svc.Summary()
	if out.TotalCalls != 4 {
		t.Fatalf("expected 4 calls, got %d", out.TotalCalls)
	}
	if out.CompletedCalls != 2 || out.ScheduledCalls != 1 || out.NoShowCalls != 1 {
		t.Fatalf("unexpected status counts: %+v", out)
	}
	if out.ByChannel[callops.ChannelPhone] != 2 || out.ByPriority[callops.PriorityHigh] != 2 {
		t.Fatalf("unexpected channel/priority counts: %+v", out)
	}
	if out.TotalDurationMinutes != 50 || out.AverageDurationMinutes != 25 {
		t.Fatalf("unexpected durations: %+v", out)
	}
}

func TestUpcomingFollowUps_SortedSoonestFirst(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	svc := NewService(fixedProvider{state: testState(now)})

	out := svc.UpcomingFollowUps(0)
	if len(out) != 2 {
		t.Fatalf("expected 2 follow-ups, got %d", len(out))
	}
	if out[0].CallID != "c3" || out[1].CallID != "c1" {
		t.Fatalf("expected soonest first, got %q then %q", out[0].CallID, out[1].CallID)
	}
	if out[0].CustomerName != "Marcus Lee" {
		t.Fatalf("expected resolved customer name, got %q", out[0].CustomerName)
	}

	if limited := svc.UpcomingFollowUps(1); len(limited) != 1 || limited[0].CallID != "c3" {
		t.Fatalf("expected limit applied, got %+v", limited)
	}
}

func TestRecentNotes_LimitAndNameResolution(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	svc := NewService(fixedProvider{state: testState(now)})

	out := svc.RecentNotes(1)
	if len(out) != 1 {
		t.Fatalf("expected 1 note, got %d", len(out))
	}
	if out[0].Note.Content != "newest" || out[0].CustomerName != "Marcus Lee" {
		t.Fatalf("unexpected digest: %+v", out[0])
	}
}

func TestScorecards_ProgressRatios(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	svc := NewService(fixedProvider{state: testState(now)})

	cards := svc.Scorecards()
	if len(cards) != 4 {
		t.Fatalf("expected 4 scorecards, got %d", len(cards))
	}
	if cards[0].Value != "50%" {
		t.Fatalf("expected conversion 50%%, got %q", cards[0].Value)
	}
	if cards[1].Progress != 0.5 {
		t.Fatalf("expected meetings progress 0.5, got %v", cards[1].Progress)
	}
	if cards[2].Progress != 0.8 {
		t.Fatalf("expected handle-time progress 0.8, got %v", cards[2].Progress)
	}
	if cards[3].Value != "$26.4k" {
		t.Fatalf("expected pipeline $26.4k, got %q", cards[3].Value)
	}
}
