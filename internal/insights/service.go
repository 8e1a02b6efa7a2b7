package insights

import (
	"fmt"
	"sort"

	"callops-platform/internal/callops"
)

// SnapshotProvider hands out read snapshots of the call operations state.
// *callops.Store satisfies it.
type SnapshotProvider interface {
	Snapshot() callops.State
}

// Service computes read-only projections for the insights panel. It holds no
// state of its own; every call reads a fresh snapshot.
type Service struct {
	provider SnapshotProvider
}

func NewService(provider SnapshotProvider) *Service {
	return &Service{provider: provider}
}

// Scorecards renders the four headline figures. The fill ratios mirror the
// dashboard targets: 20 meetings, 30 minute handle time, 90k pipeline.
func (s *Service) Scorecards() []Scorecard {
	st := s.provider.Snapshot()
	m := st.Metrics
	return []Scorecard{
		{
			Label:    "Conversion rate",
			Value:    fmt.Sprintf("%d%%", int(m.ConversionRate*100+0.5)),
			Detail:   "Completed calls vs meetings booked",
			Progress: clamp01(m.ConversionRate),
		},
		{
			Label:    "Meetings booked",
			Value:    fmt.Sprintf("%d", m.MeetingsBooked),
			Detail:   "Scheduled plus completed",
			Progress: clamp01(float64(m.MeetingsBooked) / 20),
		},
		{
			Label:    "Avg. handle time",
			Value:    fmt.Sprintf("%dm", m.AvgHandleTime),
			Detail:   "Minutes per completed call",
			Progress: clamp01(float64(m.AvgHandleTime) / 30),
		},
		{
			Label:    "Pipeline value",
			Value:    fmt.Sprintf("$%.1fk", m.PipelineValue/1000),
			Detail:   "Sum of account values",
			Progress: clamp01(m.PipelineValue / 90000),
		},
	}
}

// Summary aggregates the current calls collection.
func (s *Service) Summary() CallsSummary {
	st := s.provider.Snapshot()
	out := CallsSummary{
		ByChannel:  map[callops.Channel]int{},
		ByPriority: map[callops.Priority]int{},
	}
	for _, c := range st.Calls {
		out.TotalCalls++
		out.ByChannel[c.Channel]++
		out.ByPriority[c.Priority]++
		switch c.Status {
		case callops.CallStatusScheduled:
			out.ScheduledCalls++
		case callops.CallStatusInProgress:
			out.InProgress++
		case callops.CallStatusCompleted:
			out.CompletedCalls++
			out.TotalDurationMinutes += c.DurationMinutes
		case callops.CallStatusNoShow:
			out.NoShowCalls++
		}
	}
	if out.CompletedCalls > 0 {
		out.AverageDurationMinutes = out.TotalDurationMinutes / out.CompletedCalls
	}
	return out
}

// UpcomingFollowUps lists calls carrying a follow-up date, soonest first.
// limit <= 0 returns everything.
func (s *Service) UpcomingFollowUps(limit int) []FollowUp {
	st := s.provider.Snapshot()
	names := customerNames(st)

	var out []FollowUp
	for _, c := range st.Calls {
		if c.FollowUpDate.IsZero() {
			continue
		}
		out = append(out, FollowUp{
			CallID:       c.ID,
			CustomerID:   c.CustomerID,
			CustomerName: names[c.CustomerID],
			Objective:    c.Objective,
			NextStep:     c.NextStep,
			DueAt:        c.FollowUpDate,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DueAt.Before(out[j].DueAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// RecentNotes returns the newest notes with customer names resolved. The
// notes collection is already most-recent-first.
func (s *Service) RecentNotes(limit int) []NoteDigest {
	st := s.provider.Snapshot()
	names := customerNames(st)

	notes := st.Notes
	if limit > 0 && len(notes) > limit {
		notes = notes[:limit]
	}
	out := make([]NoteDigest, 0, len(notes))
	for _, n := range notes {
		out = append(out, NoteDigest{Note: n, CustomerName: names[n.CustomerID]})
	}
	return out
}

func customerNames(st callops.State) map[string]string {
	names := make(map[string]string, len(st.Customers))
	for _, c := range st.Customers {
		names[c.ID] = c.Name
	}
	return names
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
