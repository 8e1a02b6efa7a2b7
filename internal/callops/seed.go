package callops

import (
	"time"

	"github.com/google/uuid"
)

// DemoState builds the first-run fixture used when no snapshot exists: one
// customer, one scheduled and one completed call, one script with three
// segments, one workflow with three steps, one note, and a fixed initial
// metrics snapshot.
func DemoState(now time.Time) State {
	customerID := uuid.NewString()
	scriptID := uuid.NewString()
	workflowID := uuid.NewString()
	callID := uuid.NewString()

	return State{
		Calls: []CallRecord{
			{
				ID:              uuid.NewString(),
				CustomerID:      customerID,
				ScheduledAt:     now.Add(-3 * time.Hour),
				Status:          CallStatusCompleted,
				Objective:       "Discovery call - understand current lead routing process",
				Channel:         ChannelPhone,
				Priority:        PriorityMedium,
				DurationMinutes: 32,
				Outcome:         "Identified manual routing bottlenecks and interest in automation",
				FollowUpDate:    now.Add(24 * time.Hour),
				Sentiment:       SentimentPositive,
			},
			{
				ID:          callID,
				CustomerID:  customerID,
				ScriptID:    scriptID,
				WorkflowID:  workflowID,
				ScheduledAt: now.Add(45 * time.Minute),
				Status:      CallStatusScheduled,
				Objective:   "Demo the automation playbook and secure pilot commitment",
				Channel:     ChannelVideo,
				Priority:    PriorityHigh,
				NextStep:    "Send tailored ROI calculator post-call",
			},
		},
		Customers: []CustomerProfile{
			{
				ID:           customerID,
				Name:         "Priya Desai",
				Company:      "LaunchLayer",
				Role:         "Head of Operations",
				Timezone:     "GMT+5:30",
				Phone:        "+91 98765 43210",
				Email:        "priya@launchlayer.com",
				Tags:         []string{"High intent", "Product-led growth"},
				Notes:        "Looking for an agent to pre-qualify inbound demo requests",
				AccountValue: 18000,
			},
		},
		Scripts: []CallScript{
			{
				ID:          scriptID,
				Title:       "Productized Discovery",
				Persona:     "Operations leadership",
				Objective:   "Uncover manual workflows that can be automated by the agent service",
				LastUpdated: now,
				Tags:        []string{"Discovery", "Automation"},
				Segments: []ScriptSegment{
					{
						ID:      uuid.NewString(),
						Title:   "Opening",
						Content: "Thanks for hopping on. I work with ops leaders to remove manual lead qualification so your team can focus on closing more revenue.",
					},
					{
						ID:      uuid.NewString(),
						Title:   "Problem surfacing",
						Content: "Walk me through what happens after a lead books time. Where do handoffs slow down, and what would a 10x faster response unlock?",
					},
					{
						ID:      uuid.NewString(),
						Title:   "Value Pitch",
						Content: "Our AI-driven agent handles scheduling, qualification, and call prep. Teams see 32% more meetings show up and a 21% lift in close rates.",
					},
				},
			},
		},
		Workflows: []Workflow{
			{
				ID:              workflowID,
				Name:            "Inbound Demo Shield",
				Goal:            "Increase speed-to-lead and qualify inbound demo requests",
				Persona:         "Inbound leads",
				Trigger:         "New Calendly booking",
				SuccessCriteria: "Pilot offer accepted within 14 days",
				Active:          true,
				Steps: []WorkflowStep{
					{
						ID:           uuid.NewString(),
						Title:        "Pre-call briefing",
						Stage:        StageResearch,
						DelayMinutes: 0,
						Instructions: "Compile LinkedIn, website headlines, and recent funding insights",
						Automation:   "Use Clay scrape + Crunchbase API",
					},
					{
						ID:           uuid.NewString(),
						Title:        "Agent-led discovery call",
						Stage:        StageCall,
						DelayMinutes: 30,
						Instructions: "Follow Productized Discovery script and capture objections live",
					},
					{
						ID:           uuid.NewString(),
						Title:        "Next steps & follow-up",
						Stage:        StageFollowUp,
						DelayMinutes: 120,
						Instructions: "Send summary, clip highlight reel, propose pilot structure",
						Automation:   "Auto-send via Instantly",
					},
				},
			},
		},
		Notes: []TimelineNote{
			{
				ID:         uuid.NewString(),
				CallID:     callID,
				CustomerID: customerID,
				CreatedAt:  now,
				Category:   NoteCategoryInsight,
				Sentiment:  SentimentPositive,
				Owner:      ownerRoster[0],
				Content:    "Budget approved for rapid experimentation; critical to show ROI in 30 days.",
			},
		},
		Metrics: Metrics{
			ConversionRate: 0.36,
			WinRate:        0.28,
			MeetingsBooked: 14,
			AvgHandleTime:  24,
			PipelineValue:  74000,
		},
		ActiveCallID: callID,
	}
}
