package main

import (
	"callops-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

// registerRoutes wires HTTP routes to handlers.
// Keep this file free of business logic. Handlers should delegate to internal modules.
func registerRoutes(r *gin.Engine, h httpapi.Handlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/v1")
	{
		v1.GET("/state", h.GetState)

		// CALLS routes
		calls := v1.Group("/calls")
		{
			calls.POST("", h.ScheduleCall)
			calls.PUT("/active", h.SetActiveCall)
			calls.PATCH("/:call_id/status", h.UpdateCallStatus)
			calls.POST("/:call_id/outcome", h.LogCallOutcome)
			calls.PUT("/:call_id/script", h.AssignScriptToCall)
		}

		// SCRIPTS routes
		scripts := v1.Group("/scripts")
		{
			scripts.POST("", h.AddScript)
			scripts.POST("/:script_id/segments", h.AddScriptSegment)
			scripts.PUT("/:script_id/segments/:segment_id", h.UpdateScriptSegment)
		}

		// WORKFLOWS routes
		workflows := v1.Group("/workflows")
		{
			workflows.POST("", h.AddWorkflow)
			workflows.PATCH("/:workflow_id/active", h.ToggleWorkflow)
			workflows.POST("/:workflow_id/steps", h.AddWorkflowStep)
		}

		v1.POST("/customers", h.AddCustomer)
		v1.POST("/notes", h.AddNote)

		// METRICS & INSIGHTS routes
		v1.GET("/metrics", h.GetMetrics)
		v1.POST("/metrics/refresh", h.RefreshMetrics)
		insightsGroup := v1.Group("/insights")
		{
			insightsGroup.GET("/scorecards", h.GetScorecards)
			insightsGroup.GET("/summary", h.GetCallsSummary)
			insightsGroup.GET("/follow-ups", h.GetFollowUps)
			insightsGroup.GET("/notes", h.GetRecentNotes)
		}

		v1.GET("/journal", h.GetJournal)
		v1.GET("/export/workbook", h.ExportWorkbook)
	}
}
