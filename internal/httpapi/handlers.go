package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"callops-platform/internal/callops"
	"callops-platform/internal/export"
	"callops-platform/internal/insights"
	"callops-platform/internal/journal"
	"callops-platform/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Handlers groups HTTP handlers for dependency injection.
//
// Keep these thin: parse input, run the presence checks the store deliberately
// does not do, call the store, return JSON. Journal recording is best-effort
// and never fails a request.

type Handlers struct {
	Store    *callops.Store
	Insights *insights.Service
	Journal  *journal.Service
}

// --- State ---

func (h Handlers) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Snapshot())
}

// --- Calls ---

func (h Handlers) ScheduleCall(c *gin.Context) {
	var req callops.ScheduleCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.CustomerID == "" || req.Objective == "" || req.ScheduledAt.IsZero() || req.Channel == "" || req.Priority == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "customer_id, objective, scheduled_at, channel, priority required"})
		return
	}
	call := h.Store.ScheduleCall(req)
	h.record(c, journal.Entry{Op: journal.OpScheduleCall, CallID: call.ID, CustomerID: call.CustomerID, Detail: call.Objective})
	c.JSON(http.StatusCreated, call)
}

type updateStatusRequest struct {
	Status callops.CallStatus `json:"status"`
}

func (h Handlers) UpdateCallStatus(c *gin.Context) {
	callID := c.Param("call_id")
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Status == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "status required"})
		return
	}
	call, err := h.Store.UpdateCallStatus(callID, req.Status)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.record(c, journal.Entry{Op: journal.OpUpdateCallStatus, CallID: call.ID, Detail: string(req.Status)})
	c.JSON(http.StatusOK, call)
}

type logOutcomeRequest struct {
	Summary      string            `json:"summary"`
	Sentiment    callops.Sentiment `json:"sentiment,omitempty"`
	NextStep     string            `json:"next_step,omitempty"`
	FollowUpDate time.Time         `json:"follow_up_date"`
}

func (h Handlers) LogCallOutcome(c *gin.Context) {
	callID := c.Param("call_id")
	var req logOutcomeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Summary == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "summary required"})
		return
	}
	call, err := h.Store.LogCallOutcome(callID, callops.CallOutcome{
		Summary:      req.Summary,
		Sentiment:    req.Sentiment,
		NextStep:     req.NextStep,
		FollowUpDate: req.FollowUpDate,
	})
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.record(c, journal.Entry{Op: journal.OpLogOutcome, CallID: call.ID, CustomerID: call.CustomerID, Detail: req.Summary})
	c.JSON(http.StatusOK, call)
}

type assignScriptRequest struct {
	ScriptID string `json:"script_id"`
}

func (h Handlers) AssignScriptToCall(c *gin.Context) {
	callID := c.Param("call_id")
	var req assignScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.ScriptID == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "script_id required"})
		return
	}
	call, err := h.Store.AssignScriptToCall(callID, req.ScriptID)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.record(c, journal.Entry{Op: journal.OpAssignScript, CallID: call.ID, ScriptID: req.ScriptID})
	c.JSON(http.StatusOK, call)
}

type setActiveCallRequest struct {
	CallID string `json:"call_id"`
}

// SetActiveCall is a pure pointer assignment; an empty call_id clears it.
func (h Handlers) SetActiveCall(c *gin.Context) {
	var req setActiveCallRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	h.Store.SetActiveCall(req.CallID)
	c.JSON(http.StatusOK, gin.H{"active_call_id": req.CallID})
}

// --- Scripts ---

func (h Handlers) AddScript(c *gin.Context) {
	var req callops.ScriptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	script := h.Store.AddScript(req)
	h.record(c, journal.Entry{Op: journal.OpAddScript, ScriptID: script.ID, Detail: script.Title})
	c.JSON(http.StatusCreated, script)
}

func (h Handlers) AddScriptSegment(c *gin.Context) {
	scriptID := c.Param("script_id")
	var req callops.SegmentDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	script, err := h.Store.AddScriptSegment(scriptID, req)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.record(c, journal.Entry{Op: journal.OpAddSegment, ScriptID: scriptID, Detail: req.Title})
	c.JSON(http.StatusOK, script)
}

func (h Handlers) UpdateScriptSegment(c *gin.Context) {
	scriptID := c.Param("script_id")
	segmentID := c.Param("segment_id")
	var req callops.SegmentDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Title == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title required"})
		return
	}
	script, err := h.Store.UpdateScriptSegment(scriptID, callops.ScriptSegment{
		ID:      segmentID,
		Title:   req.Title,
		Content: req.Content,
		Cues:    req.Cues,
	})
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.record(c, journal.Entry{Op: journal.OpUpdateSegment, ScriptID: scriptID, Detail: req.Title})
	c.JSON(http.StatusOK, script)
}

// --- Workflows ---

func (h Handlers) AddWorkflow(c *gin.Context) {
	var req callops.WorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	wf := h.Store.AddWorkflow(req)
	h.record(c, journal.Entry{Op: journal.OpAddWorkflow, WorkflowID: wf.ID, Detail: wf.Name})
	c.JSON(http.StatusCreated, wf)
}

type toggleWorkflowRequest struct {
	Active *bool `json:"active"`
}

func (h Handlers) ToggleWorkflow(c *gin.Context) {
	workflowID := c.Param("workflow_id")
	var req toggleWorkflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Active == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "active required"})
		return
	}
	wf, err := h.Store.ToggleWorkflow(workflowID, *req.Active)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.record(c, journal.Entry{Op: journal.OpToggleWorkflow, WorkflowID: wf.ID, Detail: fmt.Sprintf("active=%t", *req.Active)})
	c.JSON(http.StatusOK, wf)
}

func (h Handlers) AddWorkflowStep(c *gin.Context) {
	workflowID := c.Param("workflow_id")
	var req callops.StepDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Title == "" || req.Stage == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "title, stage required"})
		return
	}
	if req.DelayMinutes < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "delay_minutes must be >= 0"})
		return
	}
	wf, err := h.Store.AddWorkflowStep(workflowID, req)
	if err != nil {
		h.storeError(c, err)
		return
	}
	h.record(c, journal.Entry{Op: journal.OpAddWorkflowStep, WorkflowID: wf.ID, Detail: req.Title})
	c.JSON(http.StatusOK, wf)
}

// --- Customers & notes ---

func (h Handlers) AddCustomer(c *gin.Context) {
	var req callops.CustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Name == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}
	if req.AccountValue < 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "account_value must be >= 0"})
		return
	}
	customer := h.Store.AddCustomer(req)
	h.record(c, journal.Entry{Op: journal.OpAddCustomer, CustomerID: customer.ID, Detail: customer.Name})
	c.JSON(http.StatusCreated, customer)
}

func (h Handlers) AddNote(c *gin.Context) {
	var req callops.NoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if req.Content == "" || req.Category == "" {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "content, category required"})
		return
	}
	note := h.Store.AddNote(req)
	h.record(c, journal.Entry{Op: journal.OpAddNote, NoteID: note.ID, CallID: note.CallID, CustomerID: note.CustomerID})
	c.JSON(http.StatusCreated, note)
}

// --- Metrics & insights ---

func (h Handlers) GetMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.Snapshot().Metrics)
}

func (h Handlers) RefreshMetrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.Store.RefreshMetrics())
}

func (h Handlers) GetScorecards(c *gin.Context) {
	c.JSON(http.StatusOK, h.Insights.Scorecards())
}

func (h Handlers) GetCallsSummary(c *gin.Context) {
	c.JSON(http.StatusOK, h.Insights.Summary())
}

func (h Handlers) GetFollowUps(c *gin.Context) {
	c.JSON(http.StatusOK, h.Insights.UpcomingFollowUps(queryLimit(c, 10)))
}

func (h Handlers) GetRecentNotes(c *gin.Context) {
	c.JSON(http.StatusOK, h.Insights.RecentNotes(queryLimit(c, 5)))
}

// --- Journal ---

func (h Handlers) GetJournal(c *gin.Context) {
	if h.Journal == nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "journal not configured"})
		return
	}
	entries, err := h.Journal.Recent(c.Request.Context(), queryLimit(c, 25))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "journal read failed"})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// --- Export ---

func (h Handlers) ExportWorkbook(c *gin.Context) {
	buf, err := export.Workbook(h.Store.Snapshot())
	if err != nil {
		logger.FromGin(c).Error("workbook export failed", "err", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="callops.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// --- helpers ---

func (h Handlers) storeError(c *gin.Context, err error) {
	if errors.Is(err, callops.ErrNotFound) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	logger.FromGin(c).Error("store operation failed", "err", err)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h Handlers) record(c *gin.Context, e journal.Entry) {
	if h.Journal == nil {
		return
	}
	if err := h.Journal.Append(c.Request.Context(), e); err != nil {
		logger.FromGin(c).Warn("journal append failed", "err", err)
	}
}

func queryLimit(c *gin.Context, fallback int) int {
	v := c.Query("limit")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return fallback
	}
	return n
}
