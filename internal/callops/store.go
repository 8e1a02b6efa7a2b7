package callops

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when an operation targets an id that does not exist
// in its collection. No state changes on a not-found result.
var ErrNotFound = errors.New("callops: not found")

// ownerRoster is the fixed set of display names notes get assigned to.
var ownerRoster = []string{"Avery", "Jordan", "Noah", "Riley"}

// Store is the single source of truth for call operations state. All mutation
// goes through its methods; presentation surfaces read snapshots and dispatch
// intents. Mutations are serialized through the internal lock, and every
// mutation that touches conversion-relevant fields recomputes Metrics before
// returning.
//
// The store performs no field validation (that belongs to the calling
// surface) and no reference-existence checks on CustomerID/ScriptID/
// WorkflowID: those references may dangle.
type Store struct {
	mu    sync.Mutex
	state State

	// clock, measure and pickOwner are injectable for deterministic tests.
	clock     func() time.Time
	measure   MeasurementSource
	pickOwner func() string

	// onChange receives a snapshot copy after every mutation. It must not
	// call back into the store.
	onChange func(State)
}

func NewStore() *Store {
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	return &Store{
		clock:   time.Now,
		measure: randomMeasurements{rng: rng},
		pickOwner: func() string {
			return ownerRoster[rng.Intn(len(ownerRoster))]
		},
	}
}

// SetOnChange registers the persistence mirror hook.
func (s *Store) SetOnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyState(s.state)
}

// Restore replaces the full state wholesale. Used on load; it does not
// recompute metrics so a persisted metrics snapshot survives a restart intact.
func (s *Store) Restore(st State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = copyState(st)
}

// ScheduleCallRequest carries everything but the id and status, which the
// store assigns.
type ScheduleCallRequest struct {
	CustomerID  string    `json:"customer_id"`
	ScriptID    string    `json:"script_id,omitempty"`
	WorkflowID  string    `json:"workflow_id,omitempty"`
	ScheduledAt time.Time `json:"scheduled_at"`
	Objective   string    `json:"objective"`
	Channel     Channel   `json:"channel"`
	Priority    Priority  `json:"priority"`
	NextStep    string    `json:"next_step,omitempty"`
}

// ScheduleCall inserts a new scheduled call and re-sorts the collection
// ascending by scheduled time. CustomerID is not checked for existence.
func (s *Store) ScheduleCall(req ScheduleCallRequest) CallRecord {
	s.mu.Lock()
	call := CallRecord{
		ID:          uuid.NewString(),
		CustomerID:  req.CustomerID,
		ScriptID:    req.ScriptID,
		WorkflowID:  req.WorkflowID,
		ScheduledAt: req.ScheduledAt,
		Status:      CallStatusScheduled,
		Objective:   req.Objective,
		Channel:     req.Channel,
		Priority:    req.Priority,
		NextStep:    req.NextStep,
	}
	s.state.Calls = append(s.state.Calls, call)
	sort.SliceStable(s.state.Calls, func(i, j int) bool {
		return s.state.Calls[i].ScheduledAt.Before(s.state.Calls[j].ScheduledAt)
	})
	s.refreshMetricsLocked()
	out, changed := call, s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out
}

// UpdateCallStatus sets the status of a call. The status machine is
// permissive: any status can be set from any other, and nothing is terminal.
// Transitioning into completed assigns a measured duration when none is set.
func (s *Store) UpdateCallStatus(callID string, status CallStatus) (CallRecord, error) {
	s.mu.Lock()
	idx := s.findCallLocked(callID)
	if idx < 0 {
		s.mu.Unlock()
		return CallRecord{}, ErrNotFound
	}
	call := &s.state.Calls[idx]
	call.Status = status
	if status == CallStatusCompleted && call.DurationMinutes == 0 {
		call.DurationMinutes = s.measure.CompletedDuration()
	}
	s.refreshMetricsLocked()
	out, changed := *call, s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out, nil
}

// SetActiveCall is a pure assignment: no validation, no metrics recompute.
// An empty id clears the pointer.
func (s *Store) SetActiveCall(callID string) {
	s.mu.Lock()
	s.state.ActiveCallID = callID
	changed := s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
}

// CallOutcome is the result of a finished conversation. Summary is required
// by the calling surface; the store stores whatever it is handed.
type CallOutcome struct {
	Summary      string    `json:"summary"`
	Sentiment    Sentiment `json:"sentiment,omitempty"`
	NextStep     string    `json:"next_step,omitempty"`
	FollowUpDate time.Time `json:"follow_up_date"`
}

// LogCallOutcome merges the outcome onto the call and head-inserts a deal
// note carrying the summary. The status is forced to completed only when a
// follow-up date is supplied; calls logged without one keep their prior
// status.
func (s *Store) LogCallOutcome(callID string, outcome CallOutcome) (CallRecord, error) {
	s.mu.Lock()
	idx := s.findCallLocked(callID)
	if idx < 0 {
		s.mu.Unlock()
		return CallRecord{}, ErrNotFound
	}
	call := &s.state.Calls[idx]
	if !outcome.FollowUpDate.IsZero() {
		call.Status = CallStatusCompleted
	}
	call.Outcome = outcome.Summary
	call.Sentiment = outcome.Sentiment
	call.NextStep = outcome.NextStep
	call.FollowUpDate = outcome.FollowUpDate

	noteSentiment := outcome.Sentiment
	if noteSentiment == "" {
		noteSentiment = SentimentNeutral
	}
	note := TimelineNote{
		ID:         uuid.NewString(),
		CallID:     callID,
		CustomerID: call.CustomerID,
		CreatedAt:  s.clock(),
		Category:   NoteCategoryDeal,
		Sentiment:  noteSentiment,
		Content:    outcome.Summary,
		Owner:      s.pickOwner(),
	}
	s.state.Notes = append([]TimelineNote{note}, s.state.Notes...)

	s.refreshMetricsLocked()
	out, changed := *call, s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out, nil
}

// AssignScriptToCall sets the script reference on a call. The script id is
// not checked for existence.
func (s *Store) AssignScriptToCall(callID, scriptID string) (CallRecord, error) {
	s.mu.Lock()
	idx := s.findCallLocked(callID)
	if idx < 0 {
		s.mu.Unlock()
		return CallRecord{}, ErrNotFound
	}
	s.state.Calls[idx].ScriptID = scriptID
	out, changed := s.state.Calls[idx], s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out, nil
}

type SegmentDraft struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Cues    []string `json:"cues,omitempty"`
}

type ScriptRequest struct {
	Title     string         `json:"title"`
	Persona   string         `json:"persona"`
	Objective string         `json:"objective"`
	Tags      []string       `json:"tags"`
	Segments  []SegmentDraft `json:"segments"`
}

// AddScript head-inserts a new script. Segment ids are store-assigned.
func (s *Store) AddScript(req ScriptRequest) CallScript {
	s.mu.Lock()
	script := CallScript{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Persona:     req.Persona,
		Objective:   req.Objective,
		Tags:        req.Tags,
		LastUpdated: s.clock(),
	}
	for _, d := range req.Segments {
		script.Segments = append(script.Segments, ScriptSegment{
			ID:      uuid.NewString(),
			Title:   d.Title,
			Content: d.Content,
			Cues:    d.Cues,
		})
	}
	s.state.Scripts = append([]CallScript{script}, s.state.Scripts...)
	out, changed := copyScript(script), s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out
}

// UpdateScriptSegment replaces the segment whose id matches within the
// script's segment list and refreshes the script's LastUpdated.
func (s *Store) UpdateScriptSegment(scriptID string, segment ScriptSegment) (CallScript, error) {
	s.mu.Lock()
	sIdx := s.findScriptLocked(scriptID)
	if sIdx < 0 {
		s.mu.Unlock()
		return CallScript{}, ErrNotFound
	}
	script := &s.state.Scripts[sIdx]
	segIdx := -1
	for i := range script.Segments {
		if script.Segments[i].ID == segment.ID {
			segIdx = i
			break
		}
	}
	if segIdx < 0 {
		s.mu.Unlock()
		return CallScript{}, ErrNotFound
	}
	script.Segments[segIdx] = segment
	script.LastUpdated = s.clock()
	out, changed := copyScript(*script), s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out, nil
}

// AddScriptSegment appends a segment to the script and refreshes LastUpdated.
func (s *Store) AddScriptSegment(scriptID string, draft SegmentDraft) (CallScript, error) {
	s.mu.Lock()
	sIdx := s.findScriptLocked(scriptID)
	if sIdx < 0 {
		s.mu.Unlock()
		return CallScript{}, ErrNotFound
	}
	script := &s.state.Scripts[sIdx]
	script.Segments = append(script.Segments, ScriptSegment{
		ID:      uuid.NewString(),
		Title:   draft.Title,
		Content: draft.Content,
		Cues:    draft.Cues,
	})
	script.LastUpdated = s.clock()
	out, changed := copyScript(*script), s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out, nil
}

type StepDraft struct {
	Title        string        `json:"title"`
	Stage        WorkflowStage `json:"stage"`
	DelayMinutes int           `json:"delay_minutes"`
	Instructions string        `json:"instructions"`
	Automation   string        `json:"automation,omitempty"`
}

type WorkflowRequest struct {
	Name            string      `json:"name"`
	Goal            string      `json:"goal"`
	Persona         string      `json:"persona"`
	Trigger         string      `json:"trigger"`
	SuccessCriteria string      `json:"success_criteria"`
	Steps           []StepDraft `json:"steps"`
}

// AddWorkflow head-inserts a new workflow, active by default.
func (s *Store) AddWorkflow(req WorkflowRequest) Workflow {
	s.mu.Lock()
	wf := Workflow{
		ID:              uuid.NewString(),
		Name:            req.Name,
		Goal:            req.Goal,
		Persona:         req.Persona,
		Trigger:         req.Trigger,
		SuccessCriteria: req.SuccessCriteria,
		Active:          true,
	}
	for _, d := range req.Steps {
		wf.Steps = append(wf.Steps, WorkflowStep{
			ID:           uuid.NewString(),
			Title:        d.Title,
			Stage:        d.Stage,
			DelayMinutes: d.DelayMinutes,
			Instructions: d.Instructions,
			Automation:   d.Automation,
		})
	}
	s.state.Workflows = append([]Workflow{wf}, s.state.Workflows...)
	out, changed := copyWorkflow(wf), s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out
}

// ToggleWorkflow sets the active flag directly.
func (s *Store) ToggleWorkflow(workflowID string, active bool) (Workflow, error) {
	s.mu.Lock()
	idx := s.findWorkflowLocked(workflowID)
	if idx < 0 {
		s.mu.Unlock()
		return Workflow{}, ErrNotFound
	}
	s.state.Workflows[idx].Active = active
	out, changed := copyWorkflow(s.state.Workflows[idx]), s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out, nil
}

// AddWorkflowStep appends to the workflow's ordered step list. Steps append
// rather than head-insert: order reflects execution sequence.
func (s *Store) AddWorkflowStep(workflowID string, draft StepDraft) (Workflow, error) {
	s.mu.Lock()
	idx := s.findWorkflowLocked(workflowID)
	if idx < 0 {
		s.mu.Unlock()
		return Workflow{}, ErrNotFound
	}
	wf := &s.state.Workflows[idx]
	wf.Steps = append(wf.Steps, WorkflowStep{
		ID:           uuid.NewString(),
		Title:        draft.Title,
		Stage:        draft.Stage,
		DelayMinutes: draft.DelayMinutes,
		Instructions: draft.Instructions,
		Automation:   draft.Automation,
	})
	out, changed := copyWorkflow(*wf), s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out, nil
}

type CustomerRequest struct {
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

// AddCustomer head-inserts a new customer profile. Metrics are not recomputed
// here; pipeline value refreshes on the next metrics-affecting mutation or an
// explicit RefreshMetrics.
func (s *Store) AddCustomer(req CustomerRequest) CustomerProfile {
	s.mu.Lock()
	customer := CustomerProfile{
		ID:           uuid.NewString(),
		Name:         req.Name,
		Company:      req.Company,
		Role:         req.Role,
		Timezone:     req.Timezone,
		Phone:        req.Phone,
		Email:        req.Email,
		Tags:         req.Tags,
		Notes:        req.Notes,
		AccountValue: req.AccountValue,
	}
	s.state.Customers = append([]CustomerProfile{customer}, s.state.Customers...)
	out, changed := customer, s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out
}

type NoteRequest struct {
	CallID     string       `json:"call_id,omitempty"`
	CustomerID string       `json:"customer_id,omitempty"`
	Category   NoteCategory `json:"category"`
	Sentiment  Sentiment    `json:"sentiment"`
	Content    string       `json:"content"`
	Owner      string       `json:"owner"`
}

// AddNote head-inserts a timeline note stamped with the current time.
func (s *Store) AddNote(req NoteRequest) TimelineNote {
	s.mu.Lock()
	note := TimelineNote{
		ID:         uuid.NewString(),
		CallID:     req.CallID,
		CustomerID: req.CustomerID,
		CreatedAt:  s.clock(),
		Category:   req.Category,
		Sentiment:  req.Sentiment,
		Content:    req.Content,
		Owner:      req.Owner,
	}
	s.state.Notes = append([]TimelineNote{note}, s.state.Notes...)
	out, changed := note, s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out
}

// RefreshMetrics recomputes the derived snapshot from the current collections
// and returns it.
func (s *Store) RefreshMetrics() Metrics {
	s.mu.Lock()
	s.refreshMetricsLocked()
	out, changed := s.state.Metrics, s.snapshotLocked()
	s.mu.Unlock()
	s.publish(changed)
	return out
}

func (s *Store) findCallLocked(id string) int {
	for i := range s.state.Calls {
		if s.state.Calls[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findScriptLocked(id string) int {
	for i := range s.state.Scripts {
		if s.state.Scripts[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) findWorkflowLocked(id string) int {
	for i := range s.state.Workflows {
		if s.state.Workflows[i].ID == id {
			return i
		}
	}
	return -1
}

// snapshotLocked captures the post-mutation state for the onChange hook.
// The copy is skipped when no hook is registered.
func (s *Store) snapshotLocked() changed {
	if s.onChange == nil {
		return changed{}
	}
	return changed{fn: s.onChange, state: copyState(s.state)}
}

type changed struct {
	fn    func(State)
	state State
}

func (s *Store) publish(c changed) {
	if c.fn != nil {
		c.fn(c.state)
	}
}

func copyState(st State) State {
	out := st
	out.Calls = append([]CallRecord(nil), st.Calls...)
	out.Customers = make([]CustomerProfile, len(st.Customers))
	for i, c := range st.Customers {
		out.Customers[i] = c
		out.Customers[i].Tags = append([]string(nil), c.Tags...)
	}
	out.Scripts = make([]CallScript, len(st.Scripts))
	for i, sc := range st.Scripts {
		out.Scripts[i] = copyScript(sc)
	}
	out.Workflows = make([]Workflow, len(st.Workflows))
	for i, wf := range st.Workflows {
		out.Workflows[i] = copyWorkflow(wf)
	}
	out.Notes = append([]TimelineNote(nil), st.Notes...)
	return out
}

func copyScript(sc CallScript) CallScript {
	out := sc
	out.Tags = append([]string(nil), sc.Tags...)
	out.Segments = make([]ScriptSegment, len(sc.Segments))
	for i, seg := range sc.Segments {
		out.Segments[i] = seg
		out.Segments[i].Cues = append([]string(nil), seg.Cues...)
	}
	return out
}

func copyWorkflow(wf Workflow) Workflow {
	out := wf
	out.Steps = append([]WorkflowStep(nil), wf.Steps...)
	return out
}
