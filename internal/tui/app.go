package tui

import (
	"fmt"
	"strings"
	"time"

	"callops-platform/internal/callops"
	"callops-platform/internal/insights"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type tab int

const (
	tabCalls tab = iota
	tabScripts
	tabWorkflows
	tabInsights
)

var tabNames = []string{"Calls", "Scripts", "Workflows", "Insights"}

type tickMsg time.Time

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	activeStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
)

type model struct {
	store      *callops.Store
	insight    *insights.Service
	tab        tab
	width      int
	height     int
	statusLine string

	filterInput textinput.Model
	filtering   bool
	cursor      int
}

// Run starts the dashboard over an already-loaded store. Mutations go
// through the store directly, so the snapshot autosaver picks them up the
// same way the HTTP surface does.
func Run(store *callops.Store, insight *insights.Service) error {
	filterInput := textinput.New()
	filterInput.Prompt = "Filter: "
	filterInput.Placeholder = "type to filter"

	m := model{
		store:       store,
		insight:     insight,
		filterInput: filterInput,
		statusLine:  "tab: switch view | / filter | q: quit",
	}

	program := tea.NewProgram(m, tea.WithAltScreen())
	_, err := program.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return tickCmd()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = typed.Width
		m.height = typed.Height
		return m, nil
	case tickMsg:
		return m, tickCmd()
	case tea.KeyMsg:
		if typed.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.filtering {
			switch typed.String() {
			case "esc", "enter":
				m.filtering = false
				m.filterInput.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.filterInput, cmd = m.filterInput.Update(msg)
			m.cursor = 0
			return m, cmd
		}
		switch typed.String() {
		case "q":
			return m, tea.Quit
		case "tab":
			m.tab = (m.tab + 1) % tab(len(tabNames))
			m.cursor = 0
			return m, nil
		case "shift+tab":
			m.tab = (m.tab + tab(len(tabNames)) - 1) % tab(len(tabNames))
			m.cursor = 0
			return m, nil
		case "/":
			m.filtering = true
			m.filterInput.Focus()
			return m, nil
		case "j", "down":
			if m.cursor < m.rowCount()-1 {
				m.cursor++
			}
			return m, nil
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		case "r":
			m.store.RefreshMetrics()
			m.statusLine = "metrics refreshed"
			return m, nil
		}
		switch m.tab {
		case tabCalls:
			return m.updateCalls(typed)
		case tabWorkflows:
			return m.updateWorkflows(typed)
		}
	}
	return m, nil
}

func (m model) updateCalls(key tea.KeyMsg) (model, tea.Cmd) {
	calls := m.filteredCalls()
	if m.cursor >= len(calls) {
		return m, nil
	}
	call := calls[m.cursor]
	switch key.String() {
	case "s":
		m.setStatus(call.ID, callops.CallStatusInProgress)
	case "c":
		m.setStatus(call.ID, callops.CallStatusCompleted)
	case "n":
		m.setStatus(call.ID, callops.CallStatusNoShow)
	case "a":
		m.store.SetActiveCall(call.ID)
		m.statusLine = "active call set"
	}
	return m, nil
}

func (m *model) setStatus(callID string, status callops.CallStatus) {
	if _, err := m.store.UpdateCallStatus(callID, status); err != nil {
		m.statusLine = errStyle.Render("status update failed: " + err.Error())
		return
	}
	m.statusLine = "call marked " + string(status)
}

func (m model) updateWorkflows(key tea.KeyMsg) (model, tea.Cmd) {
	workflows := m.store.Snapshot().Workflows
	if m.cursor >= len(workflows) {
		return m, nil
	}
	wf := workflows[m.cursor]
	if key.String() == " " {
		if _, err := m.store.ToggleWorkflow(wf.ID, !wf.Active); err != nil {
			m.statusLine = errStyle.Render("toggle failed: " + err.Error())
		} else {
			m.statusLine = "workflow toggled"
		}
	}
	return m, nil
}

func (m model) View() string {
	var body string
	switch m.tab {
	case tabCalls:
		body = m.viewCalls()
	case tabScripts:
		body = m.viewScripts()
	case tabWorkflows:
		body = m.viewWorkflows()
	case tabInsights:
		body = m.viewInsights()
	}

	header := make([]string, 0, len(tabNames))
	for i, name := range tabNames {
		if tab(i) == m.tab {
			header = append(header, activeStyle.Render("["+name+"]"))
		} else {
			header = append(header, mutedStyle.Render(" "+name+" "))
		}
	}

	filterLine := ""
	if m.filtering || m.filterInput.Value() != "" {
		filterLine = m.filterInput.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render("Call Operations"),
		strings.Join(header, " "),
		filterLine,
		"",
		body,
		"",
		mutedStyle.Render(m.statusLine),
	)
}

func (m model) viewCalls() string {
	st := m.store.Snapshot()
	calls := m.filteredCalls()
	customers := customerNames(st.Customers)

	lines := []string{
		sectionStyle.Render("Calls"),
		fmt.Sprintf("%d shown / %d total | active: %s", len(calls), len(st.Calls), shortID(st.ActiveCallID)),
		"",
	}
	for i, call := range calls {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		name := customers[call.CustomerID]
		if name == "" {
			name = shortID(call.CustomerID)
		}
		status := string(call.Status)
		if call.Status == callops.CallStatusCompleted {
			status = okStyle.Render(status)
		} else if call.Status == callops.CallStatusNoShow {
			status = errStyle.Render(status)
		}
		marker := " "
		if call.ID == st.ActiveCallID {
			marker = activeStyle.Render("*")
		}
		lines = append(lines, fmt.Sprintf("%s%s %s  %-22s %-12s %s",
			cursor, marker,
			call.ScheduledAt.Local().Format("Jan 02 15:04"),
			truncate(call.Objective, 22), status, name))
	}
	lines = append(lines, "", mutedStyle.Render("s: in-progress | c: complete | n: no-show | a: set active"))
	return strings.Join(lines, "\n")
}

func (m model) viewScripts() string {
	scripts := m.store.Snapshot().Scripts
	lines := []string{sectionStyle.Render("Scripts"), ""}
	for i, script := range scripts {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		lines = append(lines, fmt.Sprintf("%s %-28s %-18s %d segments",
			cursor, truncate(script.Title, 28), truncate(script.Persona, 18), len(script.Segments)))
		if i == m.cursor {
			for _, seg := range script.Segments {
				lines = append(lines, mutedStyle.Render("    - "+seg.Title))
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m model) viewWorkflows() string {
	workflows := m.store.Snapshot().Workflows
	lines := []string{sectionStyle.Render("Workflows"), ""}
	for i, wf := range workflows {
		cursor := " "
		if i == m.cursor {
			cursor = ">"
		}
		state := errStyle.Render("paused")
		if wf.Active {
			state = okStyle.Render("active")
		}
		lines = append(lines, fmt.Sprintf("%s %-30s %s  %d steps", cursor, truncate(wf.Name, 30), state, len(wf.Steps)))
		if i == m.cursor {
			for _, step := range wf.Steps {
				lines = append(lines, mutedStyle.Render(fmt.Sprintf("    %s (%s, +%dm)", step.Title, step.Stage, step.DelayMinutes)))
			}
		}
	}
	lines = append(lines, "", mutedStyle.Render("space: toggle active"))
	return strings.Join(lines, "\n")
}

func (m model) viewInsights() string {
	lines := []string{sectionStyle.Render("Scorecards"), ""}
	for _, card := range m.insight.Scorecards() {
		lines = append(lines, fmt.Sprintf("%-18s %-10s %s", card.Label, card.Value, renderBar(card.Progress, 24)))
		lines = append(lines, mutedStyle.Render("  "+card.Detail))
	}

	lines = append(lines, "", sectionStyle.Render("Upcoming Follow-ups"))
	followUps := m.insight.UpcomingFollowUps(5)
	if len(followUps) == 0 {
		lines = append(lines, mutedStyle.Render("  none scheduled"))
	}
	for _, fu := range followUps {
		lines = append(lines, fmt.Sprintf("  %s  %s", fu.DueAt.Local().Format("Jan 02"), truncate(fu.Objective, 40)))
	}

	lines = append(lines, "", sectionStyle.Render("Recent Notes"))
	for _, digest := range m.insight.RecentNotes(4) {
		lines = append(lines, fmt.Sprintf("  [%s] %s", digest.Note.Category, truncate(digest.Note.Content, 48)))
	}
	lines = append(lines, "", mutedStyle.Render("r: refresh metrics"))
	return strings.Join(lines, "\n")
}

func (m model) filteredCalls() []callops.CallRecord {
	st := m.store.Snapshot()
	query := strings.TrimSpace(strings.ToLower(m.filterInput.Value()))
	if query == "" {
		return st.Calls
	}
	customers := customerNames(st.Customers)
	out := make([]callops.CallRecord, 0, len(st.Calls))
	for _, call := range st.Calls {
		haystack := strings.ToLower(call.Objective + " " + customers[call.CustomerID] + " " + string(call.Status))
		if strings.Contains(haystack, query) {
			out = append(out, call)
		}
	}
	return out
}

func (m model) rowCount() int {
	switch m.tab {
	case tabCalls:
		return len(m.filteredCalls())
	case tabScripts:
		return len(m.store.Snapshot().Scripts)
	case tabWorkflows:
		return len(m.store.Snapshot().Workflows)
	}
	return 0
}

func customerNames(customers []callops.CustomerProfile) map[string]string {
	out := make(map[string]string, len(customers))
	for _, c := range customers {
		out[c.ID] = c.Name
	}
	return out
}

func renderBar(progress float64, width int) string {
	if progress < 0 {
		progress = 0
	}
	if progress > 1 {
		progress = 1
	}
	filled := int(progress * float64(width))
	return okStyle.Render(strings.Repeat("█", filled)) + mutedStyle.Render(strings.Repeat("░", width-filled))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 3 {
		return s[:n]
	}
	return s[:n-3] + "..."
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "-"
	}
	return id
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}
