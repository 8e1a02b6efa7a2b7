// Package export renders the current state to an xlsx workbook so the
// operator can hand a call report to a client without screenshotting the
// dashboard.
package export

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"callops-platform/internal/callops"

	"github.com/xuri/excelize/v2"
)

const timeLayout = "2006-01-02 15:04"

// Workbook builds an xlsx file with Calls, Customers, Notes and Metrics
// sheets from a state snapshot.
func Workbook(st callops.State) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeCallsSheet(f, st); err != nil {
		return nil, err
	}
	if err := writeCustomersSheet(f, st.Customers); err != nil {
		return nil, err
	}
	if err := writeNotesSheet(f, st.Notes); err != nil {
		return nil, err
	}
	if err := writeMetricsSheet(f, st.Metrics); err != nil {
		return nil, err
	}

	// The default sheet excelize creates is replaced by Calls.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("export: drop default sheet: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("export: write workbook: %w", err)
	}
	return buf, nil
}

func writeCallsSheet(f *excelize.File, st callops.State) error {
	const sheet = "Calls"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("export: sheet %s: %w", sheet, err)
	}
	names := map[string]string{}
	for _, c := range st.Customers {
		names[c.ID] = c.Name
	}

	rows := [][]interface{}{
		{"Scheduled at", "Customer", "Status", "Channel", "Priority", "Objective", "Duration (min)", "Sentiment", "Outcome", "Follow-up", "Next step"},
	}
	for _, c := range st.Calls {
		followUp := ""
		if !c.FollowUpDate.IsZero() {
			followUp = c.FollowUpDate.Format(timeLayout)
		}
		duration := interface{}("")
		if c.DurationMinutes > 0 {
			duration = c.DurationMinutes
		}
		rows = append(rows, []interface{}{
			c.ScheduledAt.Format(timeLayout),
			names[c.CustomerID],
			string(c.Status),
			string(c.Channel),
			string(c.Priority),
			c.Objective,
			duration,
			string(c.Sentiment),
			c.Outcome,
			followUp,
			c.NextStep,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeCustomersSheet(f *excelize.File, customers []callops.CustomerProfile) error {
	const sheet = "Customers"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("export: sheet %s: %w", sheet, err)
	}
	rows := [][]interface{}{
		{"Name", "Company", "Role", "Timezone", "Phone", "Email", "Tags", "Account value", "Notes"},
	}
	for _, c := range customers {
		rows = append(rows, []interface{}{
			c.Name, c.Company, c.Role, c.Timezone, c.Phone, c.Email,
			strings.Join(c.Tags, ", "), c.AccountValue, c.Notes,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeNotesSheet(f *excelize.File, notes []callops.TimelineNote) error {
	const sheet = "Notes"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("export: sheet %s: %w", sheet, err)
	}
	rows := [][]interface{}{
		{"Created at", "Category", "Sentiment", "Owner", "Content"},
	}
	for _, n := range notes {
		rows = append(rows, []interface{}{
			n.CreatedAt.Format(timeLayout), string(n.Category), string(n.Sentiment), n.Owner, n.Content,
		})
	}
	return writeRows(f, sheet, rows)
}

func writeMetricsSheet(f *excelize.File, m callops.Metrics) error {
	const sheet = "Metrics"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("export: sheet %s: %w", sheet, err)
	}
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Conversion rate", m.ConversionRate},
		{"Win rate", m.WinRate},
		{"Meetings booked", m.MeetingsBooked},
		{"Avg handle time (min)", m.AvgHandleTime},
		{"Pipeline value", m.PipelineValue},
		{"Exported at", time.Now().UTC().Format(timeLayout)},
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: row %d on %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
