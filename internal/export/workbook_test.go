package export

import (
	"bytes"
	"testing"
	"time"

	"callops-platform/internal/callops"

	"github.com/xuri/excelize/v2"
)

func TestWorkbook_SheetsAndContent(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()
	buf, err := Workbook(callops.DemoState(now))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("workbook does not reopen: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	want := map[string]bool{"Calls": false, "Customers": false, "Notes": false, "Metrics": false}
	for _, s := range sheets {
		if _, ok := want[s]; ok {
			want[s] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Fatalf("missing sheet %s in %v", name, sheets)
		}
	}

	rows, err := f.GetRows("Calls")
	if err != nil {
		t.Fatalf("read Calls: %v", err)
	}
	// Header plus the two seed calls.
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows on Calls, got %d", len(rows))
	}
	if rows[0][0] != "Scheduled at" {
		t.Fatalf("unexpected header: %v", rows[0])
	}

	custRows, err := f.GetRows("Customers")
	if err != nil {
		t.Fatalf("read Customers: %v", err)
	}
	if len(custRows) != 2 || custRows[1][0] != "Priya Desai" {
		t.Fatalf("unexpected customer rows: %v", custRows)
	}
}

func TestWorkbook_EmptyState(t *testing.T) {
	buf, err := Workbook(callops.State{})
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatalf("expected non-empty workbook")
	}
}
