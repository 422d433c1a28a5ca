package store

import (
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
)

func TestExportCSV(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()

	id, _ := s.CreateRun(ctx, "")
	if err := s.AppendTrials(ctx, id, sampleRecords()); err != nil {
		t.Fatal(err)
	}

	var buf strings.Builder
	if err := ExportCSV(ctx, s, id, &buf); err != nil {
		t.Fatalf("ExportCSV() error = %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2 records", len(rows))
	}

	header := rows[0]
	// Fulfillment columns are the union over records, sorted.
	wantTail := []string{"fulfillment_a1", "fulfillment_a2", "fulfillment_b1", "fulfillment_d2"}
	tail := header[len(header)-len(wantTail):]
	for i, want := range wantTail {
		if tail[i] != want {
			t.Errorf("header[%d] = %q, want %q", len(header)-len(wantTail)+i, tail[i], want)
		}
	}
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			t.Errorf("row %d has %d fields, header has %d", i, len(row), len(header))
		}
	}

	if rows[1][2] != "open" || rows[1][5] != "true" {
		t.Errorf("first record row = %v", rows[1])
	}
	// The second record never saw a2; its column is empty, not zero.
	a2 := indexOf(t, header, "fulfillment_a2")
	if rows[2][a2] != "" {
		t.Errorf("missing fulfillment rendered as %q, want empty", rows[2][a2])
	}
	d2 := indexOf(t, header, "fulfillment_d2")
	if rows[1][d2] != "0.25" {
		t.Errorf("fulfillment_d2 = %q, want 0.25", rows[1][d2])
	}

	// Pool sizing columns make each row self-describing.
	if got := rows[1][indexOf(t, header, "resource_ratio")]; got != "3" {
		t.Errorf("resource_ratio = %q, want 3", got)
	}
	if got := rows[2][indexOf(t, header, "high_social_weight")]; got != "5" {
		t.Errorf("high_social_weight = %q, want 5", got)
	}
}

func indexOf(t *testing.T, header []string, name string) int {
	t.Helper()
	for i, h := range header {
		if h == name {
			return i
		}
	}
	t.Fatalf("column %q not in header %v", name, header)
	return -1
}

func TestExportCSVUnknownRun(t *testing.T) {
	var buf strings.Builder
	err := ExportCSV(context.Background(), NewMemoryStore(), "missing", &buf)
	if !errors.Is(err, ErrRunNotFound) {
		t.Errorf("ExportCSV() error = %v, want ErrRunNotFound", err)
	}
}
