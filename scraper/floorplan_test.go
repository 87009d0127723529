package scraper

import (
	"testing"

	"flats-scraper/config"
	"flats-scraper/internal/fixtures"
	"flats-scraper/pdfdoc"
)

func newFloorPlanExtractor(t *testing.T) *FloorPlanExtractor {
	t.Helper()
	logger, _ := newTestLogger()
	e, err := NewFloorPlanExtractor(config.DefaultSchema().FloorPlan, pdfdoc.DefaultLayout(), logger)
	if err != nil {
		t.Fatalf("NewFloorPlanExtractor: %v", err)
	}
	return e
}

func TestFloorPlanExtractText(t *testing.T) {
	e := newFloorPlanExtractor(t)
	text := "PLANTA 1 PORTA A\nAP. PAS 3,20 m²\nH. HABITACIÓ 1 10,50 m²\nE-M-C. ESTAR-MENJADOR-CUINA 24,05 m²\nT. TERRASSA 6,9 m2"

	row := e.ExtractText(text)
	if len(row) != 11 {
		t.Fatalf("expected all 11 fields, got %d", len(row))
	}

	tests := []struct {
		field string
		want  float64
	}{
		{"AP. PAS", 3.2},
		{"H. HABITACIÓ 1", 10.5},
		{"E-M-C. ESTAR-MENJADOR-CUINA", 24.05},
	}
	for _, tt := range tests {
		got, ok := row[tt.field].FloatValue()
		if !ok || got != tt.want {
			t.Errorf("%s: got %v (%v), want %v", tt.field, got, ok, tt.want)
		}
	}

	for _, absent := range []string{"AP. REBEDOR", "H. HABITACIÓ 2", "T. TERRASSA", "B. BALCÓ"} {
		if !row[absent].IsNull() {
			t.Errorf("%s should be absent, got %q", absent, row[absent])
		}
	}
}

func TestFloorPlanExtractFromPDF(t *testing.T) {
	e := newFloorPlanExtractor(t)
	content, err := fixtures.TextPDF(
		[]string{"PLANTA 1 - PORTA A", "H. HABITACIÓ 1 10,50 m²", "B. BALCÓ 4,25 m²"},
		[]string{"H. HABITACIÓ 2 9,00 m²"},
	)
	if err != nil {
		t.Fatalf("fixture: %v", err)
	}

	row, err := e.Extract(content, "plano1.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got, _ := row["H. HABITACIÓ 1"].FloatValue(); got != 10.5 {
		t.Errorf("H. HABITACIÓ 1: got %v", got)
	}
	if got, _ := row["B. BALCÓ"].FloatValue(); got != 4.25 {
		t.Errorf("B. BALCÓ: got %v", got)
	}
	if !row["H. HABITACIÓ 2"].IsNull() {
		t.Errorf("only the first page is read, got %q", row["H. HABITACIÓ 2"])
	}
}

func TestFloorPlanExtractCorruptDocument(t *testing.T) {
	logger, buf := newTestLogger()
	e, err := NewFloorPlanExtractor(config.DefaultSchema().FloorPlan, pdfdoc.DefaultLayout(), logger)
	if err != nil {
		t.Fatal(err)
	}

	row, err := e.Extract([]byte("%PDF-1.4 truncated"), "broken.pdf")
	if err == nil {
		t.Error("expected error for corrupt document")
	}
	if len(row) != 11 {
		t.Fatalf("expected a complete field set, got %d fields", len(row))
	}
	for name, v := range row {
		if !v.IsNull() {
			t.Errorf("%s: expected absent, got %q", name, v)
		}
	}
	if buf.Len() == 0 {
		t.Error("failure was not logged")
	}
}

func TestNewFloorPlanExtractorRejectsBadPattern(t *testing.T) {
	logger, _ := newTestLogger()
	schema := config.FloorPlanSchema{Unit: "m²", Fields: []config.FieldRule{{Name: "x", Pattern: "(unclosed"}}}
	if _, err := NewFloorPlanExtractor(schema, pdfdoc.DefaultLayout(), logger); err == nil {
		t.Error("expected error for invalid pattern")
	}
}
