package services

import (
	"bytes"
	"errors"
	"reflect"
	"testing"

	"flats-scraper/config"
	"flats-scraper/models"
	"flats-scraper/utils"
)

func newTestLogger() *utils.Logger {
	return utils.NewLoggerTo(&bytes.Buffer{}, utils.LevelDebug)
}

func newTestCleaner() *Cleaner {
	return NewCleaner(config.DefaultSchema().Listing, newTestLogger(), nil)
}

// rawListing mirrors the table produced by the listing scraper.
func rawListing(rows ...[]string) *models.Table {
	t := models.NewTable("", "Dormitoris", "Superfície", "Adjudicació", "Plànol")
	for _, r := range rows {
		row := make(models.Row)
		for i, c := range t.Columns {
			row[c] = models.OptionalString(r[i])
		}
		t.Append(row)
	}
	return t
}

func TestCleanerNormalizesListing(t *testing.T) {
	c := newTestCleaner()
	in := rawListing(
		[]string{"1", "2 dorm", "55m2", "No Adjudicat", "https://example.org/p1.pdf"},
		[]string{"2", "3 dorm", "70.5m2", "Adjudicat", ""},
	)

	out, err := c.Clean(in)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}

	wantCols := []string{"ID", "Dormitoris", "Superfície (m2)", "Adjudicat", "Plànol"}
	if !reflect.DeepEqual(out.Columns, wantCols) {
		t.Fatalf("columns: got %q, want %q", out.Columns, wantCols)
	}

	want := [][]string{
		wantCols,
		{"1", "2", "55.0", "false", "https://example.org/p1.pdf"},
		{"2", "3", "70.5", "true", ""},
	}
	if got := out.Records(); !reflect.DeepEqual(got, want) {
		t.Errorf("records:\n got %q\nwant %q", got, want)
	}

	if id, ok := out.Get(0, "ID").IntValue(); !ok || id != 1 {
		t.Errorf("ID should be an integer, got %v", out.Get(0, "ID"))
	}
	if b, ok := out.Get(0, "Adjudicat").BoolValue(); !ok || b {
		t.Errorf("Adjudicat should be false, got %v", out.Get(0, "Adjudicat"))
	}

	// input untouched
	if in.Columns[0] != "" || in.Get(0, "Dormitoris").String() != "2 dorm" {
		t.Error("Clean modified its input")
	}
}

func TestCleanerIsIdempotent(t *testing.T) {
	c := newTestCleaner()
	once, err := c.Clean(rawListing(
		[]string{"1", "2 dorm", "55m2", "No Adjudicat", "https://example.org/p1.pdf"},
		[]string{"7", "1 dorm", "41.25m2", "Adjudicat", ""},
	))
	if err != nil {
		t.Fatalf("first Clean: %v", err)
	}
	twice, err := c.Clean(once)
	if err != nil {
		t.Fatalf("second Clean: %v", err)
	}
	if !reflect.DeepEqual(once.Records(), twice.Records()) {
		t.Errorf("not idempotent:\n once %q\ntwice %q", once.Records(), twice.Records())
	}
}

func TestCleanerUnknownStatus(t *testing.T) {
	c := newTestCleaner()
	_, err := c.Clean(rawListing([]string{"1", "2 dorm", "55m2", "Reservat", ""}))
	if !errors.Is(err, ErrUnknownStatus) {
		t.Errorf("expected ErrUnknownStatus, got %v", err)
	}
}

func TestCleanerEmptyStatusIsAbsent(t *testing.T) {
	c := newTestCleaner()
	in := rawListing([]string{"1", "2 dorm", "55m2", "No Adjudicat", ""})
	in.Rows[0]["Adjudicació"] = models.String("  ")

	out, err := c.Clean(in)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if v := out.Get(0, "Adjudicat"); !v.IsNull() {
		t.Errorf("Adjudicat: got %v, want absent", v)
	}
}

func TestCleanerInvalidNumbersBecomeAbsent(t *testing.T) {
	c := newTestCleaner()
	out, err := c.Clean(rawListing([]string{"3", "? dorm", "n/a", "Adjudicat", ""}))
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if !out.Get(0, "Dormitoris").IsNull() {
		t.Errorf("Dormitoris: got %q, want absent", out.Get(0, "Dormitoris"))
	}
	if !out.Get(0, "Superfície (m2)").IsNull() {
		t.Errorf("Superfície: got %q, want absent", out.Get(0, "Superfície (m2)"))
	}
}

func TestCleanerDropsRowsWithoutID(t *testing.T) {
	c := newTestCleaner()
	out, err := c.Clean(rawListing(
		[]string{"", "2 dorm", "55m2", "Adjudicat", ""},
		[]string{"4", "2 dorm", "55m2", "Adjudicat", ""},
	))
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if out.Len() != 1 || out.Get(0, "ID").String() != "4" {
		t.Errorf("expected only unit 4, got %q", out.Records())
	}
}

func TestCleanerDuplicateID(t *testing.T) {
	c := newTestCleaner()
	_, err := c.Clean(rawListing(
		[]string{"1", "2 dorm", "55m2", "Adjudicat", ""},
		[]string{"1", "3 dorm", "60m2", "Adjudicat", ""},
	))
	if !errors.Is(err, ErrDuplicateID) {
		t.Errorf("expected ErrDuplicateID, got %v", err)
	}
}

func TestCleanerRenameConflict(t *testing.T) {
	c := newTestCleaner()
	in := models.NewTable("", "ID", "Plànol")
	in.Append(models.Row{"": models.String("1"), "ID": models.String("1")})

	if _, err := c.Clean(in); !errors.Is(err, ErrRenameConflict) {
		t.Errorf("expected ErrRenameConflict, got %v", err)
	}
}

func TestCleanerKeepsEnrichedFloats(t *testing.T) {
	c := newTestCleaner()
	in := rawListing([]string{"1", "2 dorm", "55m2", "No Adjudicat", "https://example.org/p1.pdf"})
	in.Columns = append(in.Columns, "H. HABITACIÓ 1", "B. BALCÓ")
	in.Rows[0]["H. HABITACIÓ 1"] = models.Float(10.5)
	in.Rows[0]["B. BALCÓ"] = models.Null()

	out, err := c.Clean(in)
	if err != nil {
		t.Fatalf("Clean: %v", err)
	}
	if last := out.Columns[len(out.Columns)-1]; last != "Plànol" {
		t.Errorf("document column should be last, got %q", last)
	}
	if got := out.Get(0, "H. HABITACIÓ 1").String(); got != "10.5" {
		t.Errorf("H. HABITACIÓ 1: got %q", got)
	}
	if !out.Get(0, "B. BALCÓ").IsNull() {
		t.Errorf("B. BALCÓ: got %q, want absent", out.Get(0, "B. BALCÓ"))
	}
}
