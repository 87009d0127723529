package observability

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveFetch(t *testing.T) {
	m := New()
	m.ObserveFetch("http", nil)
	m.ObserveFetch("http", nil)
	m.ObserveFetch("http", errors.New("boom"))

	if got := testutil.ToFloat64(m.Fetches.WithLabelValues("http", "ok")); got != 2 {
		t.Errorf("ok fetches: got %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.Fetches.WithLabelValues("http", "error")); got != 1 {
		t.Errorf("failed fetches: got %v, want 1", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveFetch("http", nil)
	m.ObserveDocument("floor_plan", nil)
	m.TableDiscarded()
	m.RowDropped()
	m.AddRowsWritten(3)
	m.SetRunDuration(1)
	if err := m.WriteTextfile("/nonexistent/x.prom"); err != nil {
		t.Errorf("nil metrics should not write: %v", err)
	}
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.AddRowsWritten(4)
	m.TableDiscarded()

	path := filepath.Join(t.TempDir(), "flats.prom")
	if err := m.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "flats_rows_written_total 4") {
		t.Errorf("textfile missing rows counter:\n%s", data)
	}
}
