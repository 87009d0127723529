package services

import (
	"bytes"
	"strings"
	"testing"

	"flats-scraper/config"
	"flats-scraper/models"
)

func sampleUnits() *models.Table {
	t := models.NewTable("ID", "Dormitoris", "Adjudicat", "Superfície Total (m2)", "Preu", "Plànol")
	add := func(id int64, beds int64, allocated bool, area, price float64, doc string) {
		r := models.Row{
			"ID":         models.Int(id),
			"Dormitoris": models.Int(beds),
			"Adjudicat":  models.Bool(allocated),
			"Plànol":     models.OptionalString(doc),
		}
		if area > 0 {
			r["Superfície Total (m2)"] = models.Float(area)
		}
		if price > 0 {
			r["Preu"] = models.Float(price)
		}
		t.Append(r)
	}
	add(1, 2, false, 55, 200000, "p1")
	add(2, 3, true, 80.5, 300000, "p2")
	add(3, 2, false, 60, 0, "")
	add(4, 1, false, 0, 150000, "p4")
	return t
}

func newInsightService() *InsightService {
	return NewInsightService(config.DefaultSchema().Insights, newTestLogger())
}

func TestInsightCounts(t *testing.T) {
	r := newInsightService().Generate(sampleUnits())
	if r.TotalUnits != 4 {
		t.Errorf("TotalUnits: got %d, want 4", r.TotalUnits)
	}
	if r.AllocatedUnits != 1 || r.AvailableUnits != 3 {
		t.Errorf("allocated/available: got %d/%d, want 1/3", r.AllocatedUnits, r.AvailableUnits)
	}
	if r.DocumentsMissing != 1 {
		t.Errorf("DocumentsMissing: got %d, want 1", r.DocumentsMissing)
	}
	if r.UnitsByBedrooms[2] != 2 || r.UnitsByBedrooms[3] != 1 {
		t.Errorf("UnitsByBedrooms: got %v", r.UnitsByBedrooms)
	}
}

func TestInsightPrices(t *testing.T) {
	r := newInsightService().Generate(sampleUnits())
	wantAvg := 216666.67
	if r.AveragePrice != wantAvg {
		t.Errorf("AveragePrice: got %.2f, want %.2f", r.AveragePrice, wantAvg)
	}
	if r.MinPrice != 150000 {
		t.Errorf("MinPrice: got %.2f, want 150000", r.MinPrice)
	}
	if r.MaxPrice != 300000 {
		t.Errorf("MaxPrice: got %.2f, want 300000", r.MaxPrice)
	}
}

func TestInsightLargestUnit(t *testing.T) {
	r := newInsightService().Generate(sampleUnits())
	if r.LargestUnit == nil {
		t.Fatal("LargestUnit should not be nil")
	}
	if r.LargestUnit.ID != "2" || r.LargestUnit.Area != 80.5 {
		t.Errorf("LargestUnit: got %+v", r.LargestUnit)
	}
	if r.AverageArea != 65.17 {
		t.Errorf("AverageArea: got %.2f, want 65.17", r.AverageArea)
	}
}

func TestInsightEmptyInput(t *testing.T) {
	r := newInsightService().Generate(models.NewTable("ID"))
	if r.TotalUnits != 0 {
		t.Errorf("expected 0 total units for empty input")
	}
}

func TestInsightPrint(t *testing.T) {
	svc := newInsightService()
	var buf bytes.Buffer
	svc.Fprint(&buf, svc.Generate(sampleUnits()))

	out := buf.String()
	for _, want := range []string{"FLATS SCRAPE INSIGHTS", "Total units", "2 dorm", "300000.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
