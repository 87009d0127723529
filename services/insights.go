package services

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"flats-scraper/config"
	"flats-scraper/models"
	"flats-scraper/utils"
)

type InsightService struct {
	schema config.InsightSchema
	logger *utils.Logger
}

func NewInsightService(schema config.InsightSchema, logger *utils.Logger) *InsightService {
	return &InsightService{schema: schema, logger: logger}
}

// Generate summarizes one run's output table.
func (s *InsightService) Generate(t *models.Table) *models.InsightReport {
	report := &models.InsightReport{
		UnitsByBedrooms: make(map[int]int),
	}

	if t.Len() == 0 {
		return report
	}

	report.TotalUnits = t.Len()

	var areaTotal, priceTotal float64
	var areaCount, priceCount int

	for _, r := range t.Rows {
		u := s.unit(r)

		if allocated, ok := r[s.schema.AllocatedColumn].BoolValue(); ok {
			if allocated {
				report.AllocatedUnits++
			} else {
				report.AvailableUnits++
			}
		}
		if n, ok := r[s.schema.BedroomsColumn].IntValue(); ok {
			report.UnitsByBedrooms[int(n)]++
		}
		if s.schema.DocumentColumn != "" && t.HasColumn(s.schema.DocumentColumn) && r[s.schema.DocumentColumn].IsNull() {
			report.DocumentsMissing++
		}

		if u.Area > 0 {
			areaTotal += u.Area
			areaCount++
			if report.LargestUnit == nil || u.Area > report.LargestUnit.Area {
				report.LargestUnit = u
			}
		}

		// Price stats (only units with price > 0)
		if u.Price > 0 {
			if priceCount == 0 || u.Price < report.MinPrice {
				report.MinPrice = u.Price
			}
			if u.Price > report.MaxPrice {
				report.MaxPrice = u.Price
			}
			priceTotal += u.Price
			priceCount++
		}
	}

	if areaCount > 0 {
		report.AverageArea = round2(areaTotal / float64(areaCount))
	}
	if priceCount > 0 {
		report.AveragePrice = round2(priceTotal / float64(priceCount))
		report.MinPrice = round2(report.MinPrice)
		report.MaxPrice = round2(report.MaxPrice)
	}

	s.logger.Debug("[insights] %d units, %d priced", report.TotalUnits, priceCount)
	return report
}

func (s *InsightService) unit(r models.Row) *models.Unit {
	u := &models.Unit{ID: r[s.schema.IDColumn].String()}
	if n, ok := r[s.schema.BedroomsColumn].IntValue(); ok {
		u.Bedrooms = int(n)
	}
	u.Allocated, _ = r[s.schema.AllocatedColumn].BoolValue()
	for _, c := range s.schema.AreaColumns {
		if f, ok := r[c].FloatValue(); ok {
			u.Area = f
			break
		}
	}
	if f, ok := r[s.schema.PriceColumn].FloatValue(); ok {
		u.Price = f
	}
	return u
}

// Print writes the report to stdout.
func (s *InsightService) Print(r *models.InsightReport) {
	s.Fprint(os.Stdout, r)
}

func (s *InsightService) Fprint(w io.Writer, r *models.InsightReport) {
	sep := strings.Repeat("═", 54)
	thin := strings.Repeat("─", 54)

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n", sep)
	fmt.Fprintf(w, "\033[1;35m  📊 FLATS SCRAPE INSIGHTS\033[0m\n")
	fmt.Fprintf(w, "\033[1;35m%s\033[0m\n\n", sep)

	// Overview
	fmt.Fprintf(w, "\033[1;33m  Overview\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	fmt.Fprintf(w, "  Total units            : \033[1m%d\033[0m\n", r.TotalUnits)
	fmt.Fprintf(w, "  Allocated              : \033[1m%d\033[0m\n", r.AllocatedUnits)
	fmt.Fprintf(w, "  Available              : \033[1m%d\033[0m\n", r.AvailableUnits)
	fmt.Fprintf(w, "  Without floor plan     : \033[1m%d\033[0m\n", r.DocumentsMissing)
	if r.AverageArea > 0 {
		fmt.Fprintf(w, "  Average area           : \033[1m%.2f m²\033[0m\n", r.AverageArea)
	}
	fmt.Fprintln(w)

	// Price Stats
	fmt.Fprintf(w, "\033[1;33m  Price Statistics\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if r.AveragePrice > 0 {
		fmt.Fprintf(w, "  Average price : \033[1;32m%.2f €\033[0m\n", r.AveragePrice)
		fmt.Fprintf(w, "  Minimum price : \033[1;32m%.2f €\033[0m\n", r.MinPrice)
		fmt.Fprintf(w, "  Maximum price : \033[1;32m%.2f €\033[0m\n", r.MaxPrice)
	} else {
		fmt.Fprintf(w, "  No price data available\n")
	}
	fmt.Fprintln(w)

	// Largest
	if r.LargestUnit != nil {
		fmt.Fprintf(w, "\033[1;33m  Largest Unit\033[0m\n")
		fmt.Fprintf(w, "  %s\n", thin)
		fmt.Fprintf(w, "  ID       : %s\n", r.LargestUnit.ID)
		fmt.Fprintf(w, "  Bedrooms : %d\n", r.LargestUnit.Bedrooms)
		fmt.Fprintf(w, "  Area     : \033[1;31m%.2f m²\033[0m\n", r.LargestUnit.Area)
		fmt.Fprintln(w)
	}

	// Units by bedrooms
	fmt.Fprintf(w, "\033[1;33m  Units by Bedrooms\033[0m\n")
	fmt.Fprintf(w, "  %s\n", thin)
	if len(r.UnitsByBedrooms) == 0 {
		fmt.Fprintf(w, "  No bedroom data\n")
	} else {
		keys := make([]int, 0, len(r.UnitsByBedrooms))
		for k := range r.UnitsByBedrooms {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		for _, k := range keys {
			bar := strings.Repeat("█", r.UnitsByBedrooms[k])
			fmt.Fprintf(w, "  %-12s %s (%d)\n", fmt.Sprintf("%d dorm", k), bar, r.UnitsByBedrooms[k])
		}
	}

	fmt.Fprintf(w, "\n\033[1;35m%s\033[0m\n\n", sep)
}

func round2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
