package services

import (
	"context"

	"flats-scraper/models"
	"flats-scraper/observability"
	"flats-scraper/scraper"
	"flats-scraper/utils"
)

// Enricher adds the floor-plan measurements of each unit to its listing row.
// Documents are fetched one at a time, in row order.
type Enricher struct {
	fetcher        scraper.Fetcher
	extractor      *scraper.FloorPlanExtractor
	documentColumn string
	throttle       *utils.Throttle
	logger         *utils.Logger
	metrics        *observability.Metrics
}

// NewEnricher creates an Enricher. A nil throttle fetches without delay.
func NewEnricher(fetcher scraper.Fetcher, extractor *scraper.FloorPlanExtractor, documentColumn string,
	throttle *utils.Throttle, logger *utils.Logger, metrics *observability.Metrics) *Enricher {
	if throttle == nil {
		throttle = utils.NewThrottle(0)
	}
	return &Enricher{
		fetcher:        fetcher,
		extractor:      extractor,
		documentColumn: documentColumn,
		throttle:       throttle,
		logger:         logger,
		metrics:        metrics,
	}
}

// Enrich returns a new table with every floor-plan field appended as a
// column. Rows without a document, or whose document cannot be fetched or
// read, get absent values for all fields.
func (e *Enricher) Enrich(ctx context.Context, in *models.Table) *models.Table {
	cols := append([]string{}, in.Columns...)
	for _, f := range e.extractor.Fields() {
		if !in.HasColumn(f) {
			cols = append(cols, f)
		}
	}
	out := models.NewTable(cols...)

	enriched := 0
	for i, r := range in.Rows {
		row := r.Clone()
		fields, ok := e.fieldsFor(ctx, i, r)
		if ok {
			enriched++
		}
		for k, v := range fields {
			row[k] = v
		}
		out.Append(row)
	}

	e.logger.Info("[enricher] Enriched %d of %d units with floor plan data", enriched, in.Len())
	return out
}

func (e *Enricher) fieldsFor(ctx context.Context, i int, r models.Row) (models.Row, bool) {
	link, ok := r[e.documentColumn].Str()
	if !ok || link == "" {
		e.logger.Debug("[enricher] Row %d has no floor plan document", i+1)
		return e.extractor.Empty(), false
	}

	e.throttle.Wait()
	content, err := e.fetcher.Fetch(ctx, link)
	if err != nil {
		e.metrics.ObserveDocument("floor_plan", err)
		return e.extractor.Empty(), false
	}

	fields, err := e.extractor.Extract(content, link)
	e.metrics.ObserveDocument("floor_plan", err)
	return fields, err == nil
}
