package scraper

import (
	"flats-scraper/config"
	"flats-scraper/models"
	"flats-scraper/observability"
	"flats-scraper/pdfdoc"
	"flats-scraper/utils"
)

// PriceExtractor reads the tables of the price document into one table with
// the canonical header list.
type PriceExtractor struct {
	schema  config.PriceSchema
	layout  pdfdoc.LayoutOptions
	logger  *utils.Logger
	metrics *observability.Metrics

	ints   map[string]bool
	floats map[string]bool
}

// NewPriceExtractor creates a PriceExtractor for the given schema.
func NewPriceExtractor(schema config.PriceSchema, logger *utils.Logger, metrics *observability.Metrics) *PriceExtractor {
	e := &PriceExtractor{
		schema: schema,
		layout: pdfdoc.LayoutOptions{
			ColumnGap:    schema.Detection.ColumnGap,
			WordGap:      schema.Detection.WordGap,
			RowTolerance: schema.Detection.RowTolerance,
		},
		logger:  logger,
		metrics: metrics,
		ints:    toSet(schema.IntColumns),
		floats:  toSet(schema.FloatColumns),
	}
	if e.layout == (pdfdoc.LayoutOptions{}) {
		e.layout = pdfdoc.DefaultLayout()
	}
	return e
}

// Headers returns the canonical column list.
func (e *PriceExtractor) Headers() []string {
	return e.schema.Headers
}

// Extract detects every table in the document, keeps those matching one of
// the two known widths and normalizes their cells. An unreadable document is
// logged and yields an empty table; the error is returned for bookkeeping.
func (e *PriceExtractor) Extract(content []byte, source string) (*models.Table, error) {
	out := models.NewTable(e.schema.Headers...)

	doc, err := pdfdoc.Open(content)
	if err != nil {
		e.logger.Error("[prices] Error reading PDF data from %s: %v", source, err)
		return out, err
	}
	minColumns := e.schema.Detection.MinColumns
	if minColumns < 2 {
		minColumns = 2
	}
	tables, err := doc.Tables(e.layout, minColumns)
	if err != nil {
		e.logger.Error("[prices] Error reading PDF data from %s: %v", source, err)
		return out, err
	}
	e.logger.Info("[prices] Extracted %d tables", len(tables))

	for _, t := range tables {
		rows, ok := e.alignTable(t)
		if !ok {
			e.logger.Warn("[prices] Table with unexpected number of columns on page %d: %d", t.Page, t.NumColumns())
			e.metrics.TableDiscarded()
			continue
		}
		for _, cells := range rows {
			row := e.normalizeRow(cells)
			if row[e.keyColumn()].IsNull() {
				e.logger.Debug("[prices] Skipping row without identifier: %q", cells)
				continue
			}
			out.Append(row)
		}
	}

	e.logger.Info("[prices] Extracted %d price rows", out.Len())
	return out, nil
}

// alignTable brings a detected table to the canonical width. Tables that lack
// only the missing-header block get empty cells inserted at its position.
func (e *PriceExtractor) alignTable(t pdfdoc.Table) ([][]string, bool) {
	n := t.NumColumns()
	headers := len(e.schema.Headers)
	missing := len(e.schema.MissingHeaders)

	switch {
	case n == headers:
		return t.Rows, true
	case missing > 0 && n == headers-missing:
		at := e.schema.MissingIndex()
		out := make([][]string, len(t.Rows))
		for i, r := range t.Rows {
			widened := make([]string, 0, headers)
			widened = append(widened, r[:at]...)
			widened = append(widened, make([]string, missing)...)
			widened = append(widened, r[at:]...)
			out[i] = widened
		}
		return out, true
	}
	return nil, false
}

func (e *PriceExtractor) normalizeRow(cells []string) models.Row {
	row := make(models.Row, len(e.schema.Headers))
	for i, h := range e.schema.Headers {
		var raw string
		if i < len(cells) {
			raw = cells[i]
		}
		row[h] = e.normalizeCell(h, raw)
	}
	return row
}

func (e *PriceExtractor) normalizeCell(column, raw string) models.Value {
	if raw == "" {
		return models.Null()
	}
	switch {
	case e.ints[column]:
		if n, ok := utils.ParseInt(raw); ok {
			return models.Int(n)
		}
		return models.Null()
	case e.floats[column]:
		if f, ok := utils.ParseLocaleFloat(raw); ok {
			return models.Float(f)
		}
		return models.Null()
	}
	return models.String(raw)
}

func (e *PriceExtractor) keyColumn() string {
	if e.schema.KeyColumn != "" {
		return e.schema.KeyColumn
	}
	return e.schema.Headers[0]
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
