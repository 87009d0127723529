package services

import (
	"errors"
	"fmt"
	"strings"

	"flats-scraper/config"
	"flats-scraper/models"
	"flats-scraper/observability"
	"flats-scraper/utils"
)

var (
	// ErrUnknownStatus is returned for an allocation label outside the closed set.
	ErrUnknownStatus = errors.New("unknown allocation status")
	// ErrDuplicateID is returned when two listing rows share an identifier.
	ErrDuplicateID = errors.New("duplicate unit identifier")
	// ErrRenameConflict is returned when a rename target already exists next to its source.
	ErrRenameConflict = errors.New("rename target already present")
)

// Cleaner applies the listing schema to a scraped (and possibly enriched)
// table: suffixes, numeric types, status booleans, renames and column order.
type Cleaner struct {
	schema  config.ListingSchema
	logger  *utils.Logger
	metrics *observability.Metrics

	ints   map[string]bool
	floats map[string]bool
}

// NewCleaner creates a Cleaner for the given listing schema.
func NewCleaner(schema config.ListingSchema, logger *utils.Logger, metrics *observability.Metrics) *Cleaner {
	return &Cleaner{
		schema:  schema,
		logger:  logger,
		metrics: metrics,
		ints:    toSet(schema.IntColumns),
		floats:  toSet(schema.FloatColumns),
	}
}

// Clean returns a new normalized table; the input is left untouched. Applying
// Clean to its own output yields the same table.
func (c *Cleaner) Clean(in *models.Table) (*models.Table, error) {
	renames, err := c.activeRenames(in)
	if err != nil {
		return nil, err
	}

	out := models.NewTable(c.outputColumns(in, renames)...)
	seen := utils.NewKeySet()
	dropped := 0

	for i, r := range in.Rows {
		row := make(models.Row, len(in.Columns))
		for _, col := range in.Columns {
			v, err := c.normalizeCell(col, r[col])
			if err != nil {
				return nil, fmt.Errorf("services: clean row %d: %w", i+1, err)
			}
			if to, ok := renames[col]; ok {
				col = to
			}
			row[col] = v
		}

		id := row[c.schema.IDColumn]
		if id.IsNull() {
			c.logger.Warn("[cleaner] Dropping row %d without %s", i+1, c.schema.IDColumn)
			c.metrics.RowDropped()
			dropped++
			continue
		}
		if !seen.Add(id.String()) {
			return nil, fmt.Errorf("services: clean: %w: %s", ErrDuplicateID, id)
		}
		out.Append(row)
	}

	c.logger.Info("[cleaner] Cleaned %d → %d units (dropped %d)", in.Len(), out.Len(), dropped)
	return out, nil
}

// activeRenames keeps the renames whose source column is present. A source
// whose target also exists is ambiguous and rejected.
func (c *Cleaner) activeRenames(in *models.Table) (map[string]string, error) {
	active := make(map[string]string, len(c.schema.Renames))
	for from, to := range c.schema.Renames {
		if from == to || !in.HasColumn(from) {
			continue
		}
		if in.HasColumn(to) {
			return nil, fmt.Errorf("services: clean: %w: %q -> %q", ErrRenameConflict, from, to)
		}
		active[from] = to
	}
	return active, nil
}

// outputColumns renames columns in place and moves the document column last.
func (c *Cleaner) outputColumns(in *models.Table, renames map[string]string) []string {
	cols := make([]string, 0, len(in.Columns))
	hasDoc := false
	for _, col := range in.Columns {
		if to, ok := renames[col]; ok {
			col = to
		}
		if col == c.schema.DocumentColumn {
			hasDoc = true
			continue
		}
		cols = append(cols, col)
	}
	if hasDoc {
		cols = append(cols, c.schema.DocumentColumn)
	}
	return cols
}

func (c *Cleaner) normalizeCell(col string, v models.Value) (models.Value, error) {
	s, isString := v.Str()
	if !isString {
		if c.floats[col] {
			if f, ok := v.FloatValue(); ok {
				return models.Float(f), nil
			}
		}
		return v, nil
	}

	if suffix, ok := c.schema.Suffixes[col]; ok && suffix != "" {
		s = strings.TrimSpace(strings.ReplaceAll(s, suffix, ""))
	}

	switch {
	case col == c.schema.Status.Column && c.schema.Status.Column != "":
		label := strings.TrimSpace(s)
		if label == "" {
			return models.Null(), nil
		}
		b, ok := c.schema.Status.Labels[label]
		if !ok {
			return models.Null(), fmt.Errorf("%w: %q in column %q", ErrUnknownStatus, s, col)
		}
		return models.Bool(b), nil
	case c.ints[col]:
		if n, ok := utils.ParseInt(s); ok {
			return models.Int(n), nil
		}
		c.logger.Debug("[cleaner] Invalid integer %q in column %q", s, col)
		return models.Null(), nil
	case c.floats[col]:
		if f, ok := utils.ParseDecimal(s); ok {
			return models.Float(f), nil
		}
		c.logger.Debug("[cleaner] Invalid number %q in column %q", s, col)
		return models.Null(), nil
	}
	return v, nil
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}
