package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"flats-scraper/config"
	"flats-scraper/models"
	"flats-scraper/pdfdoc"
	"flats-scraper/utils"
)

type fieldPattern struct {
	name string
	re   *regexp.Regexp
}

// FloorPlanExtractor pulls the labelled sub-area measurements printed on the
// first page of a unit's floor-plan document.
type FloorPlanExtractor struct {
	fields []fieldPattern
	layout pdfdoc.LayoutOptions
	logger *utils.Logger
}

// NewFloorPlanExtractor compiles the schema's field rules in order.
func NewFloorPlanExtractor(schema config.FloorPlanSchema, layout pdfdoc.LayoutOptions, logger *utils.Logger) (*FloorPlanExtractor, error) {
	e := &FloorPlanExtractor{layout: layout, logger: logger}
	for _, rule := range schema.Fields {
		re, err := regexp.Compile(schema.PatternFor(rule))
		if err != nil {
			return nil, fmt.Errorf("scraper: floor plan field %q: %w", rule.Name, err)
		}
		e.fields = append(e.fields, fieldPattern{name: rule.Name, re: re})
	}
	return e, nil
}

// Fields returns the field names in schema order.
func (e *FloorPlanExtractor) Fields() []string {
	names := make([]string, len(e.fields))
	for i, f := range e.fields {
		names[i] = f.name
	}
	return names
}

// Empty returns a complete field set with every value absent.
func (e *FloorPlanExtractor) Empty() models.Row {
	row := make(models.Row, len(e.fields))
	for _, f := range e.fields {
		row[f.name] = models.Null()
	}
	return row
}

// Extract reads the first page of the document and applies every field
// pattern. An unreadable document is logged and yields an all-absent set.
func (e *FloorPlanExtractor) Extract(content []byte, source string) (models.Row, error) {
	text, err := pdfdoc.FirstPageText(content, e.layout)
	if err != nil {
		e.logger.Error("[floorplan] Error reading PDF data from %s: %v", source, err)
		return e.Empty(), err
	}
	return e.ExtractText(text), nil
}

// ExtractText applies the field patterns to already extracted text.
func (e *FloorPlanExtractor) ExtractText(text string) models.Row {
	row := make(models.Row, len(e.fields))
	for _, f := range e.fields {
		row[f.name] = models.Null()
		m := f.re.FindStringSubmatch(text)
		if len(m) < 2 {
			continue
		}
		v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
		if err != nil {
			continue
		}
		row[f.name] = models.Float(v)
	}
	return row
}
