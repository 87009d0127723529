package config

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

//go:embed schema.yaml
var defaultSchemaYAML []byte

// Schema is the declarative contract between the extractors and the external
// listing page and documents. Every component receives the part it needs.
type Schema struct {
	Listing   ListingSchema   `yaml:"listing"`
	FloorPlan FloorPlanSchema `yaml:"floor_plan"`
	Prices    PriceSchema     `yaml:"prices"`
	Output    OutputSchema    `yaml:"output"`
	Insights  InsightSchema   `yaml:"insights"`
}

type ListingSchema struct {
	LinkSelector   string            `yaml:"link_selector"`
	DocumentColumn string            `yaml:"document_column"`
	IDColumn       string            `yaml:"id_column"`
	IntColumns     []string          `yaml:"int_columns"`
	FloatColumns   []string          `yaml:"float_columns"`
	Suffixes       map[string]string `yaml:"suffixes"`
	Status         StatusSchema      `yaml:"status"`
	Renames        map[string]string `yaml:"renames"`
}

// StatusSchema maps the closed set of allocation labels to booleans.
type StatusSchema struct {
	Column string          `yaml:"column"`
	Labels map[string]bool `yaml:"labels"`
}

type FloorPlanSchema struct {
	Unit   string      `yaml:"unit"`
	Fields []FieldRule `yaml:"fields"`
}

// FieldRule names one floor-plan measurement. Pattern, when set, replaces the
// default "<label> <d,dd> <unit>" expression and must have one capture group.
type FieldRule struct {
	Name    string `yaml:"name"`
	Label   string `yaml:"label"`
	Pattern string `yaml:"pattern"`
}

type PriceSchema struct {
	KeyColumn      string          `yaml:"key_column"`
	Headers        []string        `yaml:"headers"`
	MissingHeaders []string        `yaml:"missing_headers"`
	IntColumns     []string        `yaml:"int_columns"`
	FloatColumns   []string        `yaml:"float_columns"`
	Detection      DetectionSchema `yaml:"detection"`
}

// DetectionSchema tunes stream table detection, in PDF points.
type DetectionSchema struct {
	ColumnGap    float64 `yaml:"column_gap"`
	WordGap      float64 `yaml:"word_gap"`
	RowTolerance float64 `yaml:"row_tolerance"`
	MinColumns   int     `yaml:"min_columns"`
}

type OutputSchema struct {
	MergedColumns []string `yaml:"merged_columns"`
}

// InsightSchema names the output columns the run summary reads. AreaColumns
// are tried in order; the first one holding a number is used.
type InsightSchema struct {
	IDColumn        string   `yaml:"id_column"`
	BedroomsColumn  string   `yaml:"bedrooms_column"`
	AllocatedColumn string   `yaml:"allocated_column"`
	AreaColumns     []string `yaml:"area_columns"`
	PriceColumn     string   `yaml:"price_column"`
	DocumentColumn  string   `yaml:"document_column"`
}

// DefaultSchema returns the schema compiled into the binary.
func DefaultSchema() *Schema {
	s, err := ParseSchema(defaultSchemaYAML)
	if err != nil {
		panic(fmt.Sprintf("config: embedded schema: %v", err))
	}
	return s
}

// LoadSchema reads a schema file, or the embedded default when path is empty.
func LoadSchema(path string) (*Schema, error) {
	if path == "" {
		return DefaultSchema(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read schema %q: %w", path, err)
	}
	return ParseSchema(data)
}

// ParseSchema decodes and validates a YAML schema.
func ParseSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("config: parse schema: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the internal consistency of the schema.
func (s *Schema) Validate() error {
	if s.Listing.DocumentColumn == "" {
		return fmt.Errorf("config: schema: listing.document_column is required")
	}
	if s.Listing.IDColumn == "" {
		return fmt.Errorf("config: schema: listing.id_column is required")
	}
	if s.Listing.Status.Column != "" && len(s.Listing.Status.Labels) == 0 {
		return fmt.Errorf("config: schema: listing.status.labels is empty")
	}
	for _, f := range s.FloorPlan.Fields {
		if f.Name == "" {
			return fmt.Errorf("config: schema: floor plan field without name")
		}
		re, err := regexp.Compile(s.FloorPlan.PatternFor(f))
		if err != nil {
			return fmt.Errorf("config: schema: field %q: %w", f.Name, err)
		}
		if re.NumSubexp() != 1 {
			return fmt.Errorf("config: schema: field %q: pattern needs exactly one group", f.Name)
		}
	}
	if len(s.Prices.Headers) == 0 {
		return fmt.Errorf("config: schema: prices.headers is empty")
	}
	if s.Prices.MissingIndex() < 0 && len(s.Prices.MissingHeaders) > 0 {
		return fmt.Errorf("config: schema: prices.missing_headers[0] %q not in headers", s.Prices.MissingHeaders[0])
	}
	for i, h := range s.Prices.MissingHeaders {
		idx := s.Prices.MissingIndex() + i
		if idx >= len(s.Prices.Headers) || s.Prices.Headers[idx] != h {
			return fmt.Errorf("config: schema: prices.missing_headers must be contiguous in headers (%q)", h)
		}
	}
	return nil
}

// PatternFor returns the regular expression source for a floor-plan field.
func (f FloorPlanSchema) PatternFor(rule FieldRule) string {
	if rule.Pattern != "" {
		return rule.Pattern
	}
	label := rule.Label
	if label == "" {
		label = rule.Name
	}
	return regexp.QuoteMeta(label) + ` (\d+,\d+) ` + regexp.QuoteMeta(f.Unit)
}

// FieldNames returns the floor-plan field names in schema order.
func (f FloorPlanSchema) FieldNames() []string {
	names := make([]string, len(f.Fields))
	for i, r := range f.Fields {
		names[i] = r.Name
	}
	return names
}

// MissingIndex is the position at which the missing headers are inserted, or
// -1 when no missing-column variant is declared.
func (p PriceSchema) MissingIndex() int {
	if len(p.MissingHeaders) == 0 {
		return -1
	}
	for i, h := range p.Headers {
		if h == p.MissingHeaders[0] {
			return i
		}
	}
	return -1
}
