package pdfdoc

import (
	"bytes"
	"fmt"

	"github.com/ledongthuc/pdf"
)

// Document is an opened PDF held in memory.
type Document struct {
	r *pdf.Reader
}

// Open parses PDF bytes. Malformed input is reported as an error; the
// underlying reader's panics never escape.
func Open(content []byte) (doc *Document, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, fmt.Errorf("pdfdoc: open: %v", rec)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, fmt.Errorf("pdfdoc: open: %w", err)
	}
	return &Document{r: r}, nil
}

// NumPages returns the number of pages in the document.
func (d *Document) NumPages() int {
	return d.r.NumPage()
}

// Glyphs returns the positioned text of a page (1-based) in content order.
func (d *Document) Glyphs(page int) (glyphs []Glyph, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			glyphs, err = nil, fmt.Errorf("pdfdoc: page %d: %v", page, rec)
		}
	}()

	if page < 1 || page > d.r.NumPage() {
		return nil, fmt.Errorf("pdfdoc: page %d out of range (1-%d)", page, d.r.NumPage())
	}
	p := d.r.Page(page)
	if p.V.IsNull() {
		return nil, fmt.Errorf("pdfdoc: page %d not found", page)
	}

	for _, t := range p.Content().Text {
		glyphs = append(glyphs, Glyph{X: t.X, Y: t.Y, W: t.W, FontSize: t.FontSize, S: t.S})
	}
	return glyphs, nil
}

// Lines returns the laid-out lines of a page.
func (d *Document) Lines(page int, opts LayoutOptions) ([]Line, error) {
	glyphs, err := d.Glyphs(page)
	if err != nil {
		return nil, err
	}
	return BuildLines(glyphs, opts), nil
}

// Tables detects tables on every page, in page order.
func (d *Document) Tables(opts LayoutOptions, minColumns int) ([]Table, error) {
	var tables []Table
	for page := 1; page <= d.NumPages(); page++ {
		lines, err := d.Lines(page, opts)
		if err != nil {
			return nil, err
		}
		tables = append(tables, DetectTables(lines, page, minColumns)...)
	}
	return tables, nil
}

// FirstPageText extracts the plain text of the first page of a PDF.
func FirstPageText(content []byte, opts LayoutOptions) (string, error) {
	doc, err := Open(content)
	if err != nil {
		return "", err
	}
	lines, err := doc.Lines(1, opts)
	if err != nil {
		return "", err
	}
	return Text(lines), nil
}
