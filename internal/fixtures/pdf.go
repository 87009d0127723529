// Package fixtures builds small real PDF documents for tests.
package fixtures

import (
	"bytes"

	"github.com/jung-kurt/gofpdf"
)

const (
	tableLeft     = 5.0
	tableColWidth = 9.5
	tableRowH     = 5.0
)

// TextPDF renders one page per element of pages, one text line per string.
func TextPDF(pages ...[]string) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, lines := range pages {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 10)
		for i, line := range lines {
			pdf.SetXY(15, 20+float64(i)*8)
			pdf.Cell(0, 6, tr(line))
		}
	}
	return output(pdf)
}

// TablePDF renders one landscape page per element of pages. Each page is a
// list of rows, each row a list of cells placed on a fixed column grid. A
// row with a single cell reads as a caption between tables.
func TablePDF(pages ...[][]string) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	for _, rows := range pages {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "", 5)
		for r, row := range rows {
			y := 15 + float64(r)*tableRowH
			for c, cell := range row {
				if cell == "" {
					continue
				}
				pdf.SetXY(tableLeft+float64(c)*tableColWidth, y)
				pdf.Cell(tableColWidth, tableRowH, tr(cell))
			}
		}
	}
	return output(pdf)
}

func output(pdf *gofpdf.Fpdf) ([]byte, error) {
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
