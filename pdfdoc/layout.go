// Package pdfdoc reads text out of PDF documents as positioned lines and
// cells, and detects header-less tables in them the way stream-mode table
// extractors do: rows are baselines, columns are horizontal gaps.
package pdfdoc

import (
	"sort"
	"strings"
)

// Glyph is one positioned run of text on a page, in PDF points with the
// origin at the bottom-left corner.
type Glyph struct {
	X, Y     float64
	W        float64
	FontSize float64
	S        string
}

// Cell is a run of glyphs on one line not separated by a column gap.
type Cell struct {
	X, EndX float64
	Text    string
}

// Line is one baseline of text, top to bottom order within a page.
type Line struct {
	Y     float64
	Cells []Cell
}

// LayoutOptions controls how glyphs are grouped into lines and cells.
type LayoutOptions struct {
	// ColumnGap is the horizontal distance that starts a new cell.
	ColumnGap float64
	// WordGap is the distance above which a space is inserted inside a cell.
	WordGap float64
	// RowTolerance is the vertical distance within which glyphs share a line.
	RowTolerance float64
}

// DefaultLayout returns options suited to typical 8 to 12pt documents.
func DefaultLayout() LayoutOptions {
	return LayoutOptions{ColumnGap: 6, WordGap: 1, RowTolerance: 2}
}

// BuildLines groups glyphs into lines (top to bottom) of cells (left to right).
// Glyph order within a line is preserved for equal X, so text drawn without
// advance widths keeps its stream order.
func BuildLines(glyphs []Glyph, opts LayoutOptions) []Line {
	type group struct {
		y      float64
		glyphs []Glyph
	}
	var groups []*group

	for _, g := range glyphs {
		if g.S == "" {
			continue
		}
		var target *group
		for _, gr := range groups {
			if abs(gr.y-g.Y) <= opts.RowTolerance {
				target = gr
				break
			}
		}
		if target == nil {
			target = &group{y: g.Y}
			groups = append(groups, target)
		}
		target.glyphs = append(target.glyphs, g)
	}

	sort.SliceStable(groups, func(i, j int) bool { return groups[i].y > groups[j].y })

	lines := make([]Line, 0, len(groups))
	for _, gr := range groups {
		sort.SliceStable(gr.glyphs, func(i, j int) bool { return gr.glyphs[i].X < gr.glyphs[j].X })
		if cells := buildCells(gr.glyphs, opts); len(cells) > 0 {
			lines = append(lines, Line{Y: gr.y, Cells: cells})
		}
	}
	return lines
}

func buildCells(glyphs []Glyph, opts LayoutOptions) []Cell {
	var (
		cells []Cell
		cur   *Cell
		sb    strings.Builder
	)
	flush := func() {
		if cur == nil {
			return
		}
		text := strings.Join(strings.Fields(sb.String()), " ")
		if text != "" {
			cur.Text = text
			cells = append(cells, *cur)
		}
		cur = nil
		sb.Reset()
	}

	for _, g := range glyphs {
		if cur != nil {
			gap := g.X - cur.EndX
			if gap > opts.ColumnGap {
				flush()
			} else if gap > opts.WordGap {
				sb.WriteByte(' ')
			}
		}
		if cur == nil {
			if strings.TrimSpace(g.S) == "" {
				continue
			}
			cur = &Cell{X: g.X, EndX: g.X}
		}
		sb.WriteString(g.S)
		if end := g.X + g.W; end > cur.EndX {
			cur.EndX = end
		}
	}
	flush()
	return cells
}

// Text renders lines as plain text: cells joined by a space, lines by newline.
func Text(lines []Line) string {
	var sb strings.Builder
	for i, l := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		for j, c := range l.Cells {
			if j > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(c.Text)
		}
	}
	return sb.String()
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
