package pdfdoc

import "math"

// Table is a detected header-less table. Every row has the same number of
// cells; an empty string marks an empty cell.
type Table struct {
	Page int
	Rows [][]string
}

// NumColumns returns the column count of the table.
func (t Table) NumColumns() int {
	if len(t.Rows) == 0 {
		return 0
	}
	return len(t.Rows[0])
}

// DetectTables finds tables in the lines of one page. A table is a maximal run
// of consecutive lines that each have at least minColumns cells. Its columns
// are anchored on the widest line of the run; cells of narrower lines are
// placed in the column whose anchor is horizontally closest.
func DetectTables(lines []Line, page, minColumns int) []Table {
	if minColumns < 1 {
		minColumns = 1
	}

	var tables []Table
	start := -1
	for i := 0; i <= len(lines); i++ {
		inTable := i < len(lines) && len(lines[i].Cells) >= minColumns
		if inTable && start < 0 {
			start = i
		}
		if !inTable && start >= 0 {
			tables = append(tables, buildTable(lines[start:i], page))
			start = -1
		}
	}
	return tables
}

func buildTable(run []Line, page int) Table {
	widest := run[0]
	for _, l := range run[1:] {
		if len(l.Cells) > len(widest.Cells) {
			widest = l
		}
	}
	anchors := make([]float64, len(widest.Cells))
	for i, c := range widest.Cells {
		anchors[i] = mid(c)
	}

	t := Table{Page: page, Rows: make([][]string, 0, len(run))}
	for _, l := range run {
		row := make([]string, len(anchors))
		for _, c := range l.Cells {
			idx := nearest(anchors, mid(c))
			if row[idx] != "" {
				row[idx] += " " + c.Text
			} else {
				row[idx] = c.Text
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func mid(c Cell) float64 {
	return (c.X + c.EndX) / 2
}

func nearest(anchors []float64, x float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, a := range anchors {
		if d := math.Abs(a - x); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}
