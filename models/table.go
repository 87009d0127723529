package models

// Row maps column names to cell values. A column missing from the map reads
// as Null.
type Row map[string]Value

// Clone returns a shallow copy of the row.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Table is an ordered set of columns over a list of rows. Stages of the
// pipeline never modify a table in place; they build a new one.
type Table struct {
	Columns []string
	Rows    []Row
}

// NewTable creates an empty table with a copy of the given columns.
func NewTable(columns ...string) *Table {
	cols := make([]string, len(columns))
	copy(cols, columns)
	return &Table{Columns: cols}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the column is part of the table.
func (t *Table) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// ColumnIndex returns the position of the column or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// Append adds a row. Only declared columns are ever rendered.
func (t *Table) Append(r Row) {
	t.Rows = append(t.Rows, r)
}

// Get returns the cell at row i, column name.
func (t *Table) Get(i int, column string) Value {
	return t.Rows[i][column]
}

// Records renders the table as a header line followed by one string slice per
// row, in column order.
func (t *Table) Records() [][]string {
	out := make([][]string, 0, len(t.Rows)+1)
	header := make([]string, len(t.Columns))
	copy(header, t.Columns)
	out = append(out, header)
	for _, r := range t.Rows {
		rec := make([]string, len(t.Columns))
		for i, c := range t.Columns {
			rec[i] = r[c].String()
		}
		out = append(out, rec)
	}
	return out
}

// Select projects the table onto the given columns. Columns the table does
// not have are returned in missing and are filled with Null.
func (t *Table) Select(columns []string) (out *Table, missing []string) {
	out = NewTable(columns...)
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	for _, r := range t.Rows {
		nr := make(Row, len(columns))
		for _, c := range columns {
			nr[c] = r[c]
		}
		out.Append(nr)
	}
	return out, missing
}
