// Package table provides the ordered, untyped tabular structure that flows
// through the ingestion pipeline. Column names come from the header row of
// whatever file was loaded; no schema is assumed here. The fixed-column
// expectations (trending_date, videos_count) live in the normalizer.
package table

// Row maps a column name to its raw cell value. Cells missing from a short
// source record are simply absent from the map.
type Row map[string]string

// Table holds rows in source order along with the header order of the file
// they came from.
type Table struct {
	Columns []string
	Rows    []Row
}

// New returns an empty table with the given column order.
func New(columns []string) *Table {
	return &Table{Columns: append([]string(nil), columns...)}
}

// Len returns the number of rows.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// Empty reports whether the table has no rows.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// AddRow appends a row to the table.
func (t *Table) AddRow(r Row) {
	t.Rows = append(t.Rows, r)
}

// HasColumn reports whether name is one of the table's declared columns.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// Column returns the values of the named column in row order, with missing
// cells rendered as empty strings. The second return value is false when the
// column is not declared in the header.
func (t *Table) Column(name string) ([]string, bool) {
	if !t.HasColumn(name) {
		return nil, false
	}
	vals := make([]string, len(t.Rows))
	for i, r := range t.Rows {
		vals[i] = r[name]
	}
	return vals, true
}

// Clone returns a deep copy of the table. The normalizer works on a clone so
// the loaded table is never mutated in place.
func (t *Table) Clone() *Table {
	out := New(t.Columns)
	out.Rows = make([]Row, 0, len(t.Rows))
	for _, r := range t.Rows {
		cp := make(Row, len(r))
		for k, v := range r {
			cp[k] = v
		}
		out.Rows = append(out.Rows, cp)
	}
	return out
}
