package features

import "sort"

// Label column names. Every row carries both, ahead of the numeric
// feature columns.
const (
	ColAuthor = "author"
	ColTitle  = "title"
)

// Row is one chunk's feature vector plus its labels.
type Row struct {
	Author   string
	Title    string
	Features map[string]float64
}

// Dataset is a column-oriented table of feature rows. Feature sets
// may differ in width between rows (groups can emit sparse columns);
// reads fill absent values with zero, so the table is always a full
// outer join over the observed feature names.
type Dataset struct {
	rows []Row
}

// NewDataset wraps rows into a dataset.
func NewDataset(rows []Row) *Dataset {
	return &Dataset{rows: rows}
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Rows returns the rows in their stored order. The order reflects
// task completion during the build, not submission order.
func (d *Dataset) Rows() []Row { return d.rows }

// FeatureColumns returns the sorted union of feature names across
// all rows.
func (d *Dataset) FeatureColumns() []string {
	seen := make(map[string]struct{})
	for _, r := range d.rows {
		for name := range r.Features {
			seen[name] = struct{}{}
		}
	}
	cols := make([]string, 0, len(seen))
	for name := range seen {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}

// Columns returns the full header: labels first, then the sorted
// feature columns.
func (d *Dataset) Columns() []string {
	return append([]string{ColAuthor, ColTitle}, d.FeatureColumns()...)
}

// Value returns the named feature of a row, zero when the row lacks
// it.
func (r Row) Value(name string) float64 {
	return r.Features[name]
}

// Column returns one feature column, zero-filled for rows lacking
// the feature.
func (d *Dataset) Column(name string) []float64 {
	out := make([]float64, len(d.rows))
	for i, r := range d.rows {
		out[i] = r.Features[name]
	}
	return out
}
