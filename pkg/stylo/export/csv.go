// Package export writes a built feature dataset to its output
// formats: a CSV file for notebook-style analysis and a SQLite
// database for incremental runs.
package export

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"

	"github.com/cognicore/stylo/pkg/stylo/features"
)

// WriteCSV writes the dataset with the label columns first and the
// feature columns in sorted name order. Absent features are written
// as 0, so every row has the full width.
func WriteCSV(w io.Writer, d *features.Dataset) error {
	cw := csv.NewWriter(w)
	featureCols := d.FeatureColumns()

	header := append([]string{features.ColAuthor, features.ColTitle}, featureCols...)
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, len(header))
	for _, row := range d.Rows() {
		record[0] = row.Author
		record[1] = row.Title
		for i, col := range featureCols {
			record[i+2] = strconv.FormatFloat(row.Value(col), 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteCSVFile writes the dataset to a file path.
func WriteCSVFile(path string, d *features.Dataset) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, d); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
