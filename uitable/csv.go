package uitable

import (
	"encoding/csv"
	"io"

	"github.com/gocarina/gocsv"
)

// WriteCSV renders rows to w as CSV using gocsv's marshaling, an
// alternative export path to the curses/stdout table, useful for piping
// capture summaries into spreadsheets or other tooling.
func WriteCSV(w io.Writer, rows interface{}) error {
	return gocsv.Marshal(rows, w)
}

// CSVRow is a generic row for callers that don't want to define their own
// exported struct; Cells holds one value per configured column, in column
// order, so the header line is purely positional.
type CSVRow struct {
	Cells []string
}

// WriteCSVRows is a convenience export for tables that have already been
// rendered into plain string rows rather than into a caller-defined struct,
// writing a header line followed by one line per row with no dependency on
// gocsv's struct-tag reflection.
func WriteCSVRows(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
