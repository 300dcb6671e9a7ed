package export

import (
	"encoding/csv"
	"io"

	"billdesk/internal/domain"
)

// BOM is the UTF-8 byte order mark Excel on Windows needs to detect encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVWriter wraps csv.Writer for exporting bills, one row per bill.
type CSVWriter struct {
	csv *csv.Writer
}

// NewCSVWriter creates a CSVWriter that writes to w.
func NewCSVWriter(w io.Writer) *CSVWriter {
	return &CSVWriter{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *CSVWriter) WriteHeader() error {
	return w.csv.Write(billColumns)
}

// WriteBills converts a batch of bills to CSV rows and writes them.
func (w *CSVWriter) WriteBills(bills []domain.Bill) error {
	for i := range bills {
		if err := w.csv.Write(billRow(&bills[i])); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *CSVWriter) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *CSVWriter) Error() error {
	return w.csv.Error()
}
