/*
PURPOSE:
  Writes check results to a CSV file.
  Ensures data integrity by flushing writes immediately.

REQUIREMENTS:
  User-specified:
  - Spreadsheet-friendly history of validation runs.

  Implementation-discovered:
  - Header is written only when the file is new or empty, so runs append.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.CheckResult

ERROR HANDLING:
  - Returns error on file open or write failure.

IMPLEMENTATION RULES:
  - Use encoding/csv.
  - Flush() after every write.
  - Mutex-guarded.

USAGE:
  w, err := output.NewCSVWriter("sitecheck_report.csv")
  w.Write(result)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - If CSV format changes, update header and record conversion.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Update Write() mapping when CheckResult changes.
*/

package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/daryltucker/sitecheck/internal/model"
)

// CSVHeader is the first row of every report file.
var CSVHeader = []string{
	"check", "root", "status", "document", "message", "started_at", "duration_ms",
}

// CSVWriter handles writing results to a CSV file.
type CSVWriter struct {
	file   *os.File
	writer *csv.Writer
	mu     sync.Mutex
}

// NewCSVWriter creates a new CSVWriter.
// It appends to the file if it exists.
func NewCSVWriter(path string) (*CSVWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(CSVHeader); err != nil {
			f.Close()
			return nil, err
		}
		w.Flush()
	}

	return &CSVWriter{
		file:   f,
		writer: w,
	}, nil
}

// Write writes a single result to the CSV file.
// It is thread-safe.
func (cw *CSVWriter) Write(r model.CheckResult) error {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	record := []string{
		r.Check,
		r.Root,
		r.Status,
		r.Document,
		r.Message,
		r.StartedAt.Format(time.RFC3339),
		fmt.Sprintf("%.3f", float64(r.Duration)/float64(time.Millisecond)),
	}

	if err := cw.writer.Write(record); err != nil {
		return err
	}
	cw.writer.Flush()
	return cw.writer.Error()
}

// Close closes the underlying file.
func (cw *CSVWriter) Close() error {
	cw.writer.Flush()
	return cw.file.Close()
}
