/*
PURPOSE:
  Writes check results to a JSON Lines file (NDJSON).
  One line per check stage, suited to CI artifact collection.

REQUIREMENTS:
  User-specified:
  - Machine-readable record of each validation run.

  Implementation-discovered:
  - JSON Lines appends cleanly across repeated runs.

ARCHITECTURE INTEGRATION:
  - Called by: internal/engine
  - Consumes: internal/model.CheckResult

ERROR HANDLING:
  - Returns error on file open or write failure.

IMPLEMENTATION RULES:
  - Use encoding/json.NewEncoder.
  - Thread-safe.

USAGE:
  w, err := output.NewJSONWriter("sitecheck_report.jsonl")
  w.Write(result)
  w.Close()

SELF-HEALING INSTRUCTIONS:
  - None specific.

RELATED FILES:
  - internal/model/types.go

MAINTENANCE:
  - Keep in step with CheckResult's json tags.
*/

package output

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/daryltucker/sitecheck/internal/model"
)

// JSONWriter handles writing results to a JSON Lines file.
type JSONWriter struct {
	file    *os.File
	encoder *json.Encoder
	mu      sync.Mutex
}

// NewJSONWriter creates a new JSONWriter.
// It appends to the file if it exists.
func NewJSONWriter(path string) (*JSONWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	return &JSONWriter{
		file:    f,
		encoder: json.NewEncoder(f),
	}, nil
}

// Write writes a single result as a JSON line.
func (jw *JSONWriter) Write(r model.CheckResult) error {
	jw.mu.Lock()
	defer jw.mu.Unlock()

	return jw.encoder.Encode(r)
}

// Close closes the underlying file.
func (jw *JSONWriter) Close() error {
	return jw.file.Close()
}
