package trace

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder appends records to a CSV file.
type Recorder struct {
	path          string
	file          *os.File
	headerWritten bool
	count         int
}

// NewRecorder creates the trace file at path, including parent directories.
// Returns nil if path is empty (tracing disabled); a nil Recorder is safe to use.
func NewRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating trace directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating trace file: %w", err)
	}

	return &Recorder{path: path, file: f}, nil
}

// Write appends one record. The first write includes the header row.
func (r *Recorder) Write(rec Record) error {
	if r == nil {
		return nil
	}

	records := []Record{rec}

	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.file); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.file); err != nil {
			return fmt.Errorf("writing trace: %w", err)
		}
	}

	r.count++
	return nil
}

// Count returns the number of records written.
func (r *Recorder) Count() int {
	if r == nil {
		return 0
	}
	return r.count
}

// Path returns the trace file path.
func (r *Recorder) Path() string {
	if r == nil {
		return ""
	}
	return r.path
}

// Close closes the trace file.
func (r *Recorder) Close() error {
	if r == nil || r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}

// ReadFile loads every record from a trace file.
func ReadFile(path string) ([]Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening trace: %w", err)
	}
	defer f.Close()

	var records []Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("reading trace: %w", err)
	}
	return records, nil
}
