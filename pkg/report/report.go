// Package report defines the result model for corpus conformance runs.
//
// A Report aggregates per-document results across one run. The format is the
// canonical serialization used by the CLI summary, the report server and the
// MongoDB history store, so the types carry both JSON and BSON tags.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/validate"
)

// Status of one conformance check.
type Status string

const (
	StatusOK      Status = "ok"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Check is the outcome of a single conformance check on one document.
type Check struct {
	Status  Status `json:"status" bson:"status"`
	Message string `json:"message,omitempty" bson:"message,omitempty"`
}

// OK builds a passing check.
func OK() Check { return Check{Status: StatusOK} }

// Failed builds a failing check with the given message.
func Failed(format string, args ...any) Check {
	return Check{Status: StatusFailed, Message: fmt.Sprintf(format, args...)}
}

// Skipped builds a skipped check with the reason.
func Skipped(reason string) Check {
	return Check{Status: StatusSkipped, Message: reason}
}

// DocumentResult holds every check outcome for one schema document.
type DocumentResult struct {
	Path        string                  `json:"path" bson:"path"`
	ContentHash string                  `json:"content_hash" bson:"content_hash"`
	MetaSchema  Check                   `json:"meta_schema" bson:"meta_schema"`
	Compile     Check                   `json:"compile" bson:"compile"`
	Cycles      Check                   `json:"cycles" bson:"cycles"`
	Cycle       []string                `json:"cycle,omitempty" bson:"cycle,omitempty"`
	Vectors     []validate.VectorResult `json:"vectors,omitempty" bson:"vectors,omitempty"`
	Cached      bool                    `json:"cached,omitempty" bson:"cached,omitempty"`
	Duration    time.Duration           `json:"duration_ns" bson:"duration_ns"`
}

// Passed reports whether every non-skipped check on the document passed.
func (d DocumentResult) Passed() bool {
	for _, c := range []Check{d.MetaSchema, d.Compile, d.Cycles} {
		if c.Status == StatusFailed {
			return false
		}
	}
	for _, v := range d.Vectors {
		if !v.Passed {
			return false
		}
	}
	return true
}

// Report is the aggregate result of one corpus run.
type Report struct {
	ID         string           `json:"id" bson:"_id"`
	CorpusRoot string           `json:"corpus_root" bson:"corpus_root"`
	StartedAt  time.Time        `json:"started_at" bson:"started_at"`
	Duration   time.Duration    `json:"duration_ns" bson:"duration_ns"`
	Results    []DocumentResult `json:"results" bson:"results"`
}

// New creates an empty report for the given corpus root, stamped with a
// fresh run ID.
func New(corpusRoot string) *Report {
	return &Report{
		ID:         uuid.NewString(),
		CorpusRoot: corpusRoot,
		StartedAt:  time.Now().UTC(),
	}
}

// Add appends one document result.
func (r *Report) Add(res DocumentResult) {
	r.Results = append(r.Results, res)
}

// Total returns the number of documents checked.
func (r *Report) Total() int { return len(r.Results) }

// Failed returns the number of documents with at least one failing check.
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if !res.Passed() {
			n++
		}
	}
	return n
}

// Passed reports whether the whole run passed.
func (r *Report) Passed() bool { return r.Failed() == 0 }

// Find returns the result for a document path, if present.
func (r *Report) Find(path string) (DocumentResult, bool) {
	for _, res := range r.Results {
		if res.Path == path {
			return res, true
		}
	}
	return DocumentResult{}, false
}

// Marshal converts a report to indented JSON bytes.
func Marshal(r *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTo(r, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo writes a report as indented JSON to w.
func WriteTo(r *Report, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a report to a JSON file with 0644 permissions.
func WriteFile(r *Report, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteTo(r, f)
}

// ReadFile reads a report from a JSON file.
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var r Report
	if err := json.NewDecoder(f).Decode(&r); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &r, nil
}
