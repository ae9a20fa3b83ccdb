package reporter

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/leapstack-labs/leaplint/pkg/engine"
)

// JSONFile is one entry of the JSON report.
type JSONFile struct {
	File   string      `json:"file"`
	Errors []JSONError `json:"errors"`
}

// JSONError is one violation in the JSON report.
type JSONError struct {
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Message string `json:"message"`
	Rule    string `json:"rule"`
	Status  string `json:"status"`
}

// JSON writes all files with visible violations as one JSON array.
type JSON struct {
	out io.Writer
	collector
}

// NewJSON creates a json reporter.
func NewJSON(out io.Writer) *JSON {
	return &JSON{out: out}
}

func (j *JSON) BeforeAll()    {}
func (j *JSON) Before(string) {}
func (j *JSON) After(string)  {}

func (j *JSON) OnLintError(file string, v engine.Violation) {
	if visible(v) {
		j.add(file, v)
	}
}

func (j *JSON) AfterAll() error {
	report := []JSONFile{}
	for _, f := range j.sorted() {
		entry := JSONFile{File: f.name, Errors: make([]JSONError, 0, len(f.violations))}
		for _, v := range f.violations {
			entry.Errors = append(entry.Errors, JSONError{
				Line:    v.Line,
				Column:  v.Column,
				Message: v.Message,
				Rule:    string(v.RuleID),
				Status:  string(v.Status),
			})
		}
		report = append(report, entry)
	}

	enc := json.NewEncoder(j.out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to write json report: %w", err)
	}
	return nil
}
