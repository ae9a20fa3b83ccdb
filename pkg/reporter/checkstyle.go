package reporter

import (
	"encoding/xml"
	"fmt"
	"io"

	"github.com/leapstack-labs/leaplint/pkg/engine"
)

type checkstyleReport struct {
	XMLName xml.Name         `xml:"checkstyle"`
	Version string           `xml:"version,attr"`
	Files   []checkstyleFile `xml:"file"`
}

type checkstyleFile struct {
	Name   string            `xml:"name,attr"`
	Errors []checkstyleError `xml:"error"`
}

type checkstyleError struct {
	Line     int    `xml:"line,attr"`
	Column   int    `xml:"column,attr"`
	Severity string `xml:"severity,attr"`
	Message  string `xml:"message,attr"`
	Source   string `xml:"source,attr"`
}

// Checkstyle writes a checkstyle XML document for CI integrations.
type Checkstyle struct {
	out io.Writer
	collector
}

// NewCheckstyle creates a checkstyle reporter.
func NewCheckstyle(out io.Writer) *Checkstyle {
	return &Checkstyle{out: out}
}

func (c *Checkstyle) BeforeAll()    {}
func (c *Checkstyle) Before(string) {}
func (c *Checkstyle) After(string)  {}

func (c *Checkstyle) OnLintError(file string, v engine.Violation) {
	if visible(v) {
		c.add(file, v)
	}
}

func (c *Checkstyle) AfterAll() error {
	doc := checkstyleReport{Version: "8.0"}
	for _, f := range c.sorted() {
		cf := checkstyleFile{Name: f.name}
		for _, v := range f.violations {
			cf.Errors = append(cf.Errors, checkstyleError{
				Line:     v.Line,
				Column:   v.Column,
				Severity: "error",
				Message:  v.Message,
				Source:   string(v.RuleID),
			})
		}
		doc.Files = append(doc.Files, cf)
	}

	if _, err := io.WriteString(c.out, xml.Header); err != nil {
		return fmt.Errorf("failed to write checkstyle report: %w", err)
	}
	enc := xml.NewEncoder(c.out)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write checkstyle report: %w", err)
	}
	_, err := io.WriteString(c.out, "\n")
	return err
}
