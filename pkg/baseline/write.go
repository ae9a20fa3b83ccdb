package baseline

import (
	"cmp"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
)

type xmlBaseline struct {
	XMLName xml.Name  `xml:"baseline"`
	Version string    `xml:"version,attr"`
	Files   []xmlFile `xml:"file"`
}

type xmlFile struct {
	Name   string     `xml:"name,attr"`
	Errors []xmlError `xml:"error"`
}

type xmlError struct {
	Line   int    `xml:"line,attr"`
	Column int    `xml:"column,attr"`
	Source string `xml:"source,attr"`
}

// Write renders entries as a baseline document, files sorted by name and
// errors by line then column. Duplicate entries are written once.
func Write(w io.Writer, entries []Entry) error {
	sorted := slices.Clone(entries)
	slices.SortFunc(sorted, func(a, b Entry) int {
		return cmp.Or(
			cmp.Compare(a.File, b.File),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Rule, b.Rule),
		)
	})
	sorted = slices.Compact(sorted)

	doc := xmlBaseline{Version: Version}
	for _, e := range sorted {
		if n := len(doc.Files); n == 0 || doc.Files[n-1].Name != e.File {
			doc.Files = append(doc.Files, xmlFile{Name: e.File})
		}
		f := &doc.Files[len(doc.Files)-1]
		f.Errors = append(f.Errors, xmlError{Line: e.Line, Column: e.Column, Source: string(e.Rule)})
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("failed to write baseline: %w", err)
	}
	return nil
}
