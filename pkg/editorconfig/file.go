// Package editorconfig resolves style properties for a file from cascading
// .editorconfig files, process level overrides and code style presets.
package editorconfig

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// FileName is the name of the cascading property files.
const FileName = ".editorconfig"

// ParseError reports a malformed line in a property file.
type ParseError struct {
	Path    string
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
}

// Pair is one key = value line.
type Pair struct {
	Key   string
	Value string
}

// Section is a glob header with its properties in file order.
type Section struct {
	Glob  string
	Pairs []Pair
}

// File is a parsed property file.
type File struct {
	Path     string
	Dir      string
	Root     bool
	Sections []Section

	// Warnings lists the malformed lines that were skipped.
	Warnings []*ParseError
}

// Parse reads a property file. path is only used for error messages and to
// anchor section globs. Malformed lines are skipped and recorded in
// File.Warnings; pairs below a malformed section header are dropped up to the
// next valid header. Only read failures are returned as errors.
func Parse(r io.Reader, path string) (*File, error) {
	f := &File{Path: path, Dir: filepath.Dir(path)}
	var current *Section
	var orphan Section
	warn := func(line int, msg string) {
		f.Warnings = append(f.Warnings, &ParseError{Path: path, Line: line, Message: msg})
	}

	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if lineNo == 1 {
			line = strings.TrimPrefix(line, "\ufeff")
		}
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if line[0] == '[' {
			end := strings.LastIndexByte(line, ']')
			if end < 1 {
				warn(lineNo, "unterminated section header")
				current = &orphan
				continue
			}
			glob := strings.TrimSpace(line[1:end])
			if glob == "" {
				warn(lineNo, "empty section header")
				current = &orphan
				continue
			}
			f.Sections = append(f.Sections, Section{Glob: glob})
			current = &f.Sections[len(f.Sections)-1]
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			warn(lineNo, fmt.Sprintf("expected key = value, got %q", line))
			continue
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = strings.TrimSpace(value)
		if key == "" {
			warn(lineNo, "empty property name")
			continue
		}
		if isKnownProperty(key) {
			value = strings.ToLower(value)
		}

		if current == nil {
			// Only root is meaningful in the preamble.
			if key == "root" {
				f.Root = value == "true"
			}
			continue
		}
		current.Pairs = append(current.Pairs, Pair{Key: key, Value: value})
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return f, nil
}

// ParseFile reads and parses the property file at path.
func ParseFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = fh.Close() }()
	return Parse(fh, path)
}

// apply copies the properties of every section matching target into props.
// Later sections override earlier ones.
func (f *File) apply(target string, props map[string]string) {
	for _, s := range f.Sections {
		if !matchSection(s.Glob, f.Dir, target) {
			continue
		}
		for _, p := range s.Pairs {
			props[p.Key] = p.Value
		}
	}
}
