package lsp

import (
	"maps"
	"net/url"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/leapstack-labs/leaplint/pkg/token"
)

// bom is stripped by the engine before positions are computed.
const bom = "\ufeff"

// Document is an open text document. Documents are never modified in
// place; an edit stores a new Document.
type Document struct {
	URI     string
	Content string
	Version int
	lines   *token.LineIndex
}

func newDocument(uri, content string, version int) *Document {
	return &Document{URI: uri, Content: content, Version: version, lines: token.NewLineIndex(content)}
}

// DocumentStore holds the open documents by URI.
type DocumentStore struct {
	mu   sync.RWMutex
	docs map[string]*Document
}

// NewDocumentStore creates an empty store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{docs: make(map[string]*Document)}
}

// Open stores a document, replacing any earlier one with the same URI.
func (s *DocumentStore) Open(uri, content string, version int) {
	s.put(newDocument(uri, content, version), true)
}

// Update replaces the text of an open document. Documents that are not
// open are ignored.
func (s *DocumentStore) Update(uri, content string, version int) {
	s.put(newDocument(uri, content, version), false)
}

func (s *DocumentStore) put(doc *Document, open bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[doc.URI]; ok || open {
		s.docs[doc.URI] = doc
	}
}

// Close forgets a document.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, uri)
}

// Get returns the document for uri, or nil.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.docs[uri]
}

// URIs returns the URIs of the open documents in sorted order.
func (s *DocumentStore) URIs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Sorted(maps.Keys(s.docs))
}

// Path returns the file system path of the document, or an empty string
// when the document is not a file.
func (d *Document) Path() string {
	return URIToPath(d.URI)
}

// line returns the byte span of the zero-based line without its
// terminator, '\r' included.
func (d *Document) line(n int) (start, end int) {
	span := d.lines.LineSpan(n + 1)
	start, end = span.Start, span.End
	if end > start && d.Content[end-1] == '\r' {
		end--
	}
	return start, end
}

// PositionToOffset converts an editor position to a byte offset. Positions
// past the end of a line clamp to the line end.
func (d *Document) PositionToOffset(pos Position) int {
	n := int(pos.Line)
	if n >= d.lines.LineCount() {
		return len(d.Content)
	}
	offset, end := d.line(n)
	for units := int(pos.Character); units > 0 && offset < end; {
		r, size := utf8.DecodeRuneInString(d.Content[offset:])
		units -= utf16.RuneLen(r)
		offset += size
	}
	return offset
}

// OffsetToPosition converts a byte offset to an editor position, counting
// characters in UTF-16 code units.
func (d *Document) OffsetToPosition(offset int) Position {
	p := d.lines.Position(offset)
	units := 0
	for _, r := range d.Content[p.Offset-(p.Column-1) : p.Offset] {
		units += utf16.RuneLen(r)
	}
	return Position{
		Line:      uint32(p.Line - 1), //nolint:gosec // G115: lines start at 1
		Character: uint32(units),      //nolint:gosec // G115: never negative
	}
}

// LineColumnToOffset converts the 1-based line and byte column of a
// violation to a byte offset. The engine strips a leading BOM, so columns
// on the first line start after it.
func (d *Document) LineColumnToOffset(line, column int) int {
	switch {
	case line < 1:
		return 0
	case line > d.lines.LineCount():
		return len(d.Content)
	}
	start, end := d.line(line - 1)
	if line == 1 && strings.HasPrefix(d.Content, bom) {
		start += len(bom)
	}
	return min(start+max(column-1, 0), end)
}

// FullRange returns the range covering the whole document.
func (d *Document) FullRange() Range {
	return Range{End: d.OffsetToPosition(len(d.Content))}
}

// URIToPath converts a file:// URI to a file system path. Other schemes
// have no path.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return ""
	}
	return filepath.FromSlash(u.Path)
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}
