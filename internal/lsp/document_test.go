package lsp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentStore_OpenGetClose(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/model.sql"
	store.Open(uri, "SELECT 1 FROM users", 1)

	doc := store.Get(uri)
	require.NotNil(t, doc)
	assert.Equal(t, uri, doc.URI)
	assert.Equal(t, "SELECT 1 FROM users", doc.Content)
	assert.Equal(t, 1, doc.Version)

	store.Close(uri)
	assert.Nil(t, store.Get(uri))
}

func TestDocumentStore_Update(t *testing.T) {
	store := NewDocumentStore()

	uri := "file:///test/model.sql"
	store.Open(uri, "SELECT 1", 1)
	before := store.Get(uri)

	store.Update(uri, "SELECT 2\nFROM t", 2)

	doc := store.Get(uri)
	assert.Equal(t, "SELECT 2\nFROM t", doc.Content)
	assert.Equal(t, 2, doc.Version)
	assert.Equal(t, 2, doc.lines.LineCount())
	assert.Equal(t, "SELECT 1", before.Content, "documents handed out earlier do not change")

	// Updating a document that is not open does nothing.
	store.Update("file:///other.sql", "x", 1)
	assert.Nil(t, store.Get("file:///other.sql"))
}

func TestDocumentStore_URIs(t *testing.T) {
	store := NewDocumentStore()

	store.Open("file:///b.sql", "SELECT b", 1)
	store.Open("file:///a.sql", "SELECT a", 1)

	assert.Equal(t, []string{"file:///a.sql", "file:///b.sql"}, store.URIs())
}

func TestDocument_Positions(t *testing.T) {
	doc := newDocument("file:///x.sql", "SELECT 'é'\nFROM 𝔱\n", 1)

	tests := []struct {
		name   string
		offset int
		pos    Position
	}{
		{name: "start", offset: 0, pos: Position{Line: 0, Character: 0}},
		{name: "after two byte rune", offset: 10, pos: Position{Line: 0, Character: 9}},
		{name: "second line", offset: 12, pos: Position{Line: 1, Character: 0}},
		{name: "after surrogate pair", offset: 21, pos: Position{Line: 1, Character: 7}},
		{name: "end", offset: 22, pos: Position{Line: 2, Character: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.pos, doc.OffsetToPosition(tt.offset))
			assert.Equal(t, tt.offset, doc.PositionToOffset(tt.pos))
		})
	}

	assert.Equal(t, len(doc.Content), doc.PositionToOffset(Position{Line: 9}))
	assert.Equal(t, 11, doc.PositionToOffset(Position{Line: 0, Character: 99}), "clamped to the line end")
}

func TestDocument_LineColumnToOffset(t *testing.T) {
	doc := newDocument("file:///x.sql", "SELECT 1\r\nFROM t", 1)

	assert.Equal(t, 0, doc.LineColumnToOffset(1, 1))
	assert.Equal(t, 7, doc.LineColumnToOffset(1, 8))
	assert.Equal(t, 8, doc.LineColumnToOffset(1, 50), "clamped before the line separator")
	assert.Equal(t, 15, doc.LineColumnToOffset(2, 6))
	assert.Equal(t, len(doc.Content), doc.LineColumnToOffset(5, 1))

	withBOM := newDocument("file:///x.sql", "\ufeffselect 1", 1)
	assert.Equal(t, 3, withBOM.LineColumnToOffset(1, 1))
}

func TestDocument_FullRange(t *testing.T) {
	doc := newDocument("file:///x.sql", "SELECT 1\nFROM t", 1)
	assert.Equal(t, Range{End: Position{Line: 1, Character: 6}}, doc.FullRange())
}

func TestURIConversion(t *testing.T) {
	assert.Equal(t, "/project/models/a b.sql", URIToPath("file:///project/models/a%20b.sql"))
	assert.Equal(t, "", URIToPath("untitled:Untitled-1"))
	assert.Equal(t, "file:///project/models/a%20b.sql", PathToURI("/project/models/a b.sql"))
	assert.Equal(t, "file:///x.sql", PathToURI("file:///x.sql"))
}
