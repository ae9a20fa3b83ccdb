package lsp

import (
	"slices"
	"strings"
	"sync"

	"github.com/leapstack-labs/leaplint/pkg/engine"
)

// fixCache remembers the correctable diagnostics of each document.
type fixCache struct {
	mu    sync.RWMutex
	fixes map[string]map[string]bool // URI -> diagnostic key
}

func newFixCache() *fixCache {
	return &fixCache{fixes: make(map[string]map[string]bool)}
}

// store replaces the correctable diagnostics of uri.
func (c *fixCache) store(uri string, diagnostics []Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make(map[string]bool, len(diagnostics))
	for _, d := range diagnostics {
		keys[diagnosticKey(d)] = true
	}
	c.fixes[uri] = keys
}

// correctable reports whether d was reported as correctable for uri.
func (c *fixCache) correctable(uri string, d Diagnostic) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fixes[uri][diagnosticKey(d)]
}

// hasAny reports whether uri has correctable diagnostics.
func (c *fixCache) hasAny(uri string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.fixes[uri]) > 0
}

// clearURI removes all cached fixes for a URI.
func (c *fixCache) clearURI(uri string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.fixes, uri)
}

func (s *Server) formatting(raw []byte) (any, error) {
	params, err := decode[DocumentFormattingParams](raw)
	if err != nil {
		return nil, err
	}
	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		return []TextEdit{}, nil
	}
	return s.formatEdits(doc)
}

// formatEdits formats doc and returns one edit replacing the whole
// document, or none when nothing changes.
func (s *Server) formatEdits(doc *Document) ([]TextEdit, error) {
	out, _, err := s.engine.Format(s.ctx, engine.Code{Path: doc.Path(), Content: doc.Content})
	if err != nil {
		return nil, err
	}
	if out == doc.Content {
		return []TextEdit{}, nil
	}
	return []TextEdit{{Range: doc.FullRange(), NewText: out}}, nil
}

func (s *Server) codeAction(raw []byte) (any, error) {
	params, err := decode[CodeActionParams](raw)
	if err != nil {
		return nil, err
	}
	return s.getCodeActions(params), nil
}

// getCodeActions offers formatting the document as the fix for correctable
// diagnostics. Formatting applies every correction at once, so all quick
// fixes carry the same edit.
func (s *Server) getCodeActions(params CodeActionParams) []CodeAction {
	actions := []CodeAction{}
	uri := params.TextDocument.URI
	doc := s.documents.Get(uri)
	if doc == nil || !s.fixes.hasAny(uri) {
		return actions
	}

	var fixable []Diagnostic
	for _, d := range params.Context.Diagnostics {
		if d.Source == diagnosticSourceName && s.fixes.correctable(uri, d) {
			fixable = append(fixable, d)
		}
	}

	wantQuickFix := len(fixable) > 0 && kindRequested(params.Context.Only, CodeActionKindQuickFix)
	wantFixAll := kindRequested(params.Context.Only, CodeActionKindSourceFixAll)
	if !wantQuickFix && !wantFixAll {
		return actions
	}

	edits, err := s.formatEdits(doc)
	if err != nil {
		s.logger.Error("failed to format document", "uri", uri, "error", err)
		return actions
	}
	if len(edits) == 0 {
		return actions
	}
	edit := &WorkspaceEdit{Changes: map[string][]TextEdit{uri: edits}}

	if wantQuickFix {
		for _, d := range fixable {
			actions = append(actions, CodeAction{
				Title:       "Fix '" + d.Code + "' by formatting the document",
				Kind:        CodeActionKindQuickFix,
				Diagnostics: []Diagnostic{d},
				IsPreferred: len(fixable) == 1,
				Edit:        edit,
			})
		}
	}
	if wantFixAll {
		actions = append(actions, CodeAction{
			Title: "Fix all auto-correctable leaplint violations",
			Kind:  CodeActionKindSourceFixAll,
			Edit:  edit,
		})
	}
	return actions
}

// kindRequested reports whether kind passes the client's filter. A filter
// entry matches its own kind and every kind below it.
func kindRequested(only []CodeActionKind, kind CodeActionKind) bool {
	if len(only) == 0 {
		return true
	}
	return slices.ContainsFunc(only, func(k CodeActionKind) bool {
		return k == kind || strings.HasPrefix(string(kind), string(k)+".")
	})
}
