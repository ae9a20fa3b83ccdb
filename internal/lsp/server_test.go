package lsp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leaplint/internal/testutil"
	"github.com/leapstack-labs/leaplint/pkg/engine"
	"github.com/leapstack-labs/leaplint/pkg/rule"
	"github.com/leapstack-labs/leaplint/pkg/rules/standard"
)

// session scripts the messages a client sends.
type session struct {
	t   *testing.T
	in  bytes.Buffer
	ids int
}

func (s *session) request(method string, params any) int {
	s.ids++
	s.write(map[string]any{"jsonrpc": "2.0", "id": s.ids, "method": method, "params": params})
	return s.ids
}

func (s *session) notify(method string, params any) {
	s.write(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

func (s *session) write(msg any) {
	body, err := json.Marshal(msg)
	require.NoError(s.t, err)
	_, _ = fmt.Fprintf(&s.in, "Content-Length: %d\r\n\r\n%s", len(body), body)
}

// run serves the scripted session and returns the messages the server sent.
func (s *session) run(root string) []*Message {
	s.t.Helper()
	var out bytes.Buffer
	server := NewServer(&s.in, &out, Options{
		NewEngine: func(dir string) (*engine.Engine, error) {
			return engine.New(engine.Config{
				RuleSets: []*rule.Set{standard.RuleSet()},
				Root:     dir,
				Logger:   testutil.NewTestLogger(s.t),
			})
		},
		Root:   root,
		Logger: testutil.NewTestLogger(s.t),
	})
	require.NoError(s.t, server.Run(context.Background()))

	reader := newConn(&out, io.Discard)
	var msgs []*Message
	for {
		msg, err := reader.Read()
		if err != nil {
			require.ErrorIs(s.t, err, io.EOF)
			return msgs
		}
		msgs = append(msgs, msg)
	}
}

func response(t *testing.T, msgs []*Message, id int) *Message {
	t.Helper()
	for _, m := range msgs {
		if string(m.ID) == fmt.Sprint(id) {
			return m
		}
	}
	t.Fatalf("no response for request %d", id)
	return nil
}

func notifications(msgs []*Message, method string) []*Message {
	var out []*Message
	for _, m := range msgs {
		if len(m.ID) == 0 && m.Method == method {
			out = append(out, m)
		}
	}
	return out
}

func newLSPProject(t *testing.T) (root, uri string) {
	t.Helper()
	root = testutil.NewProject(t, map[string]string{
		".editorconfig": "root = true\n\n[*.sql]\nleaplint_keyword_case = upper\n",
	})
	return root, PathToURI(filepath.Join(root, "q.sql"))
}

func TestServer_LintAndFormat(t *testing.T) {
	root, uri := newLSPProject(t)
	s := &session{t: t}

	initID := s.request("initialize", map[string]any{"processId": 1, "rootUri": PathToURI(root)})
	s.notify("initialized", map[string]any{})
	s.notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "languageId": "sql", "version": 1, "text": "select a ,b\nfrom t\n"},
	})
	formatID := s.request("textDocument/formatting", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"options":      map[string]any{"tabSize": 4, "insertSpaces": true},
	})
	actionID := s.request("textDocument/codeAction", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"range":        Range{},
		"context": map[string]any{"diagnostics": []Diagnostic{{
			Range:   Range{End: Position{Character: 1}},
			Code:    string(standard.KeywordCaseID),
			Source:  "leaplint",
			Message: "Keyword 'select' must be upper case",
		}}},
	})
	s.notify("textDocument/didChange", map[string]any{
		"textDocument":   map[string]any{"uri": uri, "version": 2},
		"contentChanges": []map[string]any{{"text": "SELECT a, b\nFROM t\n"}},
	})
	shutdownID := s.request("shutdown", nil)
	s.notify("exit", nil)

	msgs := s.run(root)

	var init InitializeResult
	require.NoError(t, json.Unmarshal(response(t, msgs, initID).Result, &init))
	assert.True(t, init.Capabilities.DocumentFormattingProvider)
	require.NotNil(t, init.Capabilities.CodeActionProvider)

	published := notifications(msgs, "textDocument/publishDiagnostics")
	require.Len(t, published, 2)

	var first PublishDiagnosticsParams
	require.NoError(t, json.Unmarshal(published[0].Params, &first))
	assert.Equal(t, uri, first.URI)
	var keywords []Position
	for _, d := range first.Diagnostics {
		assert.Equal(t, "leaplint", d.Source)
		assert.Equal(t, DiagnosticSeverityWarning, d.Severity)
		if d.Code == string(standard.KeywordCaseID) {
			keywords = append(keywords, d.Range.Start)
		}
	}
	assert.Equal(t, []Position{{Line: 0, Character: 0}, {Line: 1, Character: 0}}, keywords)

	var second PublishDiagnosticsParams
	require.NoError(t, json.Unmarshal(published[1].Params, &second))
	assert.Empty(t, second.Diagnostics)
	require.NotNil(t, second.Version)
	assert.Equal(t, 2, *second.Version)

	var edits []TextEdit
	require.NoError(t, json.Unmarshal(response(t, msgs, formatID).Result, &edits))
	require.Len(t, edits, 1)
	assert.Equal(t, "SELECT a, b\nFROM t\n", edits[0].NewText)
	assert.Equal(t, Range{End: Position{Line: 2}}, edits[0].Range)

	var actions []CodeAction
	require.NoError(t, json.Unmarshal(response(t, msgs, actionID).Result, &actions))
	require.Len(t, actions, 2)
	assert.Equal(t, CodeActionKindQuickFix, actions[0].Kind)
	assert.True(t, actions[0].IsPreferred)
	assert.Equal(t, CodeActionKindSourceFixAll, actions[1].Kind)
	assert.Equal(t, "SELECT a, b\nFROM t\n", actions[1].Edit.Changes[uri][0].NewText)

	assert.Nil(t, response(t, msgs, shutdownID).Error)
}

func TestServer_FormattingUnchanged(t *testing.T) {
	root, uri := newLSPProject(t)
	s := &session{t: t}

	s.request("initialize", map[string]any{"rootUri": PathToURI(root)})
	s.notify("textDocument/didOpen", map[string]any{
		"textDocument": map[string]any{"uri": uri, "version": 1, "text": "SELECT 1\n"},
	})
	formatID := s.request("textDocument/formatting", map[string]any{"textDocument": map[string]any{"uri": uri}})
	actionID := s.request("textDocument/codeAction", map[string]any{
		"textDocument": map[string]any{"uri": uri},
		"context":      map[string]any{"diagnostics": []Diagnostic{}, "only": []string{"source.fixAll"}},
	})
	s.notify("textDocument/didClose", map[string]any{"textDocument": map[string]any{"uri": uri}})
	s.notify("exit", nil)

	msgs := s.run(root)

	assert.JSONEq(t, "[]", string(response(t, msgs, formatID).Result))
	assert.JSONEq(t, "[]", string(response(t, msgs, actionID).Result))

	published := notifications(msgs, "textDocument/publishDiagnostics")
	require.Len(t, published, 2)
	var closed PublishDiagnosticsParams
	require.NoError(t, json.Unmarshal(published[1].Params, &closed))
	assert.Empty(t, closed.Diagnostics)
}

func TestServer_Errors(t *testing.T) {
	root, uri := newLSPProject(t)
	s := &session{t: t}

	early := s.request("textDocument/formatting", map[string]any{"textDocument": map[string]any{"uri": uri}})
	s.request("initialize", map[string]any{"rootUri": PathToURI(root)})
	unknown := s.request("textDocument/hover", map[string]any{})
	s.request("shutdown", nil)
	late := s.request("textDocument/formatting", map[string]any{"textDocument": map[string]any{"uri": uri}})
	s.notify("exit", nil)

	msgs := s.run(root)

	require.NotNil(t, response(t, msgs, early).Error)
	assert.Equal(t, codeNotInitialized, response(t, msgs, early).Error.Code)
	require.NotNil(t, response(t, msgs, unknown).Error)
	assert.Equal(t, codeMethodNotFound, response(t, msgs, unknown).Error.Code)
	require.NotNil(t, response(t, msgs, late).Error)
	assert.Equal(t, codeInvalidRequest, response(t, msgs, late).Error.Code)
}

func TestServer_RootFallback(t *testing.T) {
	root, _ := newLSPProject(t)
	s := &session{t: t}

	s.request("initialize", map[string]any{})
	s.notify("exit", nil)

	var seen string
	var out bytes.Buffer
	server := NewServer(&s.in, &out, Options{
		NewEngine: func(dir string) (*engine.Engine, error) {
			seen = dir
			return engine.New(engine.Config{RuleSets: []*rule.Set{standard.RuleSet()}, Root: dir})
		},
		Root: root,
	})
	require.NoError(t, server.Run(context.Background()))
	assert.Equal(t, root, seen)
}

func TestKindRequested(t *testing.T) {
	assert.True(t, kindRequested(nil, CodeActionKindQuickFix))
	assert.True(t, kindRequested([]CodeActionKind{CodeActionKindSource}, CodeActionKindSourceFixAll))
	assert.False(t, kindRequested([]CodeActionKind{CodeActionKindQuickFix}, CodeActionKindSourceFixAll))
	assert.False(t, kindRequested([]CodeActionKind{"source.organizeImports"}, CodeActionKindSourceFixAll))
}

func TestConn_ReadWrite(t *testing.T) {
	var buf bytes.Buffer
	c := newConn(&buf, &buf)

	require.NoError(t, c.Notify("window/logMessage", map[string]string{"message": "héllo"}))
	require.NoError(t, c.Reply([]byte("7"), []int{1}))
	require.NoError(t, c.ReplyError([]byte("8"), &ResponseError{Code: codeInvalidParams, Message: "bad"}))

	msg, err := c.Read()
	require.NoError(t, err)
	assert.Equal(t, "2.0", msg.JSONRPC)
	assert.Equal(t, "window/logMessage", msg.Method)
	assert.False(t, msg.IsRequest())
	assert.JSONEq(t, `{"message":"héllo"}`, string(msg.Params))

	msg, err = c.Read()
	require.NoError(t, err)
	assert.Equal(t, "7", string(msg.ID))
	assert.JSONEq(t, "[1]", string(msg.Result))

	msg, err = c.Read()
	require.NoError(t, err)
	require.NotNil(t, msg.Error)
	assert.Equal(t, codeInvalidParams, msg.Error.Code)

	_, err = c.Read()
	assert.ErrorIs(t, err, io.EOF)
}

func TestConn_InvalidFrame(t *testing.T) {
	c := newConn(bytes.NewBufferString("Content-Type: text/plain\r\n\r\n{}"), io.Discard)
	_, err := c.Read()
	require.Error(t, err)
	assert.NotErrorIs(t, err, io.EOF)
}
