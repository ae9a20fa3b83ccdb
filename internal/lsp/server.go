package lsp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/leapstack-labs/leaplint/pkg/engine"
)

const diagnosticSourceName = "leaplint"

// EngineFactory creates the lint engine for a workspace root.
type EngineFactory func(root string) (*engine.Engine, error)

// Options configure a Server.
type Options struct {
	// NewEngine is called once the client announced the workspace root.
	NewEngine EngineFactory
	// Root is used when the client does not send a workspace root.
	Root    string
	Version string
	Logger  *slog.Logger
}

// Server is a language server for SQL documents. It handles one client
// over one connection.
type Server struct {
	opts   Options
	conn   *conn
	logger *slog.Logger
	ctx    context.Context

	documents *DocumentStore
	fixes     *fixCache
	engine    *engine.Engine

	shuttingDown bool
	exited       bool
}

// handler serves one method. The result is sent back for requests and
// dropped for notifications.
type handler func(s *Server, params []byte) (any, error)

// documentHandlers serve the methods available between initialize and
// shutdown.
var documentHandlers = map[string]handler{
	"textDocument/didOpen":    (*Server).didOpen,
	"textDocument/didChange":  (*Server).didChange,
	"textDocument/didSave":    (*Server).didSave,
	"textDocument/didClose":   (*Server).didClose,
	"textDocument/formatting": (*Server).formatting,
	"textDocument/codeAction": (*Server).codeAction,
}

// NewServer creates a server reading requests from r and writing to w.
func NewServer(r io.Reader, w io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		opts:      opts,
		conn:      newConn(r, w),
		logger:    logger,
		ctx:       context.Background(),
		documents: NewDocumentStore(),
		fixes:     newFixCache(),
	}
}

// Run serves messages until the client sends exit, closes the stream or
// ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	s.ctx = ctx
	s.logger.Info("language server started")

	for !s.exited && ctx.Err() == nil {
		msg, err := s.conn.Read()
		if errors.Is(err, io.EOF) {
			s.logger.Info("client disconnected")
			return nil
		}
		if err != nil {
			s.logger.Error("failed to read message", "error", err)
			continue
		}
		s.dispatch(msg)
	}
	return nil
}

func (s *Server) dispatch(msg *Message) {
	if msg.Method == "" {
		return
	}
	s.logger.Debug("received", "method", msg.Method)

	result, err := s.serve(msg)
	if !msg.IsRequest() {
		if err != nil {
			s.logger.Error("notification failed", "method", msg.Method, "error", err)
		}
		return
	}

	if err != nil {
		var rerr *ResponseError
		if !errors.As(err, &rerr) {
			s.logger.Error("request failed", "method", msg.Method, "error", err)
			rerr = &ResponseError{Code: codeInternalError, Message: err.Error()}
		}
		err = s.conn.ReplyError(msg.ID, rerr)
	} else {
		err = s.conn.Reply(msg.ID, result)
	}
	if err != nil {
		s.logger.Error("failed to reply", "method", msg.Method, "error", err)
	}
}

func (s *Server) serve(msg *Message) (any, error) {
	switch msg.Method {
	case "initialize":
		return s.initialize(msg.Params)
	case "initialized":
		return nil, nil
	case "shutdown":
		s.shuttingDown = true
		s.logger.Info("shutdown requested")
		return nil, nil
	case "exit":
		s.exited = true
		return nil, nil
	}

	switch {
	case s.shuttingDown:
		return nil, &ResponseError{Code: codeInvalidRequest, Message: "server is shutting down"}
	case s.engine == nil:
		return nil, &ResponseError{Code: codeNotInitialized, Message: "server not initialized"}
	}

	h, ok := documentHandlers[msg.Method]
	if !ok {
		return nil, &ResponseError{Code: codeMethodNotFound, Message: "method not found: " + msg.Method}
	}
	return h(s, msg.Params)
}

func (s *Server) initialize(raw []byte) (any, error) {
	params, err := decode[InitializeParams](raw)
	if err != nil {
		return nil, err
	}

	root := URIToPath(params.RootURI)
	if root == "" {
		root = s.opts.Root
	}
	s.logger.Info("workspace root", "path", root)

	eng, err := s.opts.NewEngine(root)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	s.engine = eng

	return InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save:      &SaveOptions{},
			},
			DocumentFormattingProvider: true,
			CodeActionProvider: &CodeActionOptions{
				CodeActionKinds: []CodeActionKind{CodeActionKindQuickFix, CodeActionKindSourceFixAll},
			},
		},
		ServerInfo: &ServerInfo{Name: diagnosticSourceName, Version: s.opts.Version},
	}, nil
}

func (s *Server) didOpen(raw []byte) (any, error) {
	params, err := decode[DidOpenTextDocumentParams](raw)
	if err != nil {
		return nil, err
	}
	doc := params.TextDocument
	s.documents.Open(doc.URI, doc.Text, doc.Version)
	return nil, s.publishDiagnostics(doc.URI)
}

// didChange replaces the document with the last change; the server only
// asks for full sync.
func (s *Server) didChange(raw []byte) (any, error) {
	params, err := decode[DidChangeTextDocumentParams](raw)
	if err != nil {
		return nil, err
	}
	uri := params.TextDocument.URI
	if n := len(params.ContentChanges); n > 0 {
		s.documents.Update(uri, params.ContentChanges[n-1].Text, params.TextDocument.Version)
	}
	return nil, s.publishDiagnostics(uri)
}

func (s *Server) didSave(raw []byte) (any, error) {
	params, err := decode[DidSaveTextDocumentParams](raw)
	if err != nil {
		return nil, err
	}
	return nil, s.publishDiagnostics(params.TextDocument.URI)
}

func (s *Server) didClose(raw []byte) (any, error) {
	params, err := decode[DidCloseTextDocumentParams](raw)
	if err != nil {
		return nil, err
	}
	uri := params.TextDocument.URI
	s.documents.Close(uri)
	s.fixes.clearURI(uri)
	return nil, s.conn.Notify("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Diagnostics: []Diagnostic{},
	})
}
