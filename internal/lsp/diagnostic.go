package lsp

import (
	"fmt"

	"github.com/leapstack-labs/leaplint/pkg/engine"
)

// publishDiagnostics lints the document and publishes its violations.
func (s *Server) publishDiagnostics(uri string) error {
	doc := s.documents.Get(uri)
	if doc == nil {
		return nil
	}

	diagnostics := s.lint(doc)
	version := doc.Version
	return s.conn.Notify("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         uri,
		Version:     &version,
		Diagnostics: diagnostics,
	})
}

// lint runs the engine over doc and converts the visible violations.
// Correctable diagnostics are remembered for code actions.
func (s *Server) lint(doc *Document) []Diagnostic {
	vs, err := s.engine.Lint(s.ctx, engine.Code{Path: doc.Path(), Content: doc.Content})
	if err != nil {
		s.logger.Error("failed to lint document", "uri", doc.URI, "error", err)
		return []Diagnostic{{
			Range:    Range{},
			Severity: DiagnosticSeverityError,
			Source:   diagnosticSourceName,
			Code:     string(engine.EngineRuleID),
			Message:  err.Error(),
		}}
	}

	diagnostics := make([]Diagnostic, 0, len(vs))
	var correctable []Diagnostic
	for _, v := range vs {
		if v.Status == engine.StatusBaselineIgnored || v.Status == engine.StatusCorrected {
			continue
		}
		d := toDiagnostic(doc, v)
		diagnostics = append(diagnostics, d)
		if v.Status == engine.StatusFoundCorrectable {
			correctable = append(correctable, d)
		}
	}
	s.fixes.store(doc.URI, correctable)
	return diagnostics
}

// toDiagnostic converts a violation. The range covers the character the
// violation points at, or is empty at the end of a line.
func toDiagnostic(doc *Document, v engine.Violation) Diagnostic {
	start := doc.LineColumnToOffset(v.Line, v.Column)
	end := start
	if start < len(doc.Content) && doc.Content[start] != '\n' && doc.Content[start] != '\r' {
		end = start + 1
		for end < len(doc.Content) && !isRuneStart(doc.Content[end]) {
			end++
		}
	}

	message := v.Message
	if v.Status == engine.StatusFoundNotCorrectable {
		message += " (cannot be auto-corrected)"
	}

	return Diagnostic{
		Range: Range{
			Start: doc.OffsetToPosition(start),
			End:   doc.OffsetToPosition(end),
		},
		Severity: toLSPSeverity(v.Status),
		Code:     string(v.RuleID),
		Source:   diagnosticSourceName,
		Message:  message,
	}
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// toLSPSeverity maps statuses to severities: failures of the engine itself
// are errors, style violations are warnings.
func toLSPSeverity(status engine.Status) DiagnosticSeverity {
	switch status {
	case engine.StatusParseError, engine.StatusInternalError, engine.StatusNonConvergent:
		return DiagnosticSeverityError
	case engine.StatusFoundCorrectable, engine.StatusFoundNotCorrectable:
		return DiagnosticSeverityWarning
	default:
		return DiagnosticSeverityInformation
	}
}

// diagnosticKey identifies a diagnostic within a document.
func diagnosticKey(d Diagnostic) string {
	return fmt.Sprintf("%d:%d:%s", d.Range.Start.Line, d.Range.Start.Character, d.Code)
}
