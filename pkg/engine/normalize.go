package engine

import (
	"strings"

	"github.com/leapstack-labs/leaplint/pkg/editorconfig"
)

const bom = "\ufeff"

// source is file content with the byte order mark removed and line
// separators normalised to LF, plus what is needed to restore them.
type source struct {
	text string
	bom  bool
	crlf bool
}

func normalize(content string) source {
	var s source
	if after, ok := strings.CutPrefix(content, bom); ok {
		s.bom = true
		content = after
	}
	if strings.Contains(content, "\r\n") {
		s.crlf = true
		content = strings.ReplaceAll(content, "\r\n", "\n")
	}
	s.text = content
	return s
}

// restore re-applies the byte order mark and writes line separators as
// end_of_line says, or as CRLF when it is unset and the input used CRLF.
func (s source) restore(text string, cfg *editorconfig.Config) string {
	sep := "\n"
	if _, explicit := cfg.Raw(editorconfig.EndOfLineProperty.Name); explicit {
		switch editorconfig.EndOfLineProperty.Get(cfg) {
		case editorconfig.EndOfLineCRLF:
			sep = "\r\n"
		case editorconfig.EndOfLineCR:
			sep = "\r"
		}
	} else if s.crlf {
		sep = "\r\n"
	}
	if sep != "\n" {
		text = strings.ReplaceAll(text, "\n", sep)
	}
	if s.bom {
		text = bom + text
	}
	return text
}
