package reporter

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/leaplint/pkg/engine"
)

// Styles used by the plain reporter.
type Styles struct {
	Path     lipgloss.Style
	Location lipgloss.Style
	Message  lipgloss.Style
	Rule     lipgloss.Style
	Error    lipgloss.Style
}

// DefaultStyles returns the coloured styles.
func DefaultStyles() Styles {
	return Styles{
		Path:     lipgloss.NewStyle().Bold(true).Underline(true),
		Location: lipgloss.NewStyle().Faint(true),
		Message:  lipgloss.NewStyle(),
		Rule:     lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
}

// PlainStyles returns styles that render text unchanged.
func PlainStyles() Styles {
	s := lipgloss.NewStyle()
	return Styles{Path: s, Location: s, Message: s, Rule: s, Error: s}
}

// Plain prints one line per violation: file:line:col: message (rule). Output
// for a file is written when the file is done.
type Plain struct {
	out    io.Writer
	styles Styles
	group  bool

	collector
	writeMu sync.Mutex
}

// NewPlain creates a plain reporter.
func NewPlain(out io.Writer, color, groupByFile bool) *Plain {
	styles := PlainStyles()
	if color {
		styles = DefaultStyles()
	}
	return &Plain{out: out, styles: styles, group: groupByFile}
}

func (p *Plain) BeforeAll() {}

func (p *Plain) Before(file string) { p.before(file) }

func (p *Plain) OnLintError(file string, v engine.Violation) {
	if visible(v) {
		p.add(file, v)
	}
}

func (p *Plain) After(file string) {
	vs := p.take(file)
	if len(vs) == 0 {
		return
	}

	p.writeMu.Lock()
	defer p.writeMu.Unlock()
	if p.group {
		_, _ = fmt.Fprintln(p.out, p.styles.Path.Render(file))
	}
	for _, v := range vs {
		_, _ = fmt.Fprintln(p.out, p.line(file, v))
	}
	if p.group {
		_, _ = fmt.Fprintln(p.out)
	}
}

func (p *Plain) line(file string, v engine.Violation) string {
	loc := fmt.Sprintf("%d:%d", v.Line, v.Column)
	msg := v.Message
	if v.Status == engine.StatusFoundNotCorrectable {
		msg += " (cannot be auto-corrected)"
	}
	if v.Status == engine.StatusParseError || v.Status == engine.StatusInternalError || v.Status == engine.StatusNonConvergent {
		msg = p.styles.Error.Render(msg)
	} else {
		msg = p.styles.Message.Render(msg)
	}
	rule := p.styles.Rule.Render("(" + string(v.RuleID) + ")")
	if p.group {
		return fmt.Sprintf("  %s %s %s", p.styles.Location.Render(loc), msg, rule)
	}
	return fmt.Sprintf("%s:%s: %s %s", p.styles.Path.Render(file), p.styles.Location.Render(loc), msg, rule)
}

func (p *Plain) AfterAll() error { return nil }
