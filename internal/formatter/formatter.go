// Package formatter renders audit entries for the terminal and for HTML
// export.
package formatter

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"tamiz/internal/events"
)

var (
	infoDot    = color.New(color.FgGreen).SprintfFunc()
	statusDot  = color.New(color.FgMagenta).SprintfFunc()
	promptDim  = color.New(color.Faint).SprintfFunc()
	blockLabel = color.New(color.FgCyan).SprintfFunc()
	blockBody  = color.New(color.Faint).SprintfFunc()
)

// AnsiFormatter renders audit entries for terminal output.
type AnsiFormatter struct{}

// NewAnsiFormatter disables color when stdout is not a terminal.
func NewAnsiFormatter() *AnsiFormatter {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
	return &AnsiFormatter{}
}

func (f *AnsiFormatter) Format(e events.AuditEntry) string {
	switch e.Type {
	case events.AuditInfo:
		return infoDot("● ") + e.Content
	case events.AuditLLMPrompt:
		return promptDim("● Prompt (%s)", e.Source)
	case events.AuditLLMResponse:
		return infoDot("● Response:") + "\n" + e.Content
	case events.AuditTagBlock:
		return blockLabel("● %s", e.Source) + "\n" + blockBody("  %s", indent(e.Content))
	case events.AuditStatus:
		return statusDot("● %s", e.Content)
	default:
		return fmt.Sprintf("● [%s] %s", e.Type, e.Content)
	}
}

func indent(s string) string {
	return strings.ReplaceAll(strings.TrimRight(s, "\n"), "\n", "\n  ")
}

// HtmlFormatter renders audit entries as HTML fragments for export.
type HtmlFormatter struct{}

func (f *HtmlFormatter) Format(e events.AuditEntry) string {
	content := f.Escape(e.Content)
	switch e.Type {
	case events.AuditInfo:
		return "<i>" + content + "</i>"
	case events.AuditLLMPrompt:
		return "<b>PROMPT (" + e.Source + "):</b>\n<code>" + content + "</code>"
	case events.AuditLLMResponse:
		return "<b>RESPONSE:</b>\n" + content
	case events.AuditLLMChunk:
		return content
	case events.AuditTagBlock:
		return "<b>" + f.Escape(e.Source) + ":</b>\n<pre>" + content + "</pre>"
	case events.AuditStatus:
		return "<b>" + content + "</b>"
	default:
		return "<b>[" + e.Type + "]</b> " + content
	}
}

func (f *HtmlFormatter) Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	if len(s) > 3500 {
		s = s[:3500] + "...[TRUNCATED]"
	}
	return s
}
