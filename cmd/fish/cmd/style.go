package cmd

import (
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

type styles struct {
	kind func(a ...any) string
	tag  func(a ...any) string
	ok   func(a ...any) string
	fail func(a ...any) string
	dim  func(a ...any) string
}

func newStyles(enabled bool) styles {
	style := func(attrs ...color.Attribute) func(a ...any) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}
	return styles{
		kind: style(color.FgCyan, color.Bold),
		tag:  style(color.FgMagenta),
		ok:   style(color.FgGreen),
		fail: style(color.FgRed, color.Bold),
		dim:  style(color.Faint),
	}
}

// colorEnabled reports whether w is a terminal and color was not disabled
// by flag or by NO_COLOR.
func colorEnabled(w io.Writer, disabled bool) bool {
	if disabled {
		return false
	}
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// tree colors the kind and tag of each line of a view.Dump.
func (s styles) tree(dump string) string {
	var sb strings.Builder
	for _, line := range strings.SplitAfter(dump, "\n") {
		if line == "" {
			continue
		}
		body := strings.TrimLeft(line, " ")
		sb.WriteString(line[:len(line)-len(body)])
		body = strings.TrimSuffix(body, "\n")

		tag := ""
		if i := strings.LastIndex(body, " #"); i >= 0 {
			body, tag = body[:i], body[i:]
		}
		kind, rest := body, ""
		if i := strings.IndexAny(body, " ("); i >= 0 {
			kind, rest = body[:i], body[i:]
		}
		sb.WriteString(s.kind(kind))
		sb.WriteString(rest)
		if tag != "" {
			sb.WriteString(s.tag(tag))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
