package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tsbind/internal/diag"
	"tsbind/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	note, path      *color.Color
	gutter, caret   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty writes diagnostics in bag order as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with the span underlined ^~~~ and, with
// ShowNotes, every note in the same form.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprintf("%s:%d:%d", formatPath(fs, d.Primary.File, opts.PathMode), start.Line, start.Col),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			p.severity(d.Severity).Sprint(d.Code.ID()),
			d.Message,
		)
		writeSnippet(w, fs, d.Primary, opts, p)
		if !opts.ShowNotes {
			continue
		}
		for _, note := range d.Notes {
			pos, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s: %s\n",
				p.note.Sprint("note:"),
				p.path.Sprintf("%s:%d:%d", formatPath(fs, note.Span.File, opts.PathMode), pos.Line, pos.Col),
				note.Msg,
			)
		}
	}
}

// writeSnippet prints the context lines and the primary line with a caret
// run under the span. Spans that cross lines are underlined to the end of
// the first line.
func writeSnippet(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts, p palette) {
	f := fs.Get(span.File)
	if f == nil {
		return
	}
	start, end := fs.Resolve(span)
	if start.Line == 0 {
		return
	}
	first := start.Line
	if ctx := uint32(max(opts.Context, 0)); ctx < first {
		first -= ctx
	} else {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))

	for line := first; line <= start.Line; line++ {
		text := expandTabs(f.GetLine(line))
		if opts.Width > 0 {
			text = runewidth.Truncate(text, int(opts.Width), "…")
		}
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, line), text)
	}

	raw := f.GetLine(start.Line)
	startCol := min(int(start.Col)-1, len(raw))
	endCol := len(raw)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(raw))
	}
	pad := runewidth.StringWidth(expandTabs(raw[:startCol]))
	width := max(runewidth.StringWidth(expandTabs(raw[startCol:max(endCol, startCol)])), 1)
	if opts.Width > 0 && pad >= int(opts.Width) {
		return
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var sb strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			n := tabWidth - col%tabWidth
			sb.WriteString(strings.Repeat(" ", n))
			col += n
			continue
		}
		sb.WriteRune(r)
		col += runewidth.RuneWidth(r)
	}
	return sb.String()
}

// Short writes one line per diagnostic, with NOTE lines for notes when asked.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	if out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes); out != "" {
		fmt.Fprintln(w, out)
	}
}
