package diag

import (
	"fmt"
	"sort"
	"strings"

	"tsbind/internal/source"
)

type shortDiagnostic struct {
	Severity string
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShortDiagnostics renders one line per diagnostic,
// "SEV CODE path:line:col message", sorted by position. Notes become NOTE
// lines when includeNotes is set.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}
	rendered := make([]shortDiagnostic, 0, len(diags))
	for i := range diags {
		rendered = appendShort(rendered, &diags[i], fs, includeNotes)
	}
	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		return di.Column < dj.Column
	})

	var b strings.Builder
	for i, d := range rendered {
		fmt.Fprintf(&b, "%s %s %s:%d:%d %s", d.Severity, d.Code, d.Path, d.Line, d.Column, d.Message)
		if i < len(rendered)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func appendShort(out []shortDiagnostic, d *Diagnostic, fs *source.FileSet, includeNotes bool) []shortDiagnostic {
	path, pos := locate(fs, d.Primary)
	out = append(out, shortDiagnostic{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Path:     path,
		Line:     pos.Line,
		Column:   pos.Col,
		Message:  d.Message,
	})
	if !includeNotes {
		return out
	}
	for _, n := range d.Notes {
		notePath, notePos := locate(fs, n.Span)
		out = append(out, shortDiagnostic{
			Severity: "NOTE",
			Code:     d.Code.ID(),
			Path:     notePath,
			Line:     notePos.Line,
			Column:   notePos.Col,
			Message:  n.Msg,
		})
	}
	return out
}

func locate(fs *source.FileSet, sp source.Span) (string, source.LineCol) {
	f := fs.Get(sp.File)
	if f == nil {
		return "<unknown>", source.LineCol{}
	}
	start, _ := fs.Resolve(sp)
	return f.Path, start
}
