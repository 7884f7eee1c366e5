package diag

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"spoke/internal/source"
)

type shortLine struct {
	sev     string
	code    string
	path    string
	line    uint32
	col     uint32
	message string
}

func (l shortLine) String() string {
	return fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.line, l.col, l.message)
}

// FormatShortDiagnostics prints one line per diagnostic (and per note when
// includeNotes is set), sorted by path, position, severity and code. Paths
// are relative to the FileSet base directory so the output can be compared
// against golden files.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []shortLine
	for i := range diags {
		d := &diags[i]
		if l, ok := shortAt(fs, d.Primary); ok {
			l.sev, l.code, l.message = d.Severity.Label(), d.Code.ID(), oneLine(d.Message)
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := shortAt(fs, n.Span); ok {
				l.sev, l.code, l.message = "note", d.Code.ID(), oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}
	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			strings.Compare(a.path, b.path),
			cmp.Compare(a.line, b.line),
			cmp.Compare(a.col, b.col),
			strings.Compare(a.sev, b.sev),
			strings.Compare(a.code, b.code),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func shortAt(fs *source.FileSet, span source.Span) (shortLine, bool) {
	if int(span.File) >= fs.Len() {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := fs.Get(span.File).FormatPath("relative", fs.BaseDir())
	for strings.HasPrefix(path, "./") {
		path = path[2:]
	}
	return shortLine{path: path, line: start.Line, col: start.Col}, true
}

// oneLine folds every line break into a space.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
