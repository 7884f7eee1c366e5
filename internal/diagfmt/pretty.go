package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"spoke/internal/diag"
	"spoke/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info *color.Color
	code, path      *color.Color
	gutter, caret   *color.Color
	note, fix       *color.Color
	added, removed  *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:     color.New(color.FgRed, color.Bold),
		warn:    color.New(color.FgYellow, color.Bold),
		info:    color.New(color.FgCyan, color.Bold),
		code:    color.New(color.Bold),
		path:    color.New(color.Bold),
		gutter:  color.New(color.FgBlue),
		caret:   color.New(color.FgRed, color.Bold),
		note:    color.New(color.FgCyan),
		fix:     color.New(color.FgGreen),
		added:   color.New(color.FgGreen),
		removed: color.New(color.FgRed),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.path, p.gutter, p.caret, p.note, p.fix, p.added, p.removed} {
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

// Pretty форматирует диагностики в человекочитаемый вид:
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// затем строка исходника с подчёркиванием ^~~~ по Span, заметки и исправления.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	limit := len(items)
	if opts.Max > 0 && opts.Max < limit {
		limit = opts.Max
	}
	p := newPalette(opts.Color)
	for i := range limit {
		prettyOne(w, &items[i], fs, opts, p)
	}
	if hidden := len(items) - limit + bag.Dropped(); hidden > 0 {
		fmt.Fprintf(w, "... %d more diagnostic(s) not shown\n", hidden)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	sev := p.severity(d.Severity)
	if !validSpan(fs, d.Primary) {
		fmt.Fprintf(w, "%s %s: %s\n", sev.Sprint(d.Severity.String()), p.code.Sprint(d.Code.ID()), d.Message)
		return
	}

	f := fs.Get(d.Primary.File)
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s: %s %s: %s\n",
		p.path.Sprintf("%s:%d:%d", formatPath(fs, f, opts.PathMode), start.Line, start.Col),
		sev.Sprint(d.Severity.String()),
		p.code.Sprint(d.Code.ID()),
		d.Message)

	writeSnippet(w, f, start, end, int(opts.Context), p)

	if opts.ShowNotes {
		for _, note := range d.Notes {
			if !validSpan(fs, note.Span) {
				fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), note.Msg)
				continue
			}
			nf := fs.Get(note.Span.File)
			ns, _ := fs.Resolve(note.Span)
			fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(fs, nf, opts.PathMode), ns.Line, ns.Col, note.Msg)
		}
	}

	if opts.ShowFixes {
		for i, fix := range d.Fixes {
			fmt.Fprintf(w, "  %s %s\n", p.fix.Sprintf("fix #%d:", i+1), fix.Title)
			for _, edit := range fix.Edits {
				writeEdit(w, fs, edit, opts, p)
			}
		}
	}
}

func writeEdit(w io.Writer, fs *source.FileSet, edit diag.FixEdit, opts PrettyOpts, p palette) {
	if !validSpan(fs, edit.Span) {
		fmt.Fprintf(w, "    edit apply=%q\n", edit.NewText)
		return
	}
	ef := fs.Get(edit.Span.File)
	es, ee := fs.Resolve(edit.Span)
	fmt.Fprintf(w, "    edit %s:%d:%d-%d:%d apply=%q\n", formatPath(fs, ef, opts.PathMode), es.Line, es.Col, ee.Line, ee.Col, edit.NewText)
	if !opts.ShowPreview {
		return
	}
	preview, err := previewEdit(fs, edit)
	if err != nil {
		return
	}
	fmt.Fprintln(w, "    preview:")
	for _, line := range preview.before {
		fmt.Fprintf(w, "      %s\n", p.removed.Sprint("- "+line))
	}
	for _, line := range preview.after {
		fmt.Fprintf(w, "      %s\n", p.added.Sprint("+ "+line))
	}
}

// writeSnippet печатает строки исходника с номером в «жёлобе» и подчёркивание
// под первой строкой диапазона. Ширина считается в колонках терминала.
func writeSnippet(w io.Writer, f *source.File, start, end source.LineCol, context int, p palette) {
	first := int(start.Line) - max(context, 0)
	if first < 1 {
		first = 1
	}
	gutterWidth := len(fmt.Sprint(start.Line))
	for ln := first; ln <= int(start.Line); ln++ {
		line := f.Line(uint32(ln))
		fmt.Fprintf(w, " %s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, ln), expandTabs(line))
	}

	line := f.Line(start.Line)
	from := min(int(start.Col)-1, len(line))
	to := len(line)
	if end.Line == start.Line {
		to = min(int(end.Col)-1, len(line))
	}
	pad := runewidth.StringWidth(expandTabs(line[:from]))
	width := 1
	if to > from {
		width = max(runewidth.StringWidth(expandTabs(line[from:to])), 1)
	}
	underline := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, " %s %s%s\n", p.gutter.Sprintf("%*s |", gutterWidth, ""), strings.Repeat(" ", pad), p.caret.Sprint(underline))
}

func expandTabs(s string) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// Short writes one line per diagnostic: `<severity> <CODE> <path>:<line>:<col> <message>`.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out == "" {
		return
	}
	fmt.Fprintln(w, out)
}
