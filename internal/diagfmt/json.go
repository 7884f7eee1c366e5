package diagfmt

import (
	"encoding/json"
	"io"

	"spoke/internal/diag"
	"spoke/internal/source"
)

// Location is a span in machine-readable form. Line and column fields are
// filled only when JSONOpts.IncludePositions is set.
type Location struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

type Note struct {
	Message  string   `json:"message"`
	Location Location `json:"location"`
}

type Edit struct {
	Location Location `json:"location"`
	NewText  string   `json:"new_text"`
	OldText  string   `json:"old_text,omitempty"`
	Before   []string `json:"before_lines,omitempty"`
	After    []string `json:"after_lines,omitempty"`
}

type Fix struct {
	Title string `json:"title"`
	Edits []Edit `json:"edits,omitempty"`
}

// Entry is one diagnostic.
type Entry struct {
	Severity string   `json:"severity"`
	Code     string   `json:"code"`
	Message  string   `json:"message"`
	Location Location `json:"location"`
	Notes    []Note   `json:"notes,omitempty"`
	Fixes    []Fix    `json:"fixes,omitempty"`
}

// Report is the JSON document for a bag of diagnostics. Dropped counts
// entries cut by JSONOpts.Max together with those the bag refused.
type Report struct {
	Diagnostics []Entry `json:"diagnostics"`
	Count       int     `json:"count"`
	Dropped     int     `json:"dropped,omitempty"`
}

type jsonBuilder struct {
	fs   *source.FileSet
	opts JSONOpts
}

func (b jsonBuilder) location(span source.Span) Location {
	loc := Location{StartByte: span.Start, EndByte: span.End}
	if !validSpan(b.fs, span) {
		return loc
	}
	loc.File = formatPath(b.fs, b.fs.Get(span.File), b.opts.PathMode)
	if b.opts.IncludePositions {
		start, end := b.fs.Resolve(span)
		loc.StartLine, loc.StartCol = start.Line, start.Col
		loc.EndLine, loc.EndCol = end.Line, end.Col
	}
	return loc
}

func (b jsonBuilder) entry(d *diag.Diagnostic) Entry {
	e := Entry{
		Severity: d.Severity.String(),
		Code:     d.Code.ID(),
		Message:  d.Message,
		Location: b.location(d.Primary),
	}
	// у таймингов всё содержимое в заметках
	if b.opts.IncludeNotes || d.Code == diag.ObsTimings {
		for _, n := range d.Notes {
			e.Notes = append(e.Notes, Note{Message: n.Msg, Location: b.location(n.Span)})
		}
	}
	if b.opts.IncludeFixes {
		for _, f := range d.Fixes {
			fix := Fix{Title: f.Title}
			for _, edit := range f.Edits {
				fix.Edits = append(fix.Edits, b.edit(edit))
			}
			e.Fixes = append(e.Fixes, fix)
		}
	}
	return e
}

func (b jsonBuilder) edit(edit diag.FixEdit) Edit {
	out := Edit{Location: b.location(edit.Span), NewText: edit.NewText}
	if !validSpan(b.fs, edit.Span) {
		return out
	}
	out.OldText = b.fs.Text(edit.Span)
	if b.opts.IncludePreviews {
		if p, err := previewEdit(b.fs, edit); err == nil {
			out.Before, out.After = p.before, p.after
		}
	}
	return out
}

// BuildReport converts the bag into its JSON document without encoding it.
func BuildReport(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) Report {
	items := bag.Items()
	n := len(items)
	if opts.Max > 0 {
		n = min(n, opts.Max)
	}
	b := jsonBuilder{fs: fs, opts: opts}
	rep := Report{Diagnostics: make([]Entry, 0, n), Dropped: len(items) - n + bag.Dropped()}
	for i := range items[:n] {
		rep.Diagnostics = append(rep.Diagnostics, b.entry(&items[i]))
	}
	rep.Count = len(rep.Diagnostics)
	return rep
}

// JSON writes the report as indented JSON.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildReport(bag, fs, opts))
}
