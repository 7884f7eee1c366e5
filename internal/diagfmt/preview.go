package diagfmt

import (
	"fmt"
	"strings"

	"spoke/internal/diag"
	"spoke/internal/source"
)

// editPreview holds the lines touched by an edit before and after applying it.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.FixEdit) (editPreview, error) {
	if fs == nil || int(edit.Span.File) >= fs.Len() {
		return editPreview{}, fmt.Errorf("file %d is not loaded", edit.Span.File)
	}
	file := fs.Get(edit.Span.File)
	first, last := fs.Resolve(edit.Span)

	from := file.LineStart(first.Line)
	to := max(file.LineEnd(max(last.Line, first.Line)), from)
	if edit.Span.Start < from || edit.Span.End > to || edit.Span.Start > edit.Span.End {
		return editPreview{}, fmt.Errorf("edit %d..%d is outside lines %d..%d", edit.Span.Start, edit.Span.End, first.Line, last.Line)
	}

	block := string(file.Content[from:to])
	head := block[:edit.Span.Start-from]
	tail := block[edit.Span.End-from:]
	return editPreview{
		before: previewLines(block),
		after:  previewLines(head + edit.NewText + tail),
	}, nil
}

func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
