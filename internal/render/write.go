package render

import "strings"

// Writer builds the generated file line by line. Indentation is emitted
// lazily before the first text of each line, so empty lines stay empty.
type Writer struct {
	opt   Options
	buf   strings.Builder
	unit  string // один уровень отступа
	depth int
	fresh bool // в начале строки
}

func NewWriter(opt Options) *Writer {
	opt = opt.withDefaults()
	unit := "\t"
	if !opt.UseTabs {
		unit = strings.Repeat(" ", opt.IndentWidth)
	}
	return &Writer{opt: opt, unit: unit, fresh: true}
}

func (w *Writer) Bytes() []byte { return []byte(w.buf.String()) }

func (w *Writer) last() byte {
	s := w.buf.String()
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

// WriteString appends s, indenting first when a line is just starting.
func (w *Writer) WriteString(s string) {
	if s == "" {
		return
	}
	if w.fresh {
		w.buf.WriteString(strings.Repeat(w.unit, w.depth))
		w.fresh = false
	}
	w.buf.WriteString(s)
	w.fresh = strings.HasSuffix(s, "\n")
}

// Line writes s and ends the line.
func (w *Writer) Line(s string) {
	w.WriteString(s)
	w.Newline()
}

// Space separates two tokens on the same line. It does nothing at the start
// of a line or after whitespace.
func (w *Writer) Space() {
	if w.fresh {
		return
	}
	switch w.last() {
	case 0, ' ', '\t':
		return
	}
	w.buf.WriteByte(' ')
}

// Newline ends the current line. Consecutive calls do not produce blank
// lines.
func (w *Writer) Newline() {
	if b := w.last(); b != 0 && b != '\n' {
		w.buf.WriteByte('\n')
	}
	w.fresh = true
}

func (w *Writer) IndentPush() { w.depth++ }

func (w *Writer) IndentPop() { w.depth = max(w.depth-1, 0) }
