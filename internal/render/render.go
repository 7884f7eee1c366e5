package render

import (
	"strings"

	"spoke/internal/diag"
	"spoke/internal/suite"
	"spoke/internal/token"
)

const (
	DefaultModule      = "spoketest"
	DefaultIndentWidth = 4
)

// DefaultAllow is the lint allow-list put on the generated module.
var DefaultAllow = []string{"unused_mut", "unused_variables"}

type Options struct {
	Module      string   // имя модуля-обёртки
	Allow       []string // nil: DefaultAllow, пустой срез: без атрибутов
	IndentWidth int
	UseTabs     bool
}

func (o Options) withDefaults() Options {
	if o.Module == "" {
		o.Module = DefaultModule
	}
	if o.Allow == nil {
		o.Allow = DefaultAllow
	}
	if o.IndentWidth == 0 {
		o.IndentWidth = DefaultIndentWidth
	}
	return o
}

// Render prints an assembled suite: diagnostics first, then the test module
// with the hoisted preamble and one function per test. Nothing is printed
// when the output is empty.
func Render(out suite.Output, opt Options) []byte {
	w := NewWriter(opt)
	opt = w.opt

	for i := range out.Diagnostics {
		writeDiagnostic(w, &out.Diagnostics[i])
	}
	if len(out.Preamble) == 0 && len(out.Tests) == 0 {
		return w.Bytes()
	}

	w.Line("#[cfg(test)]")
	for _, lint := range opt.Allow {
		w.Line("#[allow(" + lint + ")]")
	}
	w.Line("mod " + opt.Module + " {")
	w.IndentPush()

	if len(out.Preamble) > 0 {
		writeTokens(w, out.Preamble, false)
		w.Newline()
	}
	for _, tc := range out.Tests {
		w.Line("#[test]")
		w.Line("fn " + tc.Name + "() {")
		w.IndentPush()
		writeTokens(w, tc.Code, false)
		w.Newline()
		w.IndentPop()
		w.Line("}")
	}

	w.IndentPop()
	w.Line("}")
	return w.Bytes()
}

// Tokens prints a token sequence the way test bodies are printed.
func Tokens(toks []token.Token, opt Options) string {
	w := NewWriter(opt)
	writeTokens(w, toks, false)
	return string(w.Bytes())
}

func writeDiagnostic(w *Writer, d *diag.Diagnostic) {
	switch {
	case d.Severity >= diag.SevError:
		w.Line("compile_error!(" + quote(d.Message) + ");")
	case d.Severity == diag.SevWarning:
		w.Line("// warning: " + strings.ReplaceAll(d.Message, "\n", "\n// "))
	default:
		w.Line("// note: " + strings.ReplaceAll(d.Message, "\n", "\n// "))
	}
}

// writeTokens prints toks separated the way they were in the source: a line
// break where a newline preceded the token, one space where any other trivia
// did, nothing where the tokens were adjacent. Comments are not reproduced.
func writeTokens(w *Writer, toks []token.Token, separateFirst bool) {
	for i := range toks {
		tok := &toks[i]
		if i > 0 || separateFirst {
			switch {
			case tok.HasNewline():
				w.Newline()
			case len(tok.Leading) > 0:
				w.Space()
			}
		}
		writeToken(w, tok)
	}
}

func writeToken(w *Writer, tok *token.Token) {
	if tok.Kind != token.Group {
		w.WriteString(tok.Text)
		return
	}

	w.WriteString(tok.Delim.OpenText())
	if tok.Delim == token.Brace {
		w.IndentPush()
	}
	writeTokens(w, tok.Inner, true)
	if tok.Delim == token.Brace {
		w.IndentPop()
	}
	switch {
	case tok.CloseHasNewline():
		w.Newline()
	case len(tok.CloseLeading) > 0:
		w.Space()
	}
	w.WriteString(tok.Delim.CloseText())
}

// quote produces a string literal for the host language: only the backslash,
// the double quote and control characters are escaped.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		case 0:
			b.WriteString(`\0`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
