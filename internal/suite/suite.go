// Package suite accumulates everything one transform produces: diagnostics,
// the hoisted preamble and the generated test cases.
package suite

import (
	"fmt"

	"spoke/internal/diag"
	"spoke/internal/name"
	"spoke/internal/source"
	"spoke/internal/token"
)

// TestCase is one generated test function.
type TestCase struct {
	Name   string      // function name
	Full   string      // human-readable qualified title
	Anchor source.Span // where the test was declared
	Code   []token.Token
}

// Output is the assembled result of a transform, in emission order.
type Output struct {
	Diagnostics []diag.Diagnostic
	Preamble    []token.Token
	Tests       []TestCase
}

// Empty reports whether nothing at all was produced.
func (o Output) Empty() bool {
	return len(o.Diagnostics) == 0 && len(o.Preamble) == 0 && len(o.Tests) == 0
}

// HasErrors reports whether any diagnostic is an error.
func (o Output) HasErrors() bool {
	for i := range o.Diagnostics {
		if o.Diagnostics[i].IsError() {
			return true
		}
	}
	return false
}

// Generator is the per-transform accumulator. Its lists are append-only.
// Generator also implements diag.Reporter so states can report through the
// diag builders.
type Generator struct {
	diags    []diag.Diagnostic
	preamble []token.Token
	tests    []TestCase
	missing  int
	seen     map[string]source.Span
}

func New() *Generator {
	return &Generator{seen: make(map[string]source.Span)}
}

// PushPreamble appends a token to the hoisted preamble.
func (g *Generator) PushPreamble(tok token.Token) {
	g.preamble = append(g.preamble, tok)
}

// PushError appends a diagnostic of any severity.
func (g *Generator) PushError(d diag.Diagnostic) {
	g.diags = append(g.diags, d)
}

// Report implements diag.Reporter.
func (g *Generator) Report(d diag.Diagnostic) { g.PushError(d) }

// PushTest appends a test case. A second test with the same function name is
// not emitted; a diagnostic pointing at both declarations is recorded instead.
func (g *Generator) PushTest(tc TestCase) {
	if first, dup := g.seen[tc.Name]; dup {
		diag.ReportError(g, diag.NamDuplicateName, tc.Anchor,
			fmt.Sprintf("a test named `%s` was already generated from this suite", tc.Name)).
			WithNote(first, "first defined here").
			Emit()
		return
	}
	g.seen[tc.Name] = tc.Anchor
	g.tests = append(g.tests, tc)
}

// MakeMissingName mints a placeholder name in f for an anchor whose name
// could not be read: missing_name, missing_name_2, ...
func (g *Generator) MakeMissingName(f *name.Factory, span source.Span) name.Name {
	g.missing++
	text := "missing_name"
	if g.missing > 1 {
		text = fmt.Sprintf("missing_name_%d", g.missing)
	}
	return f.MakeName(span, text)
}

// Assemble returns the output. The generator may keep accumulating afterwards;
// the returned slices are copies.
func (g *Generator) Assemble() Output {
	return Output{
		Diagnostics: append([]diag.Diagnostic(nil), g.diags...),
		Preamble:    append([]token.Token(nil), g.preamble...),
		Tests:       append([]TestCase(nil), g.tests...),
	}
}
