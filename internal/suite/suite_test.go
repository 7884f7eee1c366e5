package suite

import (
	"testing"

	"spoke/internal/diag"
	"spoke/internal/name"
	"spoke/internal/source"
	"spoke/internal/token"
)

func TestMissingNamesAreNumbered(t *testing.T) {
	g := New()
	f := name.NewFactory()
	want := []string{"missing_name", "missing_name_2", "missing_name_3"}
	for _, w := range want {
		n := g.MakeMissingName(f, source.Span{})
		if n.Raw() != w {
			t.Fatalf("got %q, want %q", n.Raw(), w)
		}
	}
	if f.Count() != 3 {
		t.Fatalf("placeholder names must come from the given factory, count=%d", f.Count())
	}
}

func TestAssembleKeepsOrderAndIsEmpty(t *testing.T) {
	g := New()
	if !g.Assemble().Empty() {
		t.Fatalf("fresh generator must assemble to empty output")
	}

	g.PushPreamble(token.Token{Kind: token.Ident, Text: "use"})
	g.PushTest(TestCase{Name: "a"})
	diag.ReportWarning(g, diag.GrmMiscasedModifier, source.Span{}, "w").Emit()
	g.PushTest(TestCase{Name: "b"})

	out := g.Assemble()
	if out.Empty() || out.HasErrors() {
		t.Fatalf("unexpected output state %+v", out)
	}
	if len(out.Tests) != 2 || out.Tests[0].Name != "a" || out.Tests[1].Name != "b" {
		t.Fatalf("tests out of order: %+v", out.Tests)
	}
	if len(out.Diagnostics) != 1 || out.Diagnostics[0].Severity != diag.SevWarning {
		t.Fatalf("diagnostics = %+v", out.Diagnostics)
	}
}

func TestDuplicateFunctionNamesAreReported(t *testing.T) {
	g := New()
	g.PushTest(TestCase{Name: "same", Anchor: source.Span{Start: 1, End: 2}})
	g.PushTest(TestCase{Name: "same", Anchor: source.Span{Start: 10, End: 12}})

	out := g.Assemble()
	if len(out.Tests) != 1 {
		t.Fatalf("duplicate must not be emitted, got %d tests", len(out.Tests))
	}
	if !out.HasErrors() || out.Diagnostics[0].Code != diag.NamDuplicateName {
		t.Fatalf("expected NamDuplicateName, got %+v", out.Diagnostics)
	}
	if notes := out.Diagnostics[0].Notes; len(notes) != 1 || notes[0].Span.Start != 1 {
		t.Fatalf("note should point at the first test, got %+v", notes)
	}
}
