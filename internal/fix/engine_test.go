package fix

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"spoke/internal/diag"
	"spoke/internal/source"
)

func loadTemp(t *testing.T, content string) (*source.FileSet, source.FileID, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fix.spoke")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return fs, id, path
}

func lowercase(id source.FileID, start, end uint32, text string) diag.Diagnostic {
	sp := source.Span{File: id, Start: start, End: end}
	return diag.NewWarning(diag.GrmMiscasedModifier, sp, "mis-cased").
		WithFix("use `"+text+"`", diag.FixEdit{Span: sp, NewText: text})
}

func TestApplyAll(t *testing.T) {
	fs, id, path := loadTemp(t, `$"a" x $EQ y; $"b" x $Ne y;`)
	diags := []diag.Diagnostic{
		lowercase(id, 22, 24, "ne"),
		lowercase(id, 8, 10, "eq"),
	}

	res, err := Apply(fs, diags, ModeAll)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 2 || len(res.Files) != 1 || res.Files[0].Edits != 2 {
		t.Fatalf("result = %+v", res)
	}
	if res.Applied[0].ID != "GRM3003-8-0" {
		t.Errorf("first applied = %q, want sorted by position", res.Applied[0].ID)
	}
	got, _ := os.ReadFile(path)
	if string(got) != `$"a" x $eq y; $"b" x $ne y;` {
		t.Errorf("content = %q", got)
	}
}

func TestApplyOnce(t *testing.T) {
	fs, id, path := loadTemp(t, `$"a" x $EQ y; $"b" x $NE y;`)
	diags := []diag.Diagnostic{lowercase(id, 22, 24, "ne"), lowercase(id, 8, 10, "eq")}

	res, err := Apply(fs, diags, ModeOnce)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 {
		t.Fatalf("applied = %+v", res.Applied)
	}
	got, _ := os.ReadFile(path)
	if string(got) != `$"a" x $eq y; $"b" x $NE y;` {
		t.Errorf("content = %q", got)
	}
}

func TestApplyShiftsLaterEdits(t *testing.T) {
	fs, id, path := loadTemp(t, "ab cd")
	diags := []diag.Diagnostic{
		diag.NewWarning(diag.GrmMiscasedModifier, source.Span{File: id, Start: 0, End: 2}, "w").
			WithFix("grow", diag.FixEdit{Span: source.Span{File: id, Start: 0, End: 2}, NewText: "abcd"}),
		diag.NewWarning(diag.GrmMiscasedModifier, source.Span{File: id, Start: 3, End: 5}, "w").
			WithFix("shrink", diag.FixEdit{Span: source.Span{File: id, Start: 3, End: 5}, NewText: "c"}),
	}
	if _, err := Apply(fs, diags, ModeAll); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	got, _ := os.ReadFile(path)
	if string(got) != "abcd c" {
		t.Errorf("content = %q", got)
	}
}

func TestApplySkipsConflicts(t *testing.T) {
	fs, id, _ := loadTemp(t, "abcdef")
	diags := []diag.Diagnostic{
		lowercase(id, 0, 4, "X"),
		lowercase(id, 2, 6, "Y"),
	}
	res, err := Apply(fs, diags, ModeAll)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if len(res.Applied) != 1 || len(res.Skipped) != 1 {
		t.Fatalf("result = %+v", res)
	}
	if res.Skipped[0].Reason != "conflicts with a previously applied edit" {
		t.Errorf("reason = %q", res.Skipped[0].Reason)
	}
}

func TestApplyVirtualAndEmpty(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("<stdin>", []byte("$EQ"))

	res, err := Apply(fs, []diag.Diagnostic{lowercase(id, 1, 3, "eq")}, ModeAll)
	if !errors.Is(err, ErrNoFixes) {
		t.Fatalf("err = %v", err)
	}
	if len(res.Skipped) != 1 || res.Skipped[0].Reason != "target file is virtual" {
		t.Errorf("skipped = %+v", res.Skipped)
	}

	if _, err := Apply(fs, nil, ModeAll); !errors.Is(err, ErrNoFixes) {
		t.Errorf("no diagnostics: err = %v", err)
	}
}

func TestApplyRefusesChangedFile(t *testing.T) {
	fs, id, path := loadTemp(t, "$EQ")
	if err := os.WriteFile(path, []byte("changed"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := Apply(fs, []diag.Diagnostic{lowercase(id, 1, 3, "eq")}, ModeAll); err == nil {
		t.Fatal("expected error for a file changed on disk")
	}
}

func TestSpansConflict(t *testing.T) {
	sp := func(s, e uint32) source.Span { return source.Span{Start: s, End: e} }
	cases := []struct {
		a, b source.Span
		want bool
	}{
		{sp(1, 1), sp(1, 1), false},
		{sp(2, 2), sp(1, 3), true},
		{sp(1, 3), sp(3, 3), false},
		{sp(0, 2), sp(2, 4), false},
		{sp(0, 3), sp(2, 4), true},
	}
	for _, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.want)
		}
	}
}
