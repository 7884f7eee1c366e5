package diag

import (
	"testing"

	"spoke/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/tests/sample.spoke", []byte("a\nb\n"), 0)

	diags := []Diagnostic{
		{
			Severity: SevWarning,
			Code:     GrmMiscasedModifier,
			Message:  "another",
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
		{
			Severity: SevError,
			Code:     NamExpectedName,
			Message:  "first line\nsecond",
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "note line"},
			},
		},
	}

	expected := "error NAM2001 tests/sample.spoke:1:1 first line second\n" +
		"note NAM2001 tests/sample.spoke:2:1 note line\n" +
		"warning GRM3003 tests/sample.spoke:2:1 another"

	if got := FormatShortDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected short diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestCodeIDRanges(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{LexUnclosedDelimiter, "LEX1007"},
		{NamEmptyName, "NAM2006"},
		{GrmUnknownModifier, "GRM3002"},
		{TrnEndOfInput, "TRN4002"},
		{SemEmptyRightOperand, "SEM5002"},
		{IOLoadFileError, "IO6001"},
		{ObsTimings, "OBS7001"},
		{UnknownCode, "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("%d.ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
	if Code(9999).Title() != "Unknown error" {
		t.Errorf("unknown code title = %q", Code(9999).Title())
	}
}

func TestBagLimit(t *testing.T) {
	bag := NewBag(2)
	for i := range 3 {
		bag.Add(NewError(LexUnknownChar, source.Span{Start: uint32(i)}, "x"))
	}
	if bag.Len() != 2 || bag.Dropped() != 1 {
		t.Fatalf("Len=%d Dropped=%d, want 2 and 1", bag.Len(), bag.Dropped())
	}

	unlimited := NewBag(0)
	for range 200 {
		unlimited.Add(NewWarning(GrmMiscasedModifier, source.Span{}, "w"))
	}
	if unlimited.Len() != 200 {
		t.Fatalf("unlimited bag kept %d", unlimited.Len())
	}
	if unlimited.HasErrors() || !unlimited.HasWarnings() {
		t.Fatalf("severity helpers are wrong")
	}
}

func TestBagSortAndDedup(t *testing.T) {
	bag := NewBag(0)
	bag.Add(NewError(SemEmptyLeftOperand, source.Span{Start: 5, End: 6}, "b"))
	bag.Add(NewWarning(GrmMiscasedModifier, source.Span{Start: 1, End: 2}, "a"))
	bag.Add(NewError(GrmMiscasedModifier, source.Span{Start: 1, End: 2}, "c"))
	bag.Add(NewError(SemEmptyLeftOperand, source.Span{Start: 5, End: 6}, "b"))

	bag.Dedup()
	if bag.Len() != 3 {
		t.Fatalf("Dedup kept %d items, want 3", bag.Len())
	}
	bag.Sort()
	items := bag.Items()
	if items[0].Severity != SevError || items[1].Severity != SevWarning || items[2].Primary.Start != 5 {
		t.Fatalf("unexpected order: %+v", items)
	}
}

func TestPendingEmitsOnce(t *testing.T) {
	bag := NewBag(0)
	b := ReportWarning(BagReporter{Bag: bag}, GrmMiscasedModifier, source.Span{Start: 1, End: 3}, "cased").
		WithNote(source.Span{Start: 0, End: 1}, "anchor").
		WithFix("lowercase", FixEdit{Span: source.Span{Start: 1, End: 3}, NewText: "eq"})
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || len(d.Fixes) != 1 || d.Fixes[0].Edits[0].NewText != "eq" {
		t.Fatalf("builder lost details: %+v", d)
	}
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := NewError(NamExpectedName, source.Span{}, "x").WithNote(source.Span{}, "a")
	first := base.WithNote(source.Span{}, "b")
	second := base.WithNote(source.Span{}, "c")
	if first.Notes[1].Msg != "b" || second.Notes[1].Msg != "c" || len(base.Notes) != 1 {
		t.Fatalf("notes share storage: %+v / %+v", first.Notes, second.Notes)
	}
}

func TestReporterFunc(t *testing.T) {
	var got []Code
	r := ReporterFunc(func(d Diagnostic) { got = append(got, d.Code) })
	ReportInfo(r, ObsCacheHit, source.Span{}, "hit").Emit()
	ReportError(nil, IOWriteError, source.Span{}, "dropped").Emit()
	if len(got) != 1 || got[0] != ObsCacheHit {
		t.Fatalf("reported %v", got)
	}
}

func TestSeverityNames(t *testing.T) {
	tests := []struct {
		sev          Severity
		upper, lower string
	}{
		{SevInfo, "INFO", "info"},
		{SevWarning, "WARNING", "warning"},
		{SevError, "ERROR", "error"},
		{Severity(9), "UNKNOWN", "info"},
	}
	for _, tt := range tests {
		if tt.sev.String() != tt.upper || tt.sev.Label() != tt.lower {
			t.Errorf("%d: %s/%s", tt.sev, tt.sev.String(), tt.sev.Label())
		}
	}
}
