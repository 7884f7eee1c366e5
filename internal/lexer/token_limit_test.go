package lexer

import (
	"strings"
	"testing"

	"spoke/internal/diag"
	"spoke/internal/source"
	"spoke/internal/token"
)

func TestTokenTooLongTriggersDiagnosticAndStops(t *testing.T) {
	content := strings.Repeat("a", maxTokenLength+1) + " b"
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("long.spoke", []byte(content))
	file := fs.Get(fileID)

	bag := diag.NewBag(4)
	lx := New(file, Options{Reporter: &diag.BagReporter{Bag: bag}})

	tok := lx.Next()
	if tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}
	if !bag.HasErrors() {
		t.Fatalf("expected diagnostics for long token")
	}
	if items := bag.Items(); items[0].Code != diag.LexTokenTooLong {
		t.Fatalf("expected LexTokenTooLong, got %v", items[0].Code)
	}

	// после ошибки лексер перематывает до EOF
	if next := lx.Next(); next.Kind != token.EOF {
		t.Fatalf("expected EOF after long token, got %v", next.Kind)
	}
}

func TestTokenLimitOverride(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("limit.spoke", []byte(`"0123456789"`)))

	bag := diag.NewBag(1)
	lx := New(file, Options{Reporter: diag.BagReporter{Bag: bag}, MaxTokenLength: 8})
	if tok := lx.Next(); tok.Kind != token.Invalid {
		t.Fatalf("expected invalid token, got %v", tok.Kind)
	}

	bag = diag.NewBag(1)
	lx = New(file, Options{Reporter: diag.BagReporter{Bag: bag}})
	if tok := lx.Next(); tok.Kind != token.Literal || bag.HasErrors() {
		t.Fatalf("expected literal without diagnostics, got %v %v", tok.Kind, bag.Items())
	}
}
