package token_test

import (
	"testing"

	"spoke/internal/token"
)

func TestHasNewline(t *testing.T) {
	tk := token.Token{
		Kind: token.Ident,
		Text: "x",
		Leading: []token.Trivia{
			{Kind: token.TriviaLineComment, Text: "// c"},
			{Kind: token.TriviaNewline, Text: "\n"},
		},
	}
	if !tk.HasNewline() {
		t.Fatalf("expected newline in leading trivia")
	}
	tk.Leading = tk.Leading[:1]
	if tk.HasNewline() {
		t.Fatalf("comment alone is not a newline")
	}
	if token.TriviaBlockComment.String() != "BlockComment" {
		t.Fatalf("unexpected trivia name %q", token.TriviaBlockComment)
	}
}
