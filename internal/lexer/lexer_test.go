package lexer_test

import (
	"fmt"
	"strings"
	"testing"

	"spoke/internal/diag"
	"spoke/internal/lexer"
	"spoke/internal/source"
	"spoke/internal/token"
)

// makeTestLexer создаёт лексер для тестовой строки
func makeTestLexer(input string) (*lexer.Lexer, *diag.Bag) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.spoke", []byte(input))
	bag := diag.NewBag(0)
	return lexer.New(fs.Get(fileID), lexer.Options{Reporter: diag.BagReporter{Bag: bag}}), bag
}

// collect собирает все токены до EOF, без самого EOF
func collect(lx *lexer.Lexer) []token.Token {
	all := lx.All()
	return all[:len(all)-1]
}

func tokensToString(tokens []token.Token) string {
	parts := make([]string, len(tokens))
	for i, tok := range tokens {
		parts[i] = fmt.Sprintf("%v(%q)", tok.Kind, tok.Text)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func expectSingleToken(t *testing.T, input string, kind token.Kind, lit token.LitKind, text string) {
	t.Helper()
	lx, bag := makeTestLexer(input)
	toks := collect(lx)
	if len(toks) != 1 {
		t.Fatalf("expected 1 token for %q, got %s (diags %v)", input, tokensToString(toks), bag.Items())
	}
	tok := toks[0]
	if tok.Kind != kind || tok.Lit != lit || tok.Text != text {
		t.Errorf("got %v/%v %q, want %v/%v %q", tok.Kind, tok.Lit, tok.Text, kind, lit, text)
	}
	if bag.HasErrors() {
		t.Errorf("unexpected diagnostics: %v", bag.Items())
	}
}

func TestIdentifiers(t *testing.T) {
	tests := []string{"foo", "_bar", "_", "x123", "camelCase", "r#type", "привет", "京", "true", "eq"}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			expectSingleToken(t, in, token.Ident, token.LitNone, in)
		})
	}
}

func TestNumbers(t *testing.T) {
	tests := []struct {
		in  string
		lit token.LitKind
	}{
		{"0", token.LitInt},
		{"1_000", token.LitInt},
		{"0b1010", token.LitInt},
		{"0o777", token.LitInt},
		{"0xDEAD_beef", token.LitInt},
		{"42u8", token.LitInt},
		{"1.5", token.LitFloat},
		{"1.", token.LitFloat},
		{"1e10", token.LitFloat},
		{"2.5E-3f64", token.LitFloat},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			expectSingleToken(t, tt.in, token.Literal, tt.lit, tt.in)
		})
	}
}

func TestNumberFollowedByRangeOrMethod(t *testing.T) {
	lx, _ := makeTestLexer("1..2 3.max(4)")
	got := tokensToString(collect(lx))
	want := `[Literal("1"), Punct("."), Punct("."), Literal("2"), Literal("3"), Punct("."), Ident("max"), Open("("), Literal("4"), Close(")")]`
	if got != want {
		t.Fatalf("got %s\nwant %s", got, want)
	}
}

func TestNumberBadExponent(t *testing.T) {
	lx, bag := makeTestLexer("1.5e+")
	toks := collect(lx)
	if len(toks) != 1 || toks[0].Kind != token.Invalid {
		t.Fatalf("expected one invalid token, got %s", tokensToString(toks))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexBadNumber {
		t.Fatalf("expected LexBadNumber, got %v", bag.Items())
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		in  string
		lit token.LitKind
	}{
		{`""`, token.LitStr},
		{`"hello world"`, token.LitStr},
		{`"quote\"inside"`, token.LitStr},
		{`"backslash\\"`, token.LitStr},
		{"\"multi\nline\"", token.LitStr},
		{`"abc"suffix`, token.LitStr},
		{`r"raw \ text"`, token.LitRawStr},
		{`r#"has "quotes""#`, token.LitRawStr},
		{`r####"a"#b"####`, token.LitRawStr},
		{`r#"x"#sfx`, token.LitRawStr},
		{`b"bytes"`, token.LitByteStr},
		{`br#"raw bytes"#`, token.LitByteStr},
		{`'x'`, token.LitChar},
		{`'\n'`, token.LitChar},
		{`'\u{1F600}'`, token.LitChar},
		{`'京'`, token.LitChar},
		{`b'a'`, token.LitByte},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			expectSingleToken(t, tt.in, token.Literal, tt.lit, tt.in)
		})
	}
}

func TestUnterminatedLiterals(t *testing.T) {
	tests := []struct {
		in   string
		code diag.Code
	}{
		{`"hello`, diag.LexUnterminatedString},
		{`"ends with escape\`, diag.LexUnterminatedString},
		{`r#"no closing hash"`, diag.LexUnterminatedString},
		{`r##x`, diag.LexUnterminatedString},
		{`b'ab`, diag.LexUnterminatedChar},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			lx, bag := makeTestLexer(tt.in)
			tok := lx.Next()
			if tok.Kind != token.Invalid {
				t.Errorf("expected Invalid, got %v %q", tok.Kind, tok.Text)
			}
			if bag.Len() == 0 || bag.Items()[0].Code != tt.code {
				t.Errorf("expected %v, got %v", tt.code.ID(), bag.Items())
			}
		})
	}
}

func TestLifetimeIsJointApostrophe(t *testing.T) {
	lx, bag := makeTestLexer("&'a str")
	toks := collect(lx)
	got := tokensToString(toks)
	want := `[Punct("&"), Punct("'"), Ident("a"), Ident("str")]`
	if got != want {
		t.Fatalf("got %s, want %s", got, want)
	}
	if !toks[0].Joint || !toks[1].Joint {
		t.Fatalf("& and ' should both be joint")
	}
	if bag.Len() != 0 {
		t.Fatalf("unexpected diagnostics %v", bag.Items())
	}
}

func TestPunctJoint(t *testing.T) {
	lx, _ := makeTestLexer("a == b; $ eq :: x")
	toks := collect(lx)
	joint := make([]string, 0)
	for _, tok := range toks {
		if tok.Kind == token.Punct && tok.Joint {
			joint = append(joint, tok.Text)
		}
	}
	if strings.Join(joint, " ") != "= :" {
		t.Fatalf("joint puncts = %v, tokens %s", joint, tokensToString(toks))
	}
	if toks[5].Kind != token.Punct || toks[5].Text != "$" || toks[5].Joint {
		t.Fatalf("expected a standalone $, got %s", tokensToString(toks))
	}
}

func TestUnknownCharacter(t *testing.T) {
	lx, bag := makeTestLexer("a \\ b `")
	toks := collect(lx)
	if got := tokensToString(toks); got != `[Ident("a"), Invalid("\\"), Ident("b"), Invalid("`+"`"+`")]` {
		t.Fatalf("tokens = %s", got)
	}
	if bag.Len() != 2 || bag.Items()[0].Code != diag.LexUnknownChar {
		t.Fatalf("expected two LexUnknownChar, got %v", bag.Items())
	}
}

func TestTrivia(t *testing.T) {
	lx, bag := makeTestLexer("  \t// line\n\n/* block /* nested */ */foo /* open")
	tok := lx.Next()
	if tok.Kind != token.Ident || tok.Text != "foo" {
		t.Fatalf("expected foo, got %v %q", tok.Kind, tok.Text)
	}
	kinds := make([]token.TriviaKind, 0, len(tok.Leading))
	for _, tv := range tok.Leading {
		kinds = append(kinds, tv.Kind)
	}
	want := []token.TriviaKind{token.TriviaSpace, token.TriviaLineComment, token.TriviaNewline, token.TriviaBlockComment}
	if fmt.Sprint(kinds) != fmt.Sprint(want) {
		t.Fatalf("leading trivia = %v, want %v", kinds, want)
	}
	if tok.Leading[2].Text != "\n\n" {
		t.Errorf("newlines should coalesce, got %q", tok.Leading[2].Text)
	}

	eof := lx.Next()
	if eof.Kind != token.EOF || len(eof.Leading) != 2 {
		t.Fatalf("expected EOF with trailing trivia, got %v %d", eof.Kind, len(eof.Leading))
	}
	if bag.Len() != 1 || bag.Items()[0].Code != diag.LexUnterminatedBlockComment {
		t.Fatalf("expected unterminated block comment, got %v", bag.Items())
	}
	if lx.Next().Kind != token.EOF {
		t.Fatalf("EOF must repeat")
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	lx, _ := makeTestLexer("x y")
	if p := lx.Peek(); p.Text != "x" {
		t.Fatalf("Peek = %q", p.Text)
	}
	if n := lx.Next(); n.Text != "x" {
		t.Fatalf("Next after Peek = %q", n.Text)
	}
	if n := lx.Next(); n.Text != "y" {
		t.Fatalf("second Next = %q", n.Text)
	}
}

func TestSpansAreByteOffsets(t *testing.T) {
	lx, _ := makeTestLexer(`$ "京" {`)
	toks := collect(lx)
	want := [][2]uint32{{0, 1}, {2, 7}, {8, 9}}
	for i, w := range want {
		if toks[i].Span.Start != w[0] || toks[i].Span.End != w[1] {
			t.Errorf("token %d span = %v, want %v", i, toks[i].Span, w)
		}
	}
}
