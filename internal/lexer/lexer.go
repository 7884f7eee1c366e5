package lexer

import (
	"spoke/internal/diag"
	"spoke/internal/source"
	"spoke/internal/token"
)

// Lexer produces the flat token stream of one .spoke file. Delimiters come
// out as Open/Close tokens; BuildTree folds them into groups.
type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia
}

func New(file *source.File, opts Options) *Lexer {
	return &Lexer{
		file:   file,
		cursor: NewCursor(file),
		opts:   opts,
	}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После EOF всегда возвращает EOF; trivia перед EOF остаются в Leading EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		tok := token.Token{
			Kind:    token.EOF,
			Span:    lx.emptySpan(),
			Leading: lx.hold,
		}
		lx.hold = nil
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case lx.atPrefixedLiteral():
		// r"..", r#".."#, b"..", b'.', br".."
		tok = lx.scanPrefixedLiteral()

	case ch == 'r' && lx.cursor.PeekAt(1) == '#' && isIdentStartAt(lx, 2):
		tok = lx.scanRawIdent()

	case isIdentStartByte(ch) || ch >= utf8RuneSelf:
		tok = lx.scanIdent()

	case isDec(ch):
		tok = lx.scanNumber()

	case ch == '"':
		tok = lx.scanString(lx.cursor.Mark(), token.LitStr)

	case ch == '\'':
		tok = lx.scanQuote()

	case token.DelimOf(ch) != token.DelimNone:
		tok = lx.scanDelim()

	default:
		tok = lx.scanPunct()
	}

	if tok.Span.Len() > lx.tokenLimit() {
		lx.errLex(diag.LexTokenTooLong, tok.Span, "token exceeds the maximum length")
		lx.cursor.SkipToEnd()
		tok = token.Token{Kind: token.Invalid, Span: tok.Span}
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer and returns every token including the final EOF.
func (lx *Lexer) All() []token.Token {
	out := make([]token.Token, 0, 64)
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) text(sp source.Span) string {
	return string(lx.file.Content[sp.Start:sp.End])
}

func (lx *Lexer) scanDelim() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	kind := token.Open
	if ch == ')' || ch == '}' || ch == ']' {
		kind = token.Close
	}
	return token.Token{Kind: kind, Span: sp, Text: lx.text(sp), Delim: token.DelimOf(ch)}
}
