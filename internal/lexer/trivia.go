package lexer

import (
	"spoke/internal/diag"
	"spoke/internal/token"
)

// collectLeadingTrivia gathers the trivia in front of the next significant
// token into lx.hold. A run of blanks becomes one TriviaSpace and a run of
// line breaks one TriviaNewline. Block comments nest.
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = nil
	for {
		start := lx.cursor.Mark()
		kind, ok := lx.scanTrivia()
		if !ok {
			lx.cursor.Reset(start)
			return
		}
		sp := lx.cursor.SpanFrom(start)
		lx.hold = append(lx.hold, token.Trivia{Kind: kind, Span: sp, Text: lx.text(sp)})
	}
}

// scanTrivia consumes one piece of trivia. ok is false when the cursor is
// at a significant byte (or at the end).
func (lx *Lexer) scanTrivia() (kind token.TriviaKind, ok bool) {
	switch b := lx.cursor.Peek(); {
	case lx.cursor.EOF():
		return 0, false
	case isSpaceByte(b):
		lx.eatWhile(isSpaceByte)
		return token.TriviaSpace, true
	case b == '\n':
		lx.eatWhile(func(b byte) bool { return b == '\n' })
		return token.TriviaNewline, true
	case b == '/' && lx.cursor.PeekAt(1) == '/':
		lx.eatWhile(func(b byte) bool { return b != '\n' })
		return token.TriviaLineComment, true
	case b == '/' && lx.cursor.PeekAt(1) == '*':
		lx.scanBlockComment()
		return token.TriviaBlockComment, true
	}
	// одиночный '/' остаётся пунктуацией
	return 0, false
}

func (lx *Lexer) eatWhile(pred func(byte) bool) {
	for !lx.cursor.EOF() && pred(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
}

// scanBlockComment consumes /* ... */ with nesting. An unclosed comment is
// reported and runs to the end of the file.
func (lx *Lexer) scanBlockComment() {
	start := lx.cursor.Mark()
	depth := 0
	for !lx.cursor.EOF() {
		b0, b1, _ := lx.cursor.Peek2()
		switch {
		case b0 == '/' && b1 == '*':
			depth++
		case b0 == '*' && b1 == '/':
			depth--
		default:
			lx.cursor.Bump()
			continue
		}
		lx.cursor.Bump()
		lx.cursor.Bump()
		if depth == 0 {
			return
		}
	}
	lx.errLex(diag.LexUnterminatedBlockComment, lx.cursor.SpanFrom(start), "unterminated block comment")
}

func isSpaceByte(b byte) bool {
	switch b {
	case ' ', '\t', '\r', '\v', '\f':
		return true
	}
	return false
}
