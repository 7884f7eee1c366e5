package lexer

import (
	"spoke/internal/diag"
	"spoke/internal/token"
)

// atPrefixedLiteral: b"..", b'.', br"..", r"..", r#".."#.
func (lx *Lexer) atPrefixedLiteral() bool {
	b0 := lx.cursor.Peek()
	b1 := lx.cursor.PeekAt(1)
	switch b0 {
	case 'b':
		if b1 == '"' || b1 == '\'' {
			return true
		}
		if b1 == 'r' {
			b2 := lx.cursor.PeekAt(2)
			return b2 == '"' || b2 == '#'
		}
	case 'r':
		if b1 == '"' {
			return true
		}
		if b1 == '#' {
			// r#ident: сырой идентификатор, r##.. и r#".. дают сырую строку
			b2 := lx.cursor.PeekAt(2)
			return b2 == '"' || b2 == '#'
		}
	}
	return false
}

func (lx *Lexer) scanPrefixedLiteral() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.Eat('b') {
		switch lx.cursor.Peek() {
		case '"':
			return lx.scanString(start, token.LitByteStr)
		case '\'':
			return lx.scanChar(start, token.LitByte)
		}
		lx.cursor.Bump() // r
		return lx.scanRawString(start, token.LitByteStr)
	}
	lx.cursor.Bump() // r
	return lx.scanRawString(start, token.LitRawStr)
}

// scanString сканирует "..." начиная с текущей кавычки. Переводы строк
// внутри допустимы; escape-последовательности не проверяются.
func (lx *Lexer) scanString(start Mark, lit token.LitKind) token.Token {
	lx.cursor.Bump() // opening '"'
	for !lx.cursor.EOF() {
		switch lx.cursor.Peek() {
		case '"':
			lx.cursor.Bump()
			lx.eatSuffix()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.Literal, Lit: lit, Span: sp, Text: lx.text(sp)}
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				break
			}
			lx.bumpRune()
		default:
			lx.bumpRune()
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanRawString сканирует #*"..."#* после префикса r/br.
func (lx *Lexer) scanRawString(start Mark, lit token.LitKind) token.Token {
	hashes := 0
	for lx.cursor.Eat('#') {
		hashes++
	}
	if !lx.cursor.Eat('"') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnterminatedString, sp, "expected `\"` after the hashes of a raw string")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		n := 0
		for n < hashes && lx.cursor.Peek() == '#' {
			lx.cursor.Bump()
			n++
		}
		if n == hashes {
			lx.eatSuffix()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.Literal, Lit: lit, Span: sp, Text: lx.text(sp)}
		}
	}
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diag.LexUnterminatedString, sp, "unterminated raw string literal")
	return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
}

// scanQuote различает символьный литерал 'x' / '\n' и апостроф времени жизни 'a.
func (lx *Lexer) scanQuote() token.Token {
	start := lx.cursor.Mark()
	if lx.cursor.PeekAt(1) == '\\' {
		return lx.scanChar(start, token.LitChar)
	}
	r, sz := lx.peekRuneAt(1)
	if sz > 0 && r != '\'' && r != '\n' {
		if lx.cursor.PeekAt(1+uint32(sz)) == '\'' {
			return lx.scanChar(start, token.LitChar)
		}
	}
	// 'a: апостроф склеен со следующим идентификатором
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Punct, Span: sp, Text: "'", Joint: true}
}

// scanChar сканирует '...' начиная с текущего апострофа.
func (lx *Lexer) scanChar(start Mark, lit token.LitKind) token.Token {
	lx.cursor.Bump() // opening '\''
	if lx.cursor.Eat('\\') {
		lx.bumpRune()
		// \u{...} и \x..: до закрывающего апострофа в пределах строки
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\'' && lx.cursor.Peek() != '\n' {
			lx.bumpRune()
		}
	} else {
		lx.bumpRune()
	}
	if !lx.cursor.Eat('\'') {
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnterminatedChar, sp, "unterminated character literal")
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.eatSuffix()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Literal, Lit: lit, Span: sp, Text: lx.text(sp)}
}
