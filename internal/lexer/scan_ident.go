package lexer

import (
	"spoke/internal/diag"
	"spoke/internal/token"
)

// scanIdent сканирует идентификатор. Ключевые слова, `_` и `true`/`false`
// тоже Ident: парсер их не различает. Token.Text равен исходному срезу.
func (lx *Lexer) scanIdent() token.Token {
	start := lx.cursor.Mark()

	r, sz := lx.peekRune()
	if sz == 0 {
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Invalid, Span: sp}
	}
	if !isIdentStartRune(r) {
		// не буква: неизвестный символ
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character "+lx.text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}

	if r < utf8RuneSelf {
		lx.cursor.Bump()
	} else {
		lx.bumpRune()
	}
	for {
		b := lx.cursor.Peek()
		if b < utf8RuneSelf {
			if !isIdentContinueByte(b) {
				break
			}
			lx.cursor.Bump()
			continue
		}
		r2, sz2 := lx.peekRune()
		if sz2 == 0 || !isIdentContinueRune(r2) {
			break
		}
		lx.bumpRune()
	}

	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.text(sp)}
}

// scanRawIdent сканирует r#ident.
func (lx *Lexer) scanRawIdent() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // r
	lx.cursor.Bump() // #
	ident := lx.scanIdent()
	sp := lx.cursor.SpanFrom(start)
	if ident.Kind != token.Ident {
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	return token.Token{Kind: token.Ident, Span: sp, Text: lx.text(sp)}
}

// scanPunct сканирует один символ пунктуации. Joint ставится, если сразу
// за ним идёт ещё один символ пунктуации.
func (lx *Lexer) scanPunct() token.Token {
	start := lx.cursor.Mark()
	ch := lx.cursor.Peek()
	if !isPunctByte(ch) {
		lx.bumpRune()
		sp := lx.cursor.SpanFrom(start)
		lx.errLex(diag.LexUnknownChar, sp, "unknown character "+lx.text(sp))
		return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
	}
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	return token.Token{
		Kind:  token.Punct,
		Span:  sp,
		Text:  lx.text(sp),
		Joint: !lx.cursor.EOF() && isPunctByte(lx.cursor.Peek()),
	}
}
