package lexer

import (
	"spoke/internal/diag"
	"spoke/internal/token"
)

// Поддержка: 0, 123, 0b..., 0o..., 0x..., 1.0, 1., 1e-3, 1.0e+10 и суффиксы (1u8, 2.5f32).
// `1..2` и `1.foo`: число без точки. На неверных формах репорт, а токен по возможности завершаем.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	lit := token.LitInt

	emit := func() token.Token {
		lx.eatSuffix()
		sp := lx.cursor.SpanFrom(start)
		return token.Token{Kind: token.Literal, Lit: lit, Span: sp, Text: lx.text(sp)}
	}

	// ведущий 0 и база?
	if lx.cursor.Peek() == '0' {
		var digit func(byte) bool
		switch lx.cursor.PeekAt(1) {
		case 'b', 'B':
			digit = func(b byte) bool { return b == '0' || b == '1' }
		case 'o', 'O':
			digit = func(b byte) bool { return b >= '0' && b <= '7' }
		case 'x', 'X':
			digit = isHex
		}
		if digit != nil {
			lx.cursor.Bump()
			lx.cursor.Bump()
			n := 0
			for digit(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				if lx.cursor.Peek() != '_' {
					n++
				}
				lx.cursor.Bump()
			}
			if n == 0 {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "no digits after the base prefix")
			}
			return emit()
		}
	}

	// десятичная целая часть
	for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
		lx.cursor.Bump()
	}

	// дробная часть: `1.5`, `1.`; но не `1..2` и не `1.foo`
	if lx.cursor.Peek() == '.' {
		next := lx.cursor.PeekAt(1)
		switch {
		case isDec(next):
			lx.cursor.Bump()
			lit = token.LitFloat
			for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
				lx.cursor.Bump()
			}
		case next == '.' || isIdentStartByte(next) || next >= utf8RuneSelf:
			// это '..' или метод: НЕ часть числа
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.Literal, Lit: lit, Span: sp, Text: lx.text(sp)}
		default:
			lx.cursor.Bump()
			sp := lx.cursor.SpanFrom(start)
			return token.Token{Kind: token.Literal, Lit: token.LitFloat, Span: sp, Text: lx.text(sp)}
		}
	}

	// экспонента
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if !isDec(lx.cursor.Peek()) {
			if lit == token.LitFloat || lx.cursor.Off-uint32(mark) > 1 {
				sp := lx.cursor.SpanFrom(start)
				lx.errLex(diag.LexBadNumber, sp, "expected digit after exponent")
				return token.Token{Kind: token.Invalid, Span: sp, Text: lx.text(sp)}
			}
			// `1e` без цифр: это суффикс, а не экспонента
			lx.cursor.Reset(mark)
			return emit()
		}
		lit = token.LitFloat
		for isDec(lx.cursor.Peek()) || lx.cursor.Peek() == '_' {
			lx.cursor.Bump()
		}
	}

	return emit()
}
