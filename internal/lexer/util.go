package lexer

import (
	"unicode/utf8"

	"fortio.org/safecast"

	"spoke/internal/token"
)

const utf8RuneSelf = utf8.RuneSelf

// peekRuneAt decodes the rune n bytes ahead. size is 0 at the end.
func (lx *Lexer) peekRuneAt(n uint32) (r rune, size int) {
	rest := lx.file.Content[min(lx.cursor.Off+n, lx.cursor.Limit):lx.cursor.Limit]
	switch {
	case len(rest) == 0:
		return utf8.RuneError, 0
	case rest[0] < utf8.RuneSelf:
		return rune(rest[0]), 1
	}
	return utf8.DecodeRune(rest)
}

func (lx *Lexer) peekRune() (r rune, size int) { return lx.peekRuneAt(0) }

// bumpRune steps over the current rune; an invalid byte counts as one.
func (lx *Lexer) bumpRune() {
	_, size := lx.peekRune()
	n, err := safecast.Conv[uint32](size)
	if err != nil {
		panic(err)
	}
	lx.cursor.Off += n
}

func isIdentStartByte(b byte) bool {
	return b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z'
}

func isIdentContinueByte(b byte) bool { return isIdentStartByte(b) || isDec(b) }

// Non-ASCII identifiers follow Unicode XID.
func isIdentStartRune(r rune) bool    { return r == '_' || token.IsXIDStart(r) }
func isIdentContinueRune(r rune) bool { return token.IsXIDContinue(r) }

// isIdentStartAt reports whether an identifier starts n bytes ahead.
func isIdentStartAt(lx *Lexer, n uint32) bool {
	r, size := lx.peekRuneAt(n)
	return size > 0 && isIdentStartRune(r)
}

func isDec(b byte) bool { return '0' <= b && b <= '9' }

func isHex(b byte) bool { return isDec(b) || 'a' <= b|0x20 && b|0x20 <= 'f' }

// isPunctByte lists the characters that form single-character Punct tokens.
func isPunctByte(b byte) bool {
	return b < utf8.RuneSelf && punctBytes[b]
}

var punctBytes = func() (set [utf8.RuneSelf]bool) {
	for _, b := range []byte("=<>!~+-*/%^&|@.,;:#$?'") {
		set[b] = true
	}
	return set
}()

// eatSuffix consumes a literal suffix such as `u8` in `1u8`.
func (lx *Lexer) eatSuffix() {
	if r, size := lx.peekRune(); size == 0 || !isIdentStartRune(r) {
		return
	}
	for {
		r, size := lx.peekRune()
		if size == 0 || !isIdentContinueRune(r) {
			return
		}
		lx.bumpRune()
	}
}
