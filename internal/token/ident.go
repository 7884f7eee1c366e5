package token

import "unicode"

// IsXIDStart reports whether r may start an identifier (Unicode ID_Start).
// The underscore is not included.
func IsXIDStart(r rune) bool {
	if r < 0x80 {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	}
	return unicode.IsLetter(r) ||
		unicode.Is(unicode.Nl, r) ||
		unicode.Is(unicode.Other_ID_Start, r)
}

// IsXIDContinue reports whether r may continue an identifier (Unicode ID_Continue).
func IsXIDContinue(r rune) bool {
	if r < 0x80 {
		return IsXIDStart(r) || r == '_' || (r >= '0' && r <= '9')
	}
	return IsXIDStart(r) ||
		unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}
