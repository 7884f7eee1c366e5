package token

import (
	"spoke/internal/source"
)

// Token represents a leaf token or a delimited group with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Lit     LitKind // только для Literal
	Joint   bool    // Punct, за которым сразу идёт другой Punct
	Leading []Trivia

	// Group only.
	Delim        Delim
	Inner        []Token
	Close        source.Span
	CloseLeading []Trivia // trivia перед закрывающей скобкой
}

// IsLiteral reports whether the token is a literal.
func (t Token) IsLiteral() bool { return t.Kind == Literal }

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsPunct reports whether the token is the punctuation character ch.
func (t Token) IsPunct(ch byte) bool {
	return t.Kind == Punct && len(t.Text) == 1 && t.Text[0] == ch
}

// IsGroup reports whether the token is a group delimited by d.
func (t Token) IsGroup(d Delim) bool {
	return t.Kind == Group && t.Delim == d
}

// HasNewline reports whether a newline precedes the token.
func (t Token) HasNewline() bool {
	return hasNewline(t.Leading)
}

// CloseHasNewline reports whether a newline precedes the closing delimiter of a group.
func (t Token) CloseHasNewline() bool {
	return hasNewline(t.CloseLeading)
}

// Clone returns a deep copy; Inner and trivia slices are not shared.
func (t Token) Clone() Token {
	out := t
	if t.Leading != nil {
		out.Leading = append([]Trivia(nil), t.Leading...)
	}
	if t.CloseLeading != nil {
		out.CloseLeading = append([]Trivia(nil), t.CloseLeading...)
	}
	if t.Inner != nil {
		out.Inner = CloneAll(t.Inner)
	}
	return out
}

// CloneAll deep-copies a token sequence.
func CloneAll(toks []Token) []Token {
	if toks == nil {
		return nil
	}
	out := make([]Token, len(toks))
	for i := range toks {
		out[i] = toks[i].Clone()
	}
	return out
}

// String renders the token compactly: leaves as their text, groups with
// their delimiters and space-separated contents.
func (t Token) String() string {
	if t.Kind != Group {
		return t.Text
	}
	buf := make([]byte, 0, 16)
	buf = append(buf, t.Delim.OpenText()...)
	for i, in := range t.Inner {
		if i > 0 && !t.Inner[i-1].Joint {
			buf = append(buf, ' ')
		}
		buf = append(buf, in.String()...)
	}
	buf = append(buf, t.Delim.CloseText()...)
	return string(buf)
}
