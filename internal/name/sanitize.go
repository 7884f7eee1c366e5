package name

import (
	"strings"
	"unicode"

	"spoke/internal/token"

	"golang.org/x/text/unicode/norm"
)

var symbolWords = map[rune]string{
	',':  "comma",
	'&':  "ampersand",
	'.':  "dot",
	'=':  "equals",
	'/':  "slash",
	'*':  "star",
	'+':  "plus",
	'-':  "minus",
	'^':  "hat",
	'%':  "percent",
	'@':  "at",
	'?':  "question_mark",
	'!':  "exclamation",
	']':  "close_bracket",
	')':  "close_paren",
	'}':  "close_brace",
	'>':  "close_angle_bracket",
	':':  "colon",
	';':  "semicolon",
	'|':  "pipe",
	'#':  "hash",
	'$':  "dollars",
	'`':  "backtick",
	'~':  "tilde",
	'\\': "backslash",
}

// pairWords: opener -> closer, word for the pair, word for a lone opener.
var pairWords = map[rune]struct {
	close      rune
	pair, lone string
}{
	'[':  {']', "brackets", "open_bracket"},
	'(':  {')', "parens", "open_paren"},
	'{':  {'}', "braces", "open_brace"},
	'<':  {'>', "angle_brackets", "open_angle_bracket"},
	'\'': {'\'', "single_quotes", "single_quote"},
	'"':  {'"', "quotes", "quote"},
}

// Sanitize converts one raw title into identifier characters. It may return
// an empty string when nothing usable remains.
func Sanitize(raw string) string {
	w := words{}
	w.out.Grow(len(raw) * 2)
	for _, c := range norm.NFC.String(raw) {
		if w.pending != 0 {
			p := pairWords[w.pending]
			w.pending = 0
			if c == p.close {
				w.pushWord(p.pair)
				continue
			}
			w.pushWord(p.lone)
		}
		w.consume(c)
	}
	return w.build()
}

type words struct {
	out     strings.Builder
	last    rune
	pending rune
	// trailing '_' was produced by whitespace or a word, not by the title itself
	soft bool
}

func (w *words) push(c rune) {
	w.out.WriteRune(c)
	w.last = c
}

func (w *words) pushWord(word string) {
	if w.out.Len() > 0 && w.last != '_' {
		w.push('_')
	}
	w.out.WriteString(word)
	w.push('_')
	w.soft = true
}

func (w *words) consume(c rune) {
	if word, ok := symbolWords[c]; ok {
		w.pushWord(word)
		return
	}
	if _, ok := pairWords[c]; ok {
		w.pending = c
		return
	}
	switch {
	case c == '_':
		if w.last == '_' && w.soft {
			// сливается с разделителем перед ним
			w.soft = false
			return
		}
		w.push('_')
		w.soft = false
	case unicode.Is(unicode.White_Space, c):
		if w.out.Len() > 0 && w.last != '_' {
			w.push('_')
			w.soft = true
		}
	case token.IsXIDContinue(c):
		w.push(c)
		w.soft = false
	}
}

func (w *words) build() string {
	if w.pending != 0 {
		w.pushWord(pairWords[w.pending].lone)
		w.pending = 0
	}
	s := w.out.String()
	if w.soft {
		s = strings.TrimSuffix(s, "_")
	}
	return s
}
