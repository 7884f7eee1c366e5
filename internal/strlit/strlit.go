// Package strlit extracts the text of a string literal token used as a test
// name. Plain literals ("...") and raw literals (r"...", r#"..."#) are
// accepted; escapes are kept as written.
package strlit

import (
	"fmt"
	"strings"
)

// Error describes why a literal cannot be used as a name. Msg is shown to the
// user verbatim after the offending literal.
type Error struct {
	Msg string
}

func (e *Error) Error() string { return e.Msg }

func fail(format string, args ...any) (string, error) {
	return "", &Error{Msg: fmt.Sprintf(format, args...)}
}

// Parse returns the content of the literal text lit.
//
// The literal is peeled from both ends at once: a leading r marks a raw
// literal, each leading # of a raw literal must be matched by a trailing #,
// and the quotes must be the outermost remaining characters. Anything left
// after the closing quote or hash is reported as a suffix.
func Parse(lit string) (string, error) {
	chars := []rune(lit)
	front, back := 0, len(chars) // chars[front:back] ещё не разобраны
	raw := false

	popBack := func() (rune, bool) {
		if back <= front {
			return 0, false
		}
		back--
		return chars[back], true
	}

	for {
		if back-front < 2 {
			return fail("string too short")
		}

		c := chars[front]
		front++

		switch {
		case c == 'r':
			if front != 1 {
				return fail("found r at a position other than the start")
			}
			raw = true

		case c == '"':
			last, ok := popBack()
			if !ok {
				return fail("unbalanced surrounding quotes")
			}
			if last == '"' {
				body := chars[front:back]
				if raw {
					return string(body), nil
				}
				return verifyQuoted(body)
			}
			suffix := []rune{last}
			for {
				r, ok := popBack()
				if !ok {
					return fail("missing closing quote on string")
				}
				if r == '"' {
					return fail("unmatched suffix detected, `%s`, did you miss a space?", string(suffix))
				}
				suffix = append([]rune{r}, suffix...)
			}

		case c == '#' && raw:
			last, ok := popBack()
			if !ok {
				return fail("unbalanced surrounding hashes")
			}
			if last == '#' {
				continue
			}
			suffix := []rune{last}
			for {
				r, ok := popBack()
				if !ok {
					return fail("missing closing hash on raw string")
				}
				if r == '#' {
					if q, ok := popBack(); ok && q == '"' {
						return fail("unmatched raw suffix detected, `%s`, did you miss a space?", string(suffix))
					}
					return fail("bad raw string format")
				}
				suffix = append([]rune{r}, suffix...)
			}

		default:
			return fail("unexpected character %c", c)
		}
	}
}

// verifyQuoted rejects a quote inside a plain literal unless the last
// non-quote character before it was a backslash.
func verifyQuoted(body []rune) (string, error) {
	var (
		b        strings.Builder
		previous rune
	)
	for _, c := range body {
		if c == '"' {
			if previous != '\\' {
				return fail("literal contains unescaped quote character(s)")
			}
		} else {
			previous = c
		}
		b.WriteRune(c)
	}
	return b.String(), nil
}
