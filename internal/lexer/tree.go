package lexer

import (
	"fmt"

	"spoke/internal/diag"
	"spoke/internal/source"
	"spoke/internal/token"
)

type openGroup struct {
	open  token.Token
	inner []token.Token
}

// BuildTree folds the flat stream (as returned by All) into delimited groups.
// Invalid tokens are dropped, their diagnostics were reported by the lexer.
// A closer that matches a deeper opener closes the groups above it, each
// reported as unclosed; a closer that matches nothing is reported and
// skipped. Groups still open at EOF are closed with an empty span.
func BuildTree(flat []token.Token, r diag.Reporter) []token.Token {
	var (
		stack []openGroup
		top   []token.Token
	)
	appendTok := func(tok token.Token) {
		if n := len(stack); n > 0 {
			stack[n-1].inner = append(stack[n-1].inner, tok)
			return
		}
		top = append(top, tok)
	}
	closeTop := func(closer token.Token) {
		n := len(stack)
		g := stack[n-1]
		stack = stack[:n-1]
		appendTok(token.Token{
			Kind:         token.Group,
			Span:         g.open.Span.Cover(closer.Span),
			Text:         g.open.Text,
			Leading:      g.open.Leading,
			Delim:        g.open.Delim,
			Inner:        g.inner,
			Close:        closer.Span,
			CloseLeading: closer.Leading,
		})
	}
	unclosed := func(g openGroup, at source.Span) {
		if r == nil {
			return
		}
		diag.ReportError(r, diag.LexUnclosedDelimiter, g.open.Span,
			fmt.Sprintf("unclosed delimiter `%s`", g.open.Text)).
			WithNote(at, fmt.Sprintf("expected `%s` before this point", g.open.Delim.CloseText())).
			Emit()
	}

	for _, tok := range flat {
		switch tok.Kind {
		case token.Invalid:
			continue

		case token.Open:
			stack = append(stack, openGroup{open: tok})

		case token.Close:
			depth := -1
			for i := len(stack) - 1; i >= 0; i-- {
				if stack[i].open.Delim == tok.Delim {
					depth = i
					break
				}
			}
			if depth < 0 {
				if r != nil {
					diag.ReportError(r, diag.LexUnexpectedCloser, tok.Span,
						fmt.Sprintf("unexpected closing delimiter `%s`", tok.Text)).Emit()
				}
				continue
			}
			for len(stack)-1 > depth {
				unclosed(stack[len(stack)-1], tok.Span)
				closeTop(token.Token{Span: tok.Span.Head()})
			}
			closeTop(tok)

		case token.EOF:
			for len(stack) > 0 {
				unclosed(stack[len(stack)-1], tok.Span)
				closeTop(token.Token{Span: tok.Span, Leading: tok.Leading})
			}

		default:
			appendTok(tok)
		}
	}
	// поток без EOF (например, срез из теста)
	for len(stack) > 0 {
		g := stack[len(stack)-1]
		unclosed(g, g.open.Span.Tail())
		closeTop(token.Token{Span: g.open.Span.Tail()})
	}
	return top
}

// Tree lexes file and returns its token tree.
func Tree(file *source.File, opts Options) []token.Token {
	return BuildTree(New(file, opts).All(), opts.Reporter)
}
