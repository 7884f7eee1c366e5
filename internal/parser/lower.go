package parser

import (
	"errors"
	"fmt"

	"spoke/internal/diag"
	"spoke/internal/name"
	"spoke/internal/source"
	"spoke/internal/suite"
	"spoke/internal/token"
)

// emit pushes a generated test, or a naming diagnostic when the title chain
// cannot be turned into an identifier.
func (p *parser) emit(title name.Name, anchor source.Span, code []token.Token) {
	fn, err := title.FunctionName()
	if err != nil {
		p.reportName(title, err)
		return
	}
	full, err := title.FullName()
	if err != nil {
		full = fn
	}
	p.gen.PushTest(suite.TestCase{Name: fn, Full: full, Anchor: anchor, Code: code})
}

func (p *parser) reportName(title name.Name, err error) {
	for _, seg := range title.Chain() {
		switch {
		case errors.Is(err, name.ErrEmptyName) && seg.Raw() == "":
			diag.ReportError(p.gen, diag.NamEmptyName, seg.Span(), "test names cannot be empty").Emit()
			return
		case errors.Is(err, name.ErrUnusableName) && seg.Raw() != "" && name.Sanitize(seg.Raw()) == "":
			diag.ReportError(p.gen, diag.NamUnusableName, seg.Span(),
				fmt.Sprintf("test name \"%s\" has no characters usable in an identifier", seg.Raw())).Emit()
			return
		}
	}
	diag.ReportError(p.gen, diag.NamExpectedName, title.Span(), err.Error()).Emit()
}

// inherit builds the code of a leaf: a private copy of every code buffer in
// the scope chain followed by tail. Each block after the first starts on a
// new line.
func (p *parser) inherit(sc scope, tail []token.Token) []token.Token {
	blocks := sc.blocks(nil)
	if len(tail) > 0 {
		blocks = append(blocks, tail)
	}

	var out []token.Token
	for _, block := range blocks {
		if len(block) == 0 {
			continue
		}
		start := len(out)
		out = append(out, token.CloneAll(block)...)
		if start > 0 && !out[start].HasNewline() {
			first := &out[start]
			first.Leading = append([]token.Trivia{{
				Kind: token.TriviaNewline,
				Span: first.Span.Head(),
				Text: "\n",
			}}, first.Leading...)
		}
	}
	return out
}

// lower builds `macro!(lhs);` or `macro!(lhs, rhs);` located at at.
func lower(macro string, at source.Span, lhs, rhs []token.Token) []token.Token {
	args := stripLeading(token.CloneAll(lhs))
	if len(rhs) > 0 {
		args = append(args, token.Token{Kind: token.Punct, Span: at, Text: ","})
		right := stripLeading(token.CloneAll(rhs))
		right[0].Leading = []token.Trivia{{Kind: token.TriviaSpace, Span: right[0].Span.Head(), Text: " "}}
		args = append(args, right...)
	}
	return []token.Token{
		{Kind: token.Ident, Span: at, Text: macro},
		{Kind: token.Punct, Span: at, Text: "!"},
		{Kind: token.Group, Span: at, Text: token.Paren.OpenText(), Delim: token.Paren, Inner: args, Close: at},
		{Kind: token.Punct, Span: at, Text: ";"},
	}
}

func stripLeading(toks []token.Token) []token.Token {
	if len(toks) > 0 {
		toks[0].Leading = nil
	}
	return toks
}
