package parser

import (
	"fmt"
	"strings"

	"spoke/internal/diag"
	"spoke/internal/name"
	"spoke/internal/source"
	"spoke/internal/strlit"
	"spoke/internal/token"
)

// state is one node of the grammar state machine. Every transition returns
// the next state; a state is never reused after it has returned another.
type state interface {
	acceptToken(p *parser, tok token.Token) state
	// endOfGroup is called when the group the parser was reading runs out.
	// closed reports whether the returned state is already outside that group.
	endOfGroup(p *parser) (next state, closed bool)
	endOfStream(p *parser)
}

// scope is a state tests can be declared in: the suite or a braced body.
type scope interface {
	state
	factory() *name.Factory
	inBody() bool
	// blocks appends the code buffers of the scope chain, outermost first.
	blocks(dst [][]token.Token) [][]token.Token
}

// suiteState is the root scope. Its code is the hoisted preamble.
type suiteState struct {
	names *name.Factory
}

func (s *suiteState) acceptToken(p *parser, tok token.Token) state {
	if tok.IsPunct('$') {
		return &anchorState{scope: s, at: tok.Span}
	}
	p.gen.PushPreamble(tok)
	return s
}

func (s *suiteState) endOfGroup(*parser) (state, bool) { return s, true }
func (s *suiteState) endOfStream(*parser)              {}

func (s *suiteState) factory() *name.Factory                     { return s.names }
func (s *suiteState) inBody() bool                               { return false }
func (s *suiteState) blocks(dst [][]token.Token) [][]token.Token { return dst }

// bodyState is a braced body of a named test.
type bodyState struct {
	parent      scope
	title       name.Name
	names       *name.Factory
	code        []token.Token
	hasChildren bool
}

func (b *bodyState) acceptToken(_ *parser, tok token.Token) state {
	if tok.IsPunct('$') {
		b.hasChildren = true
		return &anchorState{scope: b, at: tok.Span}
	}
	b.code = append(b.code, tok)
	return b
}

func (b *bodyState) endOfGroup(p *parser) (state, bool) {
	b.close(p)
	return b.parent, true
}

func (b *bodyState) endOfStream(p *parser) {
	b.close(p)
	b.parent.endOfStream(p)
}

// close emits the body as a test of its own unless it declared nested tests.
func (b *bodyState) close(p *parser) {
	if b.hasChildren {
		return
	}
	p.emit(b.title, b.title.Span(), p.inherit(b, nil))
}

func (b *bodyState) factory() *name.Factory { return b.names }
func (b *bodyState) inBody() bool           { return true }

func (b *bodyState) blocks(dst [][]token.Token) [][]token.Token {
	return append(b.parent.blocks(dst), b.code)
}

// anchorState follows a `$` in a scope and expects the test name.
type anchorState struct {
	scope scope
	at    source.Span
}

func (a *anchorState) acceptToken(p *parser, tok token.Token) state {
	switch {
	case tok.IsLiteral():
		text, err := strlit.Parse(tok.Text)
		if err != nil {
			return a.reject(p, tok, diag.NamBadLiteral, fmt.Sprintf("found `%s`\n%s", tok.Text, err))
		}
		return &namedState{scope: a.scope, title: a.scope.factory().MakeName(tok.Span, text)}

	case tok.IsIdent():
		if m, ok := p.lookupModifier(tok.Text); ok {
			return a.reject(p, tok, diag.NamAssertionAsName,
				fmt.Sprintf("found an assertion '%s' which isn't allowed %s", m.Keyword, a.where()))
		}
		if _, ok := p.lookupModifier(strings.ToLower(tok.Text)); ok {
			return a.reject(p, tok, diag.NamMiscasedAsName,
				fmt.Sprintf("found a badly formatted assertion '%s' which isn't allowed %s and should be lowercase", tok.Text, a.where()))
		}
		return a.reject(p, tok, diag.NamExpectedName, fmt.Sprintf("found `%s`", tok.Text))

	case tok.IsPunct(';'):
		why := "found `;` before any body was provided"
		if a.scope.inBody() {
			why = "truncated assertion - found `;` before any code was provided"
		}
		diag.ReportError(p.gen, diag.NamSemicolonAsName, tok.Span, a.expected()+why).Emit()
		return a.scope
	}
	return a.reject(p, tok, diag.NamExpectedName, fmt.Sprintf("found `%s`", tok.String()))
}

// reject reports the bad name, mints a placeholder and hands the offending
// token to the naming-error state so a following body is still parsed.
func (a *anchorState) reject(p *parser, tok token.Token, code diag.Code, why string) state {
	diag.ReportError(p.gen, code, tok.Span, a.expected()+why).Emit()
	placeholder := p.gen.MakeMissingName(a.scope.factory(), tok.Span)
	next := &namingErrorState{scope: a.scope, title: placeholder}
	return next.acceptToken(p, tok)
}

func (a *anchorState) expected() string {
	if a.scope.inBody() {
		return "expected a valid test name following the dollars, but "
	}
	return "expected a valid test case name in quotes following the dollars, but "
}

func (a *anchorState) where() string {
	if a.scope.inBody() {
		return "inside the braced body of a test"
	}
	return "as a top level test"
}

func (a *anchorState) endOfGroup(p *parser) (state, bool) {
	p.truncated(a.at, true, "reaching the end of the test definition")
	return a.scope, false
}

func (a *anchorState) endOfStream(p *parser) {
	p.truncated(a.at, false, "reaching the end of the test definition")
	a.scope.endOfStream(p)
}

// namingErrorState skips a test whose name could not be read.
type namingErrorState struct {
	scope scope
	title name.Name
}

func (n *namingErrorState) acceptToken(p *parser, tok token.Token) state {
	switch {
	case tok.IsGroup(token.Brace):
		// скорее всего это тело теста
		return p.enter(n.scope, n.title, tok)
	case tok.IsPunct(';'):
		return n.scope
	}
	return n
}

func (n *namingErrorState) endOfGroup(p *parser) (state, bool) {
	p.truncated(n.title.Span(), true, "reaching the end of the test definition")
	return n.scope, false
}

func (n *namingErrorState) endOfStream(p *parser) {
	p.truncated(n.title.Span(), false, "reaching the end of the test definition")
	n.scope.endOfStream(p)
}

// namedState has a test name and decides between a body and an assertion.
type namedState struct {
	scope scope
	title name.Name
}

func (n *namedState) acceptToken(p *parser, tok token.Token) state {
	if tok.IsGroup(token.Brace) {
		return p.enter(n.scope, n.title, tok)
	}
	next := &assertState{scope: n.scope, title: n.title}
	return next.acceptToken(p, tok)
}

func (n *namedState) endOfGroup(p *parser) (state, bool) {
	p.truncated(n.title.Span(), true, "finding the test body for named test")
	return n.scope, false
}

func (n *namedState) endOfStream(p *parser) {
	p.truncated(n.title.Span(), false, "finding the test body for named test")
	n.scope.endOfStream(p)
}

// assertState collects the left-hand side of an assertion.
type assertState struct {
	scope scope
	title name.Name
	lhs   []token.Token
}

func (a *assertState) acceptToken(p *parser, tok token.Token) state {
	switch {
	case tok.IsPunct('$'):
		return &modifierState{scope: a.scope, title: a.title, lhs: a.lhs, at: tok.Span}
	case tok.IsPunct(';'):
		if len(a.lhs) == 0 {
			diag.ReportError(p.gen, diag.GrmMissingAssertion, a.title.Span(),
				"expected an assertion or test body after the name, but found `;`").Emit()
		} else {
			p.emit(a.title, a.title.Span(), p.inherit(a.scope, lower("assert", a.title.Span(), a.lhs, nil)))
		}
		return a.scope
	}
	a.lhs = append(a.lhs, tok)
	return a
}

func (a *assertState) endOfGroup(p *parser) (state, bool) {
	p.truncated(a.title.Span(), true, "finding details of the named assertion. Missing ; ?")
	return a.scope, false
}

func (a *assertState) endOfStream(p *parser) {
	p.truncated(a.title.Span(), false, "finding details of the named assertion. Missing ; ?")
	a.scope.endOfStream(p)
}

// modifierState follows the `$` inside an assertion and expects a keyword.
type modifierState struct {
	scope scope
	title name.Name
	lhs   []token.Token
	at    source.Span
}

func (m *modifierState) acceptToken(p *parser, tok token.Token) state {
	switch {
	case tok.IsIdent():
		if mod, ok := p.lookupModifier(tok.Text); ok {
			return m.rhs(mod, tok.Span)
		}
		folded := strings.ToLower(tok.Text)
		if mod, ok := p.lookupModifier(folded); ok {
			m.report(p, diag.SevWarning, diag.GrmMiscasedModifier, tok.Span,
				fmt.Sprintf("found an incorrectly cased match `%s` - asserts are all lowercase", tok.Text)).
				WithFix("use `"+folded+"`", diag.FixEdit{Span: tok.Span, NewText: folded}).
				Emit()
			return m.rhs(mod, tok.Span)
		}
		m.report(p, diag.SevError, diag.GrmUnknownModifier, tok.Span, fmt.Sprintf("found `%s`", tok.Text)).Emit()
		return &assertErrorState{scope: m.scope, at: tok.Span}

	case tok.IsPunct(';'):
		m.report(p, diag.SevError, diag.GrmTruncatedModifier, tok.Span,
			"expected an assertion after the name, but found `;`").Emit()
		return m.scope

	case tok.IsLiteral():
		text, err := strlit.Parse(tok.Text)
		if err != nil {
			m.report(p, diag.SevError, diag.GrmUnknownModifier, tok.Span, fmt.Sprintf("found `%s`", tok.Text)).Emit()
			return &assertErrorState{scope: m.scope, at: tok.Span}
		}
		m.report(p, diag.SevError, diag.GrmNestedTestInAssert, tok.Span,
			fmt.Sprintf("found `%s` which looks like a test defintion. Tests cannot be nested inside asserts.", tok.Text)).
			Emit()
		return &namedState{scope: m.scope, title: m.scope.factory().MakeName(tok.Span, text)}
	}

	m.report(p, diag.SevError, diag.GrmUnknownModifier, tok.Span, fmt.Sprintf("found `%s`", tok.String())).Emit()
	next := &assertErrorState{scope: m.scope, at: tok.Span}
	return next.acceptToken(p, tok)
}

func (m *modifierState) report(p *parser, sev diag.Severity, code diag.Code, sp source.Span, why string) *diag.Pending {
	msg := fmt.Sprintf("expected a valid assertion type [%s] following the dollars, but %s", p.keywordList(), why)
	return diag.Build(p.gen, sev, code, sp, msg)
}

func (m *modifierState) rhs(mod Modifier, at source.Span) state {
	return &assertRHSState{scope: m.scope, title: m.title, lhs: m.lhs, mod: mod, at: at}
}

func (m *modifierState) endOfGroup(p *parser) (state, bool) {
	p.truncated(m.at, true, "reaching the end of the assertion definition")
	return m.scope, false
}

func (m *modifierState) endOfStream(p *parser) {
	p.truncated(m.at, false, "reaching the end of the assertion definition")
	m.scope.endOfStream(p)
}

// assertErrorState discards a broken assertion up to its `;`.
type assertErrorState struct {
	scope scope
	at    source.Span
}

func (a *assertErrorState) acceptToken(_ *parser, tok token.Token) state {
	if tok.IsPunct(';') {
		return a.scope
	}
	return a
}

func (a *assertErrorState) endOfGroup(p *parser) (state, bool) {
	p.truncated(a.at, true, "reaching the end of the assertion definition")
	return a.scope, false
}

func (a *assertErrorState) endOfStream(p *parser) {
	p.truncated(a.at, false, "reaching the end of the assertion definition")
	a.scope.endOfStream(p)
}

// assertRHSState collects the right-hand side of a modifier assertion.
type assertRHSState struct {
	scope scope
	title name.Name
	lhs   []token.Token
	rhs   []token.Token
	mod   Modifier
	at    source.Span
}

func (a *assertRHSState) acceptToken(p *parser, tok token.Token) state {
	if !tok.IsPunct(';') {
		a.rhs = append(a.rhs, tok)
		return a
	}

	ok := true
	if len(a.lhs) == 0 {
		diag.ReportError(p.gen, diag.SemEmptyLeftOperand, a.at,
			"no code found for the left side of the equality assertion").Emit()
		ok = false
	}
	if len(a.rhs) == 0 {
		diag.ReportError(p.gen, diag.SemEmptyRightOperand, a.at,
			"no code found for the right hand side of the equality assertion").Emit()
		ok = false
	}
	if ok {
		p.emit(a.title, a.title.Span(), p.inherit(a.scope, lower(a.mod.Macro, a.at, a.lhs, a.rhs)))
	}
	return a.scope
}

func (a *assertRHSState) endOfGroup(p *parser) (state, bool) {
	p.truncated(a.at, true, "reaching the end of the equality assertion definition")
	return a.scope, false
}

func (a *assertRHSState) endOfStream(p *parser) {
	p.truncated(a.at, false, "reaching the end of the equality assertion definition")
	a.scope.endOfStream(p)
}

func (p *parser) truncated(sp source.Span, inGroup bool, tail string) {
	if inGroup {
		diag.ReportError(p.gen, diag.TrnEndOfGroup, sp, "reached end of group input before "+tail).Emit()
		return
	}
	diag.ReportError(p.gen, diag.TrnEndOfInput, sp, "reached end of input before "+tail).Emit()
}
