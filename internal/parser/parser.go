package parser

import (
	"spoke/internal/name"
	"spoke/internal/suite"
	"spoke/internal/token"
)

// Modifier binds an assertion keyword (`$eq`) to the macro it lowers to.
type Modifier struct {
	Keyword string
	Macro   string
}

// DefaultModifiers is used when Options.Modifiers is empty.
var DefaultModifiers = []Modifier{
	{Keyword: "eq", Macro: "assert_eq"},
	{Keyword: "ne", Macro: "assert_ne"},
}

type Options struct {
	Modifiers []Modifier
}

func (o Options) modifiers() []Modifier {
	if len(o.Modifiers) == 0 {
		return DefaultModifiers
	}
	return o.Modifiers
}

// frame хранит уровень вложенности: токены группы и позицию в них.
type frame struct {
	toks []token.Token
	pos  int
}

// parser drives the state machine over one token tree.
type parser struct {
	gen    *suite.Generator
	mods   []Modifier
	frames []frame
}

// Parse consumes the token tree once and pushes everything it produces into
// gen: preamble tokens, generated tests and diagnostics. It never fails;
// malformed input is reported and parsing resumes at the next `;` or group.
func Parse(tokens []token.Token, gen *suite.Generator, opts Options) {
	p := &parser{
		gen:    gen,
		mods:   opts.modifiers(),
		frames: []frame{{toks: tokens}},
	}
	p.run(&suiteState{names: name.NewFactory()})
}

// Transform parses tokens with a fresh generator and returns the assembled output.
func Transform(tokens []token.Token, opts Options) suite.Output {
	gen := suite.New()
	Parse(tokens, gen, opts)
	return gen.Assemble()
}

func (p *parser) run(st state) {
	for {
		top := &p.frames[len(p.frames)-1]
		if top.pos < len(top.toks) {
			tok := top.toks[top.pos]
			top.pos++
			if tok.Kind == token.EOF {
				continue
			}
			st = st.acceptToken(p, tok)
			continue
		}

		if len(p.frames) == 1 {
			st.endOfStream(p)
			return
		}

		// группа исчерпана: разматываем до тела, которому она принадлежит
		p.frames = p.frames[:len(p.frames)-1]
		for closed := false; !closed; {
			st, closed = st.endOfGroup(p)
		}
	}
}

// enter pushes the contents of a braced group; the returned body state owns it.
func (p *parser) enter(parent scope, title name.Name, group token.Token) state {
	p.frames = append(p.frames, frame{toks: group.Inner})
	return &bodyState{
		parent: parent,
		title:  title,
		names:  title.MakeFactory(),
	}
}

func (p *parser) lookupModifier(keyword string) (Modifier, bool) {
	for _, m := range p.mods {
		if m.Keyword == keyword {
			return m, true
		}
	}
	return Modifier{}, false
}

func (p *parser) keywordList() string {
	var buf []byte
	for i, m := range p.mods {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = append(buf, m.Keyword...)
	}
	return string(buf)
}
