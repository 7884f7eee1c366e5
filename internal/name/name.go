package name

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"spoke/internal/source"
	"spoke/internal/token"
)

// MaxSegment is the longest sanitized segment kept intact, in runes.
const MaxSegment = 900

// FullNameSeparator joins raw titles in FullName.
const FullNameSeparator = " ⟶ "

var (
	// ErrEmptyName is returned when a title in the chain is empty.
	ErrEmptyName = errors.New("test names cannot be empty")
	// ErrUnusableName is returned when a title has no character usable in an identifier.
	ErrUnusableName = errors.New("test name has no characters usable in an identifier")
)

// Factory mints sibling names. The zero value is not usable; use NewFactory
// or Name.MakeFactory.
type Factory struct {
	title *Name // nil для корня
	count int
}

// NewFactory returns a root factory.
func NewFactory() *Factory {
	return &Factory{}
}

// MakeName mints the next sibling name. It never fails; an empty text is
// accepted here and rejected by FunctionName.
func (f *Factory) MakeName(span source.Span, text string) Name {
	f.count++
	return Name{span: span, raw: text, index: f.count, factory: f}
}

// Count returns how many names the factory has minted.
func (f *Factory) Count() int {
	return f.count
}

// Title returns the name this factory was created from, false for a root factory.
func (f *Factory) Title() (Name, bool) {
	if f.title == nil {
		return Name{}, false
	}
	return *f.title, true
}

// Name is an immutable test title bound to the factory that minted it.
type Name struct {
	span    source.Span
	raw     string
	index   int
	factory *Factory
}

func (n Name) Span() source.Span { return n.span }
func (n Name) Raw() string       { return n.raw }

// Index is the 1-based position of the name among its siblings.
func (n Name) Index() int { return n.index }

// MakeFactory returns a child factory whose names are prefixed by n.
func (n Name) MakeFactory() *Factory {
	title := n
	return &Factory{title: &title}
}

// Chain returns the ancestor path of n, root first, ending with n itself.
func (n Name) Chain() []Name {
	chain := []Name{n}
	for f := n.factory; f != nil && f.title != nil; f = f.title.factory {
		chain = append(chain, *f.title)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// FunctionName returns the identifier for n: every segment of the chain
// sanitized and joined with `_`, prefixed with `t` when it would not start
// with an identifier start character.
func (n Name) FunctionName() (string, error) {
	var b strings.Builder
	for _, seg := range n.Chain() {
		if seg.raw == "" {
			return "", ErrEmptyName
		}
		part := Sanitize(seg.raw)
		if part == "" {
			return "", fmt.Errorf("%w: %q", ErrUnusableName, seg.raw)
		}
		part = seg.truncate(part)

		// разделитель только если ни одна из сторон не даёт '_'
		if b.Len() > 0 && !strings.HasSuffix(b.String(), "_") && !strings.HasPrefix(part, "_") {
			b.WriteByte('_')
		}
		b.WriteString(part)
	}

	out := b.String()
	if r, _ := utf8.DecodeRuneInString(out); !token.IsXIDStart(r) {
		out = "t" + out
	}
	return out, nil
}

// FullName returns the raw titles of the chain joined with FullNameSeparator.
func (n Name) FullName() (string, error) {
	chain := n.Chain()
	parts := make([]string, 0, len(chain))
	for _, seg := range chain {
		if seg.raw == "" {
			return "", ErrEmptyName
		}
		parts = append(parts, seg.raw)
	}
	return strings.Join(parts, FullNameSeparator), nil
}

// truncate cuts a sanitized segment to MaxSegment runes and appends the
// sibling index, zero-padded to the width of the largest index so far.
func (n Name) truncate(part string) string {
	runes := []rune(part)
	if len(runes) <= MaxSegment {
		return part
	}
	max := n.index
	if n.factory != nil && n.factory.count > max {
		max = n.factory.count
	}
	width := int(math.Ceil(math.Log10(float64(max) + 0.1)))
	idx := strconv.Itoa(n.index)
	if pad := width - len(idx); pad > 0 {
		idx = strings.Repeat("0", pad) + idx
	}
	return string(runes[:MaxSegment]) + "_" + idx
}
