package lexer

import (
	"fortio.org/safecast"

	"spoke/internal/source"
)

// Cursor walks the bytes of one file. Reads past Limit yield 0.
type Cursor struct {
	File  *source.File
	Off   uint32
	Limit uint32 // exclusive
}

func NewCursor(f *source.File) Cursor {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(err)
	}
	return Cursor{File: f, Limit: n}
}

func (c *Cursor) EOF() bool { return c.Off >= c.Limit }

func (c *Cursor) Peek() byte { return c.PeekAt(0) }

// PeekAt looks n bytes ahead without moving.
func (c *Cursor) PeekAt(n uint32) byte {
	if at := c.Off + n; at < c.Limit {
		return c.File.Content[at]
	}
	return 0
}

// Peek2 returns the next two bytes; ok is false when fewer remain.
func (c *Cursor) Peek2() (b0, b1 byte, ok bool) {
	if c.Off+1 >= c.Limit {
		return 0, 0, false
	}
	return c.PeekAt(0), c.PeekAt(1), true
}

// Bump consumes one byte and returns it.
func (c *Cursor) Bump() byte {
	b := c.Peek()
	if !c.EOF() {
		c.Off++
	}
	return b
}

// Eat consumes the next byte only when it equals b.
func (c *Cursor) Eat(b byte) bool {
	if c.EOF() || c.Peek() != b {
		return false
	}
	c.Off++
	return true
}

// Mark is a saved offset; SpanFrom and Reset take it back.
type Mark uint32

func (c *Cursor) Mark() Mark { return Mark(c.Off) }

// SpanFrom covers everything consumed since m.
func (c *Cursor) SpanFrom(m Mark) source.Span {
	return source.Span{File: c.File.ID, Start: uint32(m), End: c.Off}
}

func (c *Cursor) Reset(m Mark) { c.Off = uint32(m) }

func (c *Cursor) SkipToEnd() { c.Off = c.Limit }
