// Package testkit holds structural checks shared by tests and fuzz harnesses.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"spoke/internal/source"
	"spoke/internal/suite"
	"spoke/internal/token"
)

// CheckTreeSpans runs the span invariants of a token tree built from sf:
// 1) every span lies inside the file content and points at sf
// 2) siblings start in source order
// 3) the children of a group lie inside the group span
func CheckTreeSpans(tree []token.Token, sf *source.File) error {
	if sf == nil {
		return fmt.Errorf("nil file")
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	whole := source.Span{File: sf.ID, Start: 0, End: lenContent}
	return checkLevel(tree, whole)
}

func checkLevel(toks []token.Token, parent source.Span) error {
	var prev uint32
	for i := range toks {
		tok := &toks[i]
		sp := tok.Span
		if sp.File != parent.File {
			return fmt.Errorf("token %q points to file %d, want %d", tok.Text, sp.File, parent.File)
		}
		if sp.Start > sp.End {
			return fmt.Errorf("token %q has inverted span %v", tok.Text, sp)
		}
		if sp.Start < parent.Start || sp.End > parent.End {
			return fmt.Errorf("token %q span %v is outside %v", tok.Text, sp, parent)
		}
		if i > 0 && sp.Start < prev {
			return fmt.Errorf("token %q at %d starts before its predecessor at %d", tok.Text, sp.Start, prev)
		}
		prev = sp.Start
		if tok.Kind == token.Group {
			if err := checkLevel(tok.Inner, sp); err != nil {
				return fmt.Errorf("in %s group at %d: %w", tok.Delim, sp.Start, err)
			}
		}
	}
	return nil
}

// CheckOutput runs the invariants of an assembled suite: test names are
// unique identifiers and every code token refers to sf.
func CheckOutput(out suite.Output, sf *source.File) error {
	seen := make(map[string]bool, len(out.Tests))
	for _, tc := range out.Tests {
		if !isIdentifier(tc.Name) {
			return fmt.Errorf("test name %q is not an identifier", tc.Name)
		}
		if seen[tc.Name] {
			return fmt.Errorf("test name %q emitted twice", tc.Name)
		}
		seen[tc.Name] = true
		if tc.Full == "" {
			return fmt.Errorf("test %q has no title", tc.Name)
		}
		if err := checkFile(tc.Code, sf.ID); err != nil {
			return fmt.Errorf("test %q: %w", tc.Name, err)
		}
	}
	return checkFile(out.Preamble, sf.ID)
}

func checkFile(toks []token.Token, id source.FileID) error {
	for i := range toks {
		if toks[i].Span.File != id {
			return fmt.Errorf("token %q points to file %d, want %d", toks[i].Text, toks[i].Span.File, id)
		}
		if toks[i].Kind == token.Group {
			if err := checkFile(toks[i].Inner, id); err != nil {
				return err
			}
		}
	}
	return nil
}

func isIdentifier(s string) bool {
	for i, r := range s {
		if i == 0 && r != '_' && !token.IsXIDStart(r) {
			return false
		}
		if i > 0 && !token.IsXIDContinue(r) {
			return false
		}
	}
	return s != ""
}
