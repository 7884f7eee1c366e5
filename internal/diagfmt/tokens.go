package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"spoke/internal/source"
	"spoke/internal/token"
)

// TokenOutput is the JSON shape of one token; groups carry their children.
type TokenOutput struct {
	Kind    string        `json:"kind"`
	Text    string        `json:"text,omitempty"`
	Delim   string        `json:"delim,omitempty"`
	Span    source.Span   `json:"span"`
	Joint   bool          `json:"joint,omitempty"`
	Leading []string      `json:"leading,omitempty"`
	Inner   []TokenOutput `json:"inner,omitempty"`
}

// FormatTokensPretty выводит токены в человекочитаемом формате.
// Содержимое групп печатается с отступом.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	n := 0
	return formatTokensPretty(w, tokens, fs, 0, &n)
}

func formatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet, depth int, n *int) error {
	for i := range tokens {
		tok := &tokens[i]
		*n++
		startPos, endPos := fs.Resolve(tok.Span)

		var leading []string
		for _, trivia := range tok.Leading {
			leading = append(leading, trivia.Kind.String())
		}

		kind := tok.Kind.String()
		if tok.Kind == token.Group {
			kind += " " + tok.Delim.String()
		}
		fmt.Fprintf(w, "%3d: %s%-15s", *n, strings.Repeat("  ", depth), kind)
		if tok.Text != "" && tok.Kind != token.Group {
			fmt.Fprintf(w, " %q", tok.Text)
		}
		fmt.Fprintf(w, " at %d:%d-%d:%d", startPos.Line, startPos.Col, endPos.Line, endPos.Col)
		if tok.Joint {
			fmt.Fprint(w, " joint")
		}
		if len(leading) > 0 {
			fmt.Fprintf(w, " (leading: %s)", strings.Join(leading, ", "))
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}

		if tok.Kind == token.Group {
			if err := formatTokensPretty(w, tok.Inner, fs, depth+1, n); err != nil {
				return err
			}
		}
		if tok.Kind == token.EOF {
			break
		}
	}
	return nil
}

// FormatTokensJSON выводит токены в JSON формате
func FormatTokensJSON(w io.Writer, tokens []token.Token) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(tokensJSON(tokens))
}

func tokensJSON(tokens []token.Token) []TokenOutput {
	output := make([]TokenOutput, 0, len(tokens))
	for i := range tokens {
		tok := &tokens[i]
		out := TokenOutput{
			Kind:  tok.Kind.String(),
			Span:  tok.Span,
			Joint: tok.Joint,
		}
		for _, trivia := range tok.Leading {
			out.Leading = append(out.Leading, trivia.Kind.String())
		}
		if tok.Kind == token.Group {
			out.Delim = tok.Delim.String()
			out.Inner = tokensJSON(tok.Inner)
		} else {
			out.Text = tok.Text
		}
		output = append(output, out)
		if tok.Kind == token.EOF {
			break
		}
	}
	return output
}
