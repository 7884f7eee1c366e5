package strlit

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
		err  string
	}{
		{"empty literal", ``, "", "string too short"},
		{"no quotes", `asss`, "", "unexpected character a"},
		{"single quote char", `"`, "", "string too short"},
		{"empty string", `""`, "", ""},
		{"one char", `"a"`, "a", ""},
		{"words", `"some string"`, "some string", ""},
		{"escapes kept", `"tab\t\"q\""`, `tab\t\"q\"`, ""},
		{"inner quote", `"some " string"`, "", "literal contains unescaped quote character(s)"},
		{"raw empty", `r""`, "", ""},
		{"raw char", `r"a"`, "a", ""},
		{"raw balanced hashes", `r####"a"####`, "a", ""},
		{"raw with quote", `r####"a"b"####`, `a"b`, ""},
		{"raw with quote hash", `r####"a"#b"####`, `a"#b`, ""},
		{"suffix", `"str"suffix`, "", "unmatched suffix detected, `suffix`, did you miss a space?"},
		{"late r", `r#r""##`, "", "found r at a position other than the start"},
		{"unbalanced hashes", `r##""#`, "", "missing closing hash on raw string"},
		{"suffix inside hashes", `r##""r##`, "", "unmatched suffix detected, `r`, did you miss a space?"},
		{"raw suffix", `r##""#c`, "", "unmatched raw suffix detected, `c`, did you miss a space?"},
		{"bad raw format", `r##"" #c`, "", "bad raw string format"},
		{"missing closing quote", `"a`, "", "missing closing quote on string"},
		{"number", `42`, "", "unexpected character 4"},
		{"byte string", `b"x"`, "", "unexpected character b"},
		{"unicode", `"京 ⟶ x"`, "京 ⟶ x", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.in)
			if tt.err != "" {
				var lerr *Error
				if !errors.As(err, &lerr) {
					t.Fatalf("Parse(%q) error = %v, want %q", tt.in, err, tt.err)
				}
				if lerr.Msg != tt.err {
					t.Fatalf("Parse(%q) error = %q, want %q", tt.in, lerr.Msg, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error %v", tt.in, err)
			}
			if got != tt.want {
				t.Fatalf("Parse(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
