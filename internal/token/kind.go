package token

// Kind represents the category of a token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF
	// Ident is an identifier, keyword or raw identifier (`r#type`).
	Ident
	// Literal is a number, string, byte string or character literal.
	Literal
	// Punct is a single punctuation character.
	Punct
	// Open is a flat-stream opening delimiter; the tree builder folds it into a Group.
	Open
	// Close is a flat-stream closing delimiter.
	Close
	// Group is a delimited sequence of tokens.
	Group
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case EOF:
		return "EOF"
	case Ident:
		return "Ident"
	case Literal:
		return "Literal"
	case Punct:
		return "Punct"
	case Open:
		return "Open"
	case Close:
		return "Close"
	case Group:
		return "Group"
	}
	return "Kind(?)"
}

// Delim is the delimiter of a group.
type Delim uint8

const (
	DelimNone Delim = iota
	Paren           // ( )
	Brace           // { }
	Bracket         // [ ]
)

// OpenText returns the opening character.
func (d Delim) OpenText() string {
	switch d {
	case Paren:
		return "("
	case Brace:
		return "{"
	case Bracket:
		return "["
	}
	return ""
}

// CloseText returns the closing character.
func (d Delim) CloseText() string {
	switch d {
	case Paren:
		return ")"
	case Brace:
		return "}"
	case Bracket:
		return "]"
	}
	return ""
}

func (d Delim) String() string {
	switch d {
	case Paren:
		return "Paren"
	case Brace:
		return "Brace"
	case Bracket:
		return "Bracket"
	}
	return "None"
}

// DelimOf maps an opening or closing byte to its delimiter.
func DelimOf(b byte) Delim {
	switch b {
	case '(', ')':
		return Paren
	case '{', '}':
		return Brace
	case '[', ']':
		return Bracket
	}
	return DelimNone
}

// LitKind refines Literal tokens.
type LitKind uint8

const (
	LitNone LitKind = iota
	LitInt
	LitFloat
	LitStr
	LitRawStr
	LitByteStr
	LitChar
	LitByte
)

func (l LitKind) String() string {
	switch l {
	case LitInt:
		return "int"
	case LitFloat:
		return "float"
	case LitStr:
		return "str"
	case LitRawStr:
		return "raw_str"
	case LitByteStr:
		return "byte_str"
	case LitChar:
		return "char"
	case LitByte:
		return "byte"
	}
	return "none"
}
