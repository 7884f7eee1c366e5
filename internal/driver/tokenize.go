package driver

import (
	"io"
	"os"

	"spoke/internal/diag"
	"spoke/internal/lexer"
	"spoke/internal/source"
	"spoke/internal/token"
)

// StdinPath is the path argument meaning "read standard input".
const StdinPath = "-"

const stdinName = "<stdin>"

type TokenizeResult struct {
	FileSet *source.FileSet
	File    *source.File
	Tokens  []token.Token
	Bag     *diag.Bag
}

// LoadFile reads path into a new FileSet; "-" reads stdin (os.Stdin when nil).
func LoadFile(path string, stdin io.Reader) (*source.FileSet, source.FileID, error) {
	fs := source.NewFileSet()
	if path == StdinPath {
		if stdin == nil {
			stdin = os.Stdin
		}
		id, err := fs.Read(stdinName, stdin)
		return fs, id, err
	}
	id, err := fs.Load(path)
	if err != nil {
		fs = nil
	}
	return fs, id, err
}

// Tokenize returns the flat token stream of a loaded file, EOF included.
func Tokenize(fs *source.FileSet, id source.FileID, maxDiagnostics int) *TokenizeResult {
	res := newResult(fs, id, maxDiagnostics)
	res.Tokens = lexer.New(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}}).All()
	return res
}

// TokenizeTree returns the token tree the parser consumes; delimiter
// problems are reported alongside lexical ones.
func TokenizeTree(fs *source.FileSet, id source.FileID, maxDiagnostics int) *TokenizeResult {
	res := newResult(fs, id, maxDiagnostics)
	res.Tokens = lexer.Tree(res.File, lexer.Options{Reporter: diag.BagReporter{Bag: res.Bag}})
	return res
}

func newResult(fs *source.FileSet, id source.FileID, maxDiagnostics int) *TokenizeResult {
	return &TokenizeResult{FileSet: fs, File: fs.Get(id), Bag: diag.NewBag(maxDiagnostics)}
}
