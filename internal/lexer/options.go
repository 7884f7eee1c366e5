package lexer

import (
	"spoke/internal/diag"
	"spoke/internal/source"
)

const maxTokenLength = 1 << 16

type Options struct {
	Reporter diag.Reporter // может быть nil: тогда ошибки игнорируем (но продолжаем лексить)
	// MaxTokenLength overrides the per-token byte limit; 0 keeps the default.
	MaxTokenLength uint32
}

func (lx *Lexer) errLex(code diag.Code, sp source.Span, msg string) {
	if lx.opts.Reporter != nil {
		diag.ReportError(lx.opts.Reporter, code, sp, msg).Emit()
	}
}

func (lx *Lexer) tokenLimit() uint32 {
	if lx.opts.MaxTokenLength != 0 {
		return lx.opts.MaxTokenLength
	}
	return maxTokenLength
}
