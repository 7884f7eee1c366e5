package driver

import (
	"io"
	"runtime"
	"strconv"
	"strings"

	"spoke/internal/parser"
	"spoke/internal/project"
	"spoke/internal/render"
	"spoke/internal/version"
)

// Options configures one generation run.
type Options struct {
	Render         render.Options
	Modifiers      []parser.Modifier // nil: модификаторы по умолчанию
	MaxDiagnostics int               // лимит Bag, 0: без ограничения
	Extension      string            // расширение входных файлов в GenerateDir
	Suffix         string            // суффикс выходного файла
	OutDir         string            // пусто: рядом со входным файлом
	Write          bool
	Jobs           int
	EmitTimings    bool
	Cache          *DiskCache
	Stdin          io.Reader
}

// FromConfig builds options from a decoded spoke.toml.
func FromConfig(cfg project.Config) Options {
	mods := make([]parser.Modifier, 0, len(cfg.Modifiers))
	for _, m := range cfg.Modifiers {
		mods = append(mods, parser.Modifier{Keyword: m.Keyword, Macro: m.Macro})
	}
	return Options{
		Render: render.Options{
			Module: cfg.Generate.Module,
			Allow:  cfg.Generate.Allow,
		},
		Modifiers:      mods,
		MaxDiagnostics: cfg.Diagnostics.Max,
		Extension:      cfg.Generate.Extension,
		Suffix:         cfg.Generate.Suffix,
	}
}

func (o Options) extension() string {
	if o.Extension == "" {
		return project.DefaultExtension
	}
	return o.Extension
}

func (o Options) suffix() string {
	if o.Suffix == "" {
		return project.DefaultSuffix
	}
	return o.Suffix
}

func (o Options) jobs() int {
	if o.Jobs <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return o.Jobs
}

// digest identifies everything besides the input text that shapes the
// rendered output. Cache entries are keyed by file hash combined with it.
func (o Options) digest() project.Digest {
	parts := []string{
		"spoke", version.Version,
		"module=" + o.Render.Module,
		"indent=" + strconv.Itoa(o.Render.IndentWidth),
		"tabs=" + strconv.FormatBool(o.Render.UseTabs),
	}
	if o.Render.Allow == nil {
		parts = append(parts, "allow=default")
	} else {
		parts = append(parts, "allow="+strings.Join(o.Render.Allow, ","))
	}
	if o.Modifiers == nil {
		parts = append(parts, "modifiers=default")
	}
	for _, m := range o.Modifiers {
		parts = append(parts, "modifier="+m.Keyword+"="+m.Macro)
	}
	return project.HashStrings(parts...)
}
