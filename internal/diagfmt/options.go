package diagfmt

import "spoke/internal/source"

// PathMode selects how file paths appear in diagnostics.
type PathMode uint8

const (
	PathModeAuto PathMode = iota // basename for long absolute paths
	PathModeAbsolute
	PathModeRelative // against FileSet.BaseDir
	PathModeBasename
)

var pathModeNames = [...]string{
	PathModeAuto:     "auto",
	PathModeAbsolute: "absolute",
	PathModeRelative: "relative",
	PathModeBasename: "basename",
}

func (m PathMode) String() string {
	if int(m) < len(pathModeNames) {
		return pathModeNames[m]
	}
	return "auto"
}

// ParsePathMode maps a flag value to a PathMode; "" means auto.
func ParsePathMode(s string) (PathMode, bool) {
	if s == "" {
		return PathModeAuto, true
	}
	for m, name := range pathModeNames {
		if name == s {
			return PathMode(m), true
		}
	}
	return PathModeAuto, false
}

type PrettyOpts struct {
	Color       bool
	Context     int8 // строк исходника над строкой диагностики
	PathMode    PathMode
	Max         int // режет только вывод, Bag не трогает
	ShowNotes   bool
	ShowFixes   bool
	ShowPreview bool
}

type JSONOpts struct {
	IncludePositions bool
	PathMode         PathMode
	Max              int
	IncludeNotes     bool
	IncludeFixes     bool
	IncludePreviews  bool
}

func formatPath(fs *source.FileSet, f *source.File, mode PathMode) string {
	base := ""
	if mode == PathModeRelative {
		base = fs.BaseDir()
	}
	return f.FormatPath(mode.String(), base)
}

func validSpan(fs *source.FileSet, span source.Span) bool {
	return fs != nil && int(span.File) < fs.Len()
}
