package source

import (
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileID indexes a file inside its FileSet.
type FileID uint32

// FileFlags records how the content of a file was obtained.
type FileFlags uint8

const (
	FileVirtual        FileFlags = 1 << iota // не с диска: stdin, тесты
	FileHadBOM                               // UTF-8 BOM был срезан
	FileNormalizedCRLF                       // \r\n заменены на \n
)

// File is one loaded .spoke source. Content is already normalized.
type File struct {
	ID       FileID
	Path     string
	Content  []byte
	Newlines []uint32 // offset of every '\n', ascending
	Hash     [32]byte
	Flags    FileFlags
}

// LineCol is a 1-based position; Col counts bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

// Virtual reports whether the file has no backing file on disk.
func (f *File) Virtual() bool { return f.Flags&FileVirtual != 0 }

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(err)
	}
	return n
}

// LineStart returns the offset of the first byte of line n (1-based).
// Lines past the end start at len(Content).
func (f *File) LineStart(n uint32) uint32 {
	switch {
	case n <= 1:
		return 0
	case int(n-2) < len(f.Newlines):
		return f.Newlines[n-2] + 1
	default:
		return f.size()
	}
}

// LineEnd returns the offset just past line n including its '\n'.
func (f *File) LineEnd(n uint32) uint32 {
	switch {
	case n == 0:
		return 0
	case int(n-1) < len(f.Newlines):
		return f.Newlines[n-1] + 1
	default:
		return f.size()
	}
}

// Line returns the text of line n without its line break, or "" when the
// file has no such line.
func (f *File) Line(n uint32) string {
	if n == 0 || int(n-1) > len(f.Newlines) {
		return ""
	}
	start, end := f.LineStart(n), f.LineEnd(n)
	if int(n-1) < len(f.Newlines) {
		end-- // без '\n'
	}
	if start >= end {
		return ""
	}
	return string(f.Content[start:end])
}

// position maps a byte offset to its line and column.
func (f *File) position(off uint32) LineCol {
	// число '\n' строго до off и есть номер строки минус один
	lo, hi := 0, len(f.Newlines)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if f.Newlines[mid] < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	line, err := safecast.Conv[uint32](lo + 1)
	if err != nil {
		panic(err)
	}
	return LineCol{Line: line, Col: off - f.LineStart(line) + 1}
}

// FormatPath renders the file path for diagnostics. mode is one of
// "absolute", "relative", "basename" or "auto"; anything else keeps Path.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := AbsolutePath(f.Path); err == nil {
			return abs
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd() //nolint:errcheck
		}
		if rel, err := RelativePath(f.Path, baseDir); err == nil {
			return rel
		}
	case "basename":
		return BaseName(f.Path)
	case "auto":
		// длинные абсолютные пути съедают строку диагностики
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return BaseName(f.Path)
		}
	}
	return f.Path
}
