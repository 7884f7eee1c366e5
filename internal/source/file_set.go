package source

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"

	"fortio.org/safecast"
)

// FileSet owns every source loaded during one run. A path added twice gets
// a new FileID; older versions stay readable.
type FileSet struct {
	files   []File
	latest  map[string]FileID
	baseDir string // пусто: текущая директория
}

func NewFileSet() *FileSet {
	return &FileSet{latest: make(map[string]FileID)}
}

// SetBaseDir sets the directory relative paths are formatted against.
func (s *FileSet) SetBaseDir(dir string) { s.baseDir = dir }

// BaseDir returns the base directory, falling back to the working directory.
func (s *FileSet) BaseDir() string {
	if s.baseDir != "" {
		return s.baseDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

func (s *FileSet) Len() int { return len(s.files) }

// Add stores content as-is under path and indexes its lines.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("too many files: %w", err))
	}
	id := FileID(n)
	path = cleanPath(path)
	s.files = append(s.files, File{
		ID:       id,
		Path:     path,
		Content:  content,
		Newlines: newlineOffsets(content),
		Hash:     sha256.Sum256(content),
		Flags:    flags,
	})
	s.latest[path] = id
	return id
}

// AddVirtual adds in-memory content without normalizing it.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Load reads path from disk and normalizes BOM and line endings.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	content, flags := normalize(raw)
	return s.Add(path, content, flags), nil
}

// Read drains r into a virtual file called name.
func (s *FileSet) Read(name string, r io.Reader) (FileID, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read %s: %w", name, err)
	}
	content, flags := normalize(raw)
	return s.Add(name, content, flags|FileVirtual), nil
}

// Get returns the file with id. It panics on an id the set never issued.
func (s *FileSet) Get(id FileID) *File {
	return &s.files[id]
}

// Latest returns the newest FileID added under path.
func (s *FileSet) Latest(path string) (FileID, bool) {
	id, ok := s.latest[cleanPath(path)]
	return id, ok
}

// Resolve converts both ends of span into line and column positions.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	return f.position(span.Start), f.position(span.End)
}

// Text returns the bytes covered by span, clamped to the file.
func (s *FileSet) Text(span Span) string {
	content := s.Get(span.File).Content
	end := min(int(span.End), len(content))
	start := min(int(span.Start), end)
	return string(content[start:end])
}
