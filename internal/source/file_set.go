package source

import (
	"fmt"
	"os"
	"path/filepath"

	"fortio.org/safecast"
)

// FileSet owns every file of one run. IDs are dense indexes; loading the
// same path twice yields two files and the path index points at the newer.
type FileSet struct {
	files   []File
	byPath  map[string]FileID
	baseDir string
}

func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// NewFileSetWithBase fixes the directory RelPath is computed against.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the base directory, falling back to the working directory.
func (s *FileSet) BaseDir() string {
	if s.baseDir != "" {
		return s.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// Add stores already-normalized content under a new ID.
func (s *FileSet) Add(path string, content []byte, flags FileFlags) FileID {
	n, err := safecast.Conv[uint32](len(s.files))
	if err != nil {
		panic(fmt.Errorf("source: too many files: %w", err))
	}
	path = normalizePath(path)
	id := FileID(n)
	s.files = append(s.files, File{
		ID:      id,
		Path:    path,
		Content: content,
		LineIdx: buildLineIndex(content),
		Flags:   flags,
	})
	s.byPath[path] = id
	return id
}

// Load reads path from disk and hands it to LoadBytes.
func (s *FileSet) Load(path string) (FileID, error) {
	// #nosec G304 -- путь задаёт пользователь
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return s.LoadBytes(path, content), nil
}

// LoadBytes strips a BOM and CRLF line endings, recording both in the
// file flags.
func (s *FileSet) LoadBytes(path string, content []byte) FileID {
	var flags FileFlags
	content, had := removeBOM(content)
	if had {
		flags |= FileHadBOM
	}
	if content, had = normalizeCRLF(content); had {
		flags |= FileHadCRLF
	}
	return s.Add(path, content, flags)
}

// AddVirtual adds in-memory content as is.
func (s *FileSet) AddVirtual(name string, content []byte) FileID {
	return s.Add(name, content, FileVirtual)
}

// Get returns the file, or nil for an unknown ID.
func (s *FileSet) Get(id FileID) *File {
	if int(id) >= len(s.files) {
		return nil
	}
	return &s.files[id]
}

// Lookup finds the latest file loaded under path.
func (s *FileSet) Lookup(path string) (*File, bool) {
	id, ok := s.byPath[normalizePath(path)]
	if !ok {
		return nil, false
	}
	return &s.files[id], true
}

// Resolve converts both ends of span. Unknown files resolve to 1:1.
func (s *FileSet) Resolve(span Span) (start, end LineCol) {
	f := s.Get(span.File)
	if f == nil {
		return LineCol{Line: 1, Col: 1}, LineCol{Line: 1, Col: 1}
	}
	return f.Position(span.Start), f.Position(span.End)
}

// RelPath shortens absolute paths against BaseDir.
func (s *FileSet) RelPath(f *File) string {
	switch {
	case f == nil:
		return ""
	case !filepath.IsAbs(f.Path):
		return f.Path
	}
	if rel, err := filepath.Rel(s.BaseDir(), f.Path); err == nil {
		return filepath.ToSlash(rel)
	}
	return f.Path
}
