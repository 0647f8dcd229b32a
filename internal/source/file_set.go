package source

import (
	"fmt"
	"os"

	"fortio.org/safecast"
)

// FileSet owns the text of every file a run touches and resolves spans to
// line/column positions. It is not safe for concurrent mutation; the driver
// registers files from one goroutine.
type FileSet struct {
	files   []File
	byPath  map[string]FileID
	baseDir string
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{byPath: make(map[string]FileID)}
}

// NewFileSetWithBase creates a FileSet that renders relative paths against baseDir.
func NewFileSetWithBase(baseDir string) *FileSet {
	fs := NewFileSet()
	fs.baseDir = baseDir
	return fs
}

// BaseDir returns the directory used for relative path rendering, falling
// back to the working directory.
func (fs *FileSet) BaseDir() string {
	if fs.baseDir != "" {
		return fs.baseDir
	}
	wd, _ := os.Getwd()
	return wd
}

// AddVirtual registers content under name and returns a fresh FileID, even
// when name was registered before.
func (fs *FileSet) AddVirtual(name string, content []byte) FileID {
	if _, err := safecast.Conv[uint32](len(content)); err != nil {
		panic(fmt.Errorf("file %s too large: %w", name, err))
	}
	n, err := safecast.Conv[uint32](len(fs.files) + 1)
	if err != nil {
		panic(fmt.Errorf("file set overflow: %w", err))
	}
	f := newFile(FileID(n), name, content)
	fs.files = append(fs.files, f)
	fs.byPath[f.Path] = f.ID
	return f.ID
}

// Get returns the file for id or nil.
func (fs *FileSet) Get(id FileID) *File {
	if id == 0 || int(id) > len(fs.files) {
		return nil
	}
	return &fs.files[id-1]
}

// Len reports the number of stored files.
func (fs *FileSet) Len() int { return len(fs.files) }

// Lookup returns the newest FileID registered under path.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.byPath[newFile(0, path, nil).Path]
	return id, ok
}

// Resolve converts a span into start and end positions. Spans of unknown
// files resolve to zero positions.
func (fs *FileSet) Resolve(span Span) (start, end LineCol) {
	f := fs.Get(span.File)
	if f == nil {
		return LineCol{}, LineCol{}
	}
	return f.Position(span.Start), f.Position(span.End)
}

// Slice returns the bytes covered by span, clamped to the file content.
func (fs *FileSet) Slice(span Span) []byte {
	f := fs.Get(span.File)
	if f == nil {
		return nil
	}
	n := f.size()
	start, end := min(span.Start, n), min(span.End, n)
	if end < start {
		return nil
	}
	return f.Content[start:end]
}
