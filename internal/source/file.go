package source

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"fortio.org/safecast"
)

// FileID names a file inside a FileSet. Zero is never handed out.
type FileID uint32

// File is one registered text. Content is kept byte for byte: spans in a
// dump are offsets into the text the parser saw.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	// newlines holds the offset of every '\n' in Content.
	newlines []uint32
}

// LineCol is a 1-based position; columns count bytes.
type LineCol struct {
	Line uint32
	Col  uint32
}

func newFile(id FileID, path string, content []byte) File {
	var newlines []uint32
	for i, c := range content {
		if c == '\n' {
			newlines = append(newlines, uint32(i)) //nolint:gosec // bounded by size check in AddVirtual
		}
	}
	return File{ID: id, Path: filepath.ToSlash(filepath.Clean(path)), Content: content, newlines: newlines}
}

func (f *File) size() uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("file %s: %w", f.Path, err))
	}
	return n
}

// Position converts a byte offset. Offsets past the end clamp to it.
func (f *File) Position(off uint32) LineCol {
	off = min(off, f.size())
	// index of the first newline at or after off is the 0-based line
	line := sort.Search(len(f.newlines), func(i int) bool { return f.newlines[i] >= off })
	var lineStart uint32
	if line > 0 {
		lineStart = f.newlines[line-1] + 1
	}
	return LineCol{Line: uint32(line) + 1, Col: off - lineStart + 1} //nolint:gosec // line <= len(newlines)
}

// LineCount reports the number of lines, counting a trailing partial one.
func (f *File) LineCount() int {
	return len(f.newlines) + 1
}

// GetLine returns the 1-based line lineNum without its newline, or "" when
// the line does not exist.
func (f *File) GetLine(lineNum uint32) string {
	if lineNum == 0 || int(lineNum) > f.LineCount() {
		return ""
	}
	var start uint32
	if lineNum > 1 {
		start = f.newlines[lineNum-2] + 1
	}
	end := f.size()
	if int(lineNum) <= len(f.newlines) {
		end = f.newlines[lineNum-1]
	}
	return string(f.Content[start:end])
}

// FormatPath renders the path: "absolute", "relative" (to baseDir), "basename"
// or "auto" which keeps short paths and shortens long absolute ones.
func (f *File) FormatPath(mode, baseDir string) string {
	switch mode {
	case "absolute":
		if abs, err := filepath.Abs(f.Path); err == nil {
			return filepath.ToSlash(abs)
		}
	case "relative":
		if baseDir == "" {
			baseDir, _ = os.Getwd()
		}
		if abs, err := filepath.Abs(f.Path); err == nil {
			if rel, err := filepath.Rel(baseDir, abs); err == nil {
				return filepath.ToSlash(rel)
			}
		}
	case "basename":
		return filepath.Base(f.Path)
	case "auto":
		if filepath.IsAbs(f.Path) && len(f.Path) >= 40 {
			return filepath.Base(f.Path)
		}
	}
	return f.Path
}
