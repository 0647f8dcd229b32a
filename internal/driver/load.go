package driver

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"tsbind/internal/ast"
	"tsbind/internal/source"
)

// DumpFormat is the encoding of an AST dump on disk.
type DumpFormat uint8

const (
	DumpUnknown DumpFormat = iota
	DumpJSON
	DumpMsgpack
)

var ErrUnknownDumpFormat = errors.New("unknown dump format")

// DumpFormatOf picks the codec from the file extension: .json for JSON,
// .tsast and .msgpack for msgpack.
func DumpFormatOf(path string) DumpFormat {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return DumpJSON
	case ".tsast", ".msgpack":
		return DumpMsgpack
	}
	return DumpUnknown
}

// IsDumpPath reports whether path has a dump extension.
func IsDumpPath(path string) bool {
	return DumpFormatOf(path) != DumpUnknown
}

// ReadDump decodes the dump at path. The returned file is not yet attached
// to a FileSet.
func ReadDump(path string) (*ast.File, error) {
	format := DumpFormatOf(path)
	if format == DumpUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownDumpFormat)
	}
	// #nosec G304 -- path is provided by the caller
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	r := bufio.NewReader(fh)
	var f *ast.File
	switch format {
	case DumpJSON:
		f, err = ast.DecodeJSON(r, 0)
	default:
		f, err = ast.DecodeMsgpack(r, 0)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if f.Path == "" {
		f.Path = path
	}
	return f, nil
}

// Attach registers the text of f in fileSet and points every span at it.
func Attach(fileSet *source.FileSet, f *ast.File) source.FileID {
	id := fileSet.AddVirtual(f.Path, []byte(f.Text))
	f.SetSource(id)
	return id
}

// LoadDump reads a dump and attaches it to fileSet.
func LoadDump(fileSet *source.FileSet, path string) (*ast.File, error) {
	f, err := ReadDump(path)
	if err != nil {
		return nil, err
	}
	Attach(fileSet, f)
	return f, nil
}

// ExpandPaths replaces every directory in paths with the dump files under
// it, sorted. Files are kept as given even without a dump extension so that
// ReadDump reports them.
func ExpandPaths(paths []string) ([]string, error) {
	out := make([]string, 0, len(paths))
	seen := make(map[string]bool, len(paths))
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && IsDumpPath(path) {
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
		sort.Strings(found)
		for _, f := range found {
			add(f)
		}
	}
	return out, nil
}
