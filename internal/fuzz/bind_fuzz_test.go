package fuzztests

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"tsbind/internal/ast"
	"tsbind/internal/binder"
	"tsbind/internal/source"
	"tsbind/internal/testkit"
)

// bindTimeout bounds a single bind; exceeding it means a walk loops.
const bindTimeout = 5 * time.Second

type decoder func(io.Reader, source.FileID) (*ast.File, error)

func FuzzBindJSONDump(f *testing.F) {
	addSeeds(f, encodeJSON)
	f.Add([]byte(`{"schema":1,"root":1,"nodes":[{"kind":"SourceFile"}]}`))
	f.Add([]byte(`{"schema":1,"root":1,"nodes":[{"kind":"SourceFile","list":[1]}]}`))
	f.Fuzz(func(t *testing.T, input []byte) {
		decodeAndBind(t, ast.DecodeJSON, clip(input))
	})
}

func FuzzBindMsgpackDump(f *testing.F) {
	addSeeds(f, encodeMsgpack)
	f.Fuzz(func(t *testing.T, input []byte) {
		decodeAndBind(t, ast.DecodeMsgpack, clip(input))
	})
}

func decodeAndBind(t *testing.T, decode decoder, input []byte) {
	file, err := decode(bytes.NewReader(input), 1)
	if err != nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), bindTimeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		_, err := binder.Bind(binder.NewSourceFile(file), binder.Options{Validate: true})
		done <- err
	}()

	select {
	case err := <-done:
		var ierr *binder.InternalError
		if err != nil && !errors.As(err, &ierr) && !errors.Is(err, binder.ErrInvalidBind) {
			t.Fatalf("bind: unexpected error kind: %v", err)
		}
		if err == nil {
			if perr := testkit.CheckParents(file); perr != nil {
				t.Fatalf("bound tree: %v", perr)
			}
		}
	case <-ctx.Done():
		t.Fatalf("bind hang detected after %v (%d bytes)", bindTimeout, len(input))
	}
}

func TestSeedsAreWellFormed(t *testing.T) {
	for _, file := range seedFiles() {
		fs := source.NewFileSet()
		id := fs.AddVirtual(file.Path, []byte(file.Text))
		file.SetSource(id)
		if err := testkit.CheckSpanInvariants(file, fs.Get(id)); err != nil {
			t.Errorf("%s: %v", file.Path, err)
		}
		sf := binder.NewSourceFile(file)
		if _, err := binder.Bind(sf, binder.Options{Validate: true}); err != nil {
			t.Fatalf("%s: %v", file.Path, err)
		}
		if err := testkit.CheckParents(file); err != nil {
			t.Errorf("%s: %v", file.Path, err)
		}
	}
}
