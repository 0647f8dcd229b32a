package ast

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func sampleFile() *File {
	b := NewBuilder("sample.ts")
	return b.Finish(
		b.Directive(`"use strict"`),
		b.Export(b.Class(0, "C", nil,
			b.Property(FlagStatic, b.Ident("n"), b.Keyword("number"), b.Num("1")),
		)),
		b.ExprStmt(b.Binary(b.Ident("a"), OpPlusAssign, b.Num("2"))),
	)
}

func shape(f *File) []string {
	var out []string
	f.Walk(f.Root, func(id NodeID) bool {
		n := f.Node(id)
		out = append(out, n.Kind.String()+" "+n.Flags.String()+" "+n.Operator.String()+" "+f.TextOf(id)+" "+f.RawOf(id))
		return true
	})
	return out
}

func TestDumpRoundTrip(t *testing.T) {
	codecs := []struct {
		name   string
		encode func(*bytes.Buffer, *File) error
		decode func(*bytes.Buffer) (*File, error)
	}{
		{"json", func(w *bytes.Buffer, f *File) error { return EncodeJSON(w, f) }, func(r *bytes.Buffer) (*File, error) { return DecodeJSON(r, 3) }},
		{"msgpack", func(w *bytes.Buffer, f *File) error { return EncodeMsgpack(w, f) }, func(r *bytes.Buffer) (*File, error) { return DecodeMsgpack(r, 3) }},
	}
	for _, codec := range codecs {
		t.Run(codec.name, func(t *testing.T) {
			orig := sampleFile()
			var buf bytes.Buffer
			if err := codec.encode(&buf, orig); err != nil {
				t.Fatalf("encode: %v", err)
			}
			got, err := codec.decode(&buf)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if diff := cmp.Diff(shape(orig), shape(got)); diff != "" {
				t.Fatalf("tree mismatch (-want +got):\n%s", diff)
			}
			if got.Source != 3 || got.Node(got.Root).Span.File != 3 {
				t.Fatalf("spans not attributed to file 3")
			}
			if got.ExternalModuleIndicator != orig.ExternalModuleIndicator {
				t.Fatalf("indicator = %d, want %d", got.ExternalModuleIndicator, orig.ExternalModuleIndicator)
			}
		})
	}
}

func TestDecodeRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		json string
		want error
	}{
		{"unknown kind", `{"schema":1,"root":1,"nodes":[{"kind":"Bogus"}]}`, ErrUnknownKind},
		{"bad child", `{"schema":1,"root":1,"nodes":[{"kind":"SourceFile","list":[7]}]}`, ErrBadNodeRef},
		{"bad op", `{"schema":1,"root":1,"nodes":[{"kind":"SourceFile","op":"<=>"}]}`, ErrUnknownOperator},
		{"root as child", `{"schema":1,"root":1,"nodes":[{"kind":"SourceFile","list":[1]}]}`, ErrNotTree},
		{"shared child", `{"schema":1,"root":1,"nodes":[{"kind":"SourceFile","list":[2,3]},{"kind":"ExpressionStatement","expr":4},{"kind":"ExpressionStatement","expr":4},{"kind":"Identifier","text":"x"}]}`, ErrNotTree},
		{"schema", `{"schema":9,"root":1,"nodes":[]}`, ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeJSON(strings.NewReader(tt.json), 1)
			if !errors.Is(err, tt.want) {
				t.Fatalf("err = %v, want %v", err, tt.want)
			}
		})
	}
}
