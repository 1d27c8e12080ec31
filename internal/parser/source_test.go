package parser

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"destructgen/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const structureGo = `package ffi

/*
#include <stdlib.h>
*/
import "C"

import "unsafe"

type MyStruct struct {
	field *C.char
}

type AnyOther struct{ a, b uint32 }

//destruct:generate
//destruct:export
type Structure struct {
	CString         *C.char
	CStringNullable *C.char ` + "`destruct:\"nullable\"`" + `
	Other           *MyStruct
	OtherNullable   *MyStruct ` + "`destruct:\"nullable\" json:\"other\"`" + `
	NotDropped      *AnyOther ` + "`destruct:\"no_release\"`" + `
	Any             *AnyOther
	Opaque          unsafe.Pointer
	NormalInt       uint32
	Names           []string
}

type (
	// Handle is passed to C by pointer.
	//destruct:export
	Handle struct{ id int }

	// Pair owns two buffers.
	//destruct:generate
	Pair struct {
		left, right *C.char
	}
)
`

func TestParseFile(t *testing.T) {
	src, err := ParseFile("structure.go", structureGo)
	require.NoError(t, err)

	assert.Equal(t, "ffi", src.Package)
	assert.Equal(t, "structure.go", src.Path)
	assert.Equal(t, []string{"Structure", "Handle"}, src.Exports)
	require.Len(t, src.Structs, 2)

	s := src.Structs[0]
	assert.Equal(t, "Structure", s.Name)
	require.Len(t, s.Fields, 9)

	assert.Equal(t, types.Field{Name: "CString", Shape: types.RawPointer{Pointee: "C.char"}}, s.Fields[0])
	assert.Equal(t, []types.Attribute{types.Nullable}, s.Fields[1].Attributes)
	assert.Equal(t, types.RawPointer{Pointee: "MyStruct"}, s.Fields[2].Shape)
	assert.Equal(t, []types.Attribute{types.Nullable}, s.Fields[3].Attributes)
	assert.Equal(t, []types.Attribute{types.NoRelease}, s.Fields[4].Attributes)
	assert.Equal(t, types.Other{Type: "unsafe.Pointer"}, s.Fields[6].Shape)
	assert.Equal(t, types.Other{Type: "[]string"}, s.Fields[8].Shape)

	pair := src.Structs[1]
	assert.Equal(t, "Pair", pair.Name)
	require.Len(t, pair.Fields, 2)
	assert.Equal(t, "left", pair.Fields[0].Name)
	assert.Equal(t, "right", pair.Fields[1].Name)
}

func TestParseFile_EmbeddedFields(t *testing.T) {
	src, err := ParseFile("e.go", `package ffi

//destruct:generate
type Wrapper struct {
	*Inner
	pkg.Value
}
`)
	require.NoError(t, err)
	require.Len(t, src.Structs, 1)

	fields := src.Structs[0].Fields
	assert.Equal(t, "Inner", fields[0].Name)
	assert.Equal(t, types.RawPointer{Pointee: "Inner"}, fields[0].Shape)
	assert.Equal(t, "Value", fields[1].Name)
	assert.Equal(t, types.Other{Type: "pkg.Value"}, fields[1].Shape)
}

func TestParseFile_NoDirectives(t *testing.T) {
	src, err := ParseFile("plain.go", "package ffi\n\ntype A struct{ p *int }\n")
	require.NoError(t, err)
	assert.True(t, src.Empty())
}

func TestParseFile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
	}{
		{
			name: "generate on non-struct",
			src:  "package ffi\n\n//destruct:generate\ntype ID int\n",
			err:  types.ErrUnsupportedShape,
		},
		{
			name: "generic struct",
			src:  "package ffi\n\n//destruct:generate\ntype Box[T any] struct{ p *T }\n",
			err:  types.ErrUnsupportedShape,
		},
		{
			name: "unknown tag",
			src:  "package ffi\n\n//destruct:generate\ntype A struct {\n\tp *C.char `destruct:\"weak\"`\n}\n",
			err:  types.ErrUnknownAttribute,
		},
		{
			name: "syntax error",
			src:  "package ffi\n\ntype A struct {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFile("bad.go", tt.src)
			require.Error(t, err)
			if tt.err != nil {
				assert.ErrorIs(t, err, tt.err)
			}
		})
	}
}

func TestParseFile_FromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "structure.go")
	require.NoError(t, os.WriteFile(path, []byte(structureGo), 0644))

	src, err := ParseFile(path, nil)
	require.NoError(t, err)
	assert.Len(t, src.Structs, 2)
}

func TestLoadDir(t *testing.T) {
	if _, err := exec.LookPath("go"); err != nil {
		t.Skip("go command not available")
	}

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/ffi\n\ngo 1.21\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "structure.go"), []byte(structureGo), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "plain.go"), []byte("package ffi\n\ntype Plain struct{ n int }\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "old_destruct_gen.go"), []byte("package ffi\n\n//destruct:generate\ntype Stale struct{ p *int }\n"), 0644))

	sources, err := LoadDir(dir, false, "_destruct_gen.go")
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, "ffi", sources[0].Package)
	assert.Equal(t, "structure.go", filepath.Base(sources[0].Path))
}
