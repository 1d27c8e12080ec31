package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShapeOf(t *testing.T) {
	tests := []struct {
		desc string
		want Shape
	}{
		{"*C.char", RawPointer{Pointee: "C.char"}},
		{"*const c_char", RawPointer{Pointee: "c_char"}},
		{"*mut std::ffi::c_char", RawPointer{Pointee: "std::ffi::c_char"}},
		{"  *MyStruct ", RawPointer{Pointee: "MyStruct"}},
		{"**C.char", RawPointer{Pointee: "*C.char"}},
		{"*const *mut Foo", RawPointer{Pointee: "*mut Foo"}},
		{"uint32", Other{Type: "uint32"}},
		{"unsafe.Pointer", Other{Type: "unsafe.Pointer"}},
		{"[]byte", Other{Type: "[]byte"}},
	}

	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, ShapeOf(tt.desc))
		})
	}
}

func TestRawPointer_PointeeIsPointer(t *testing.T) {
	assert.True(t, RawPointer{Pointee: "*C.char"}.PointeeIsPointer())
	assert.False(t, RawPointer{Pointee: "C.char"}.PointeeIsPointer())
}

func TestField_Has(t *testing.T) {
	f := Field{Name: "a", Shape: RawPointer{Pointee: "C.char"}, Attributes: []Attribute{Nullable}}
	assert.True(t, f.Has(Nullable))
	assert.False(t, f.Has(NoRelease))
}

func TestStruct_Validate(t *testing.T) {
	charPtr := RawPointer{Pointee: "C.char"}

	tests := []struct {
		name string
		s    Struct
		err  error
	}{
		{"valid", Struct{Name: "A", Fields: []Field{{Name: "p", Shape: charPtr}}}, nil},
		{"no fields", Struct{Name: "A"}, ErrNoFields},
		{"positional field", Struct{Name: "A", Fields: []Field{{Shape: Other{Type: "int"}}}}, ErrUnnamedField},
		{"bad type name", Struct{Name: "", Fields: []Field{{Name: "p", Shape: charPtr}}}, ErrInvalidName},
		{"bad field name", Struct{Name: "A", Fields: []Field{{Name: "a-b", Shape: charPtr}}}, ErrInvalidName},
		{"blank pointer", Struct{Name: "A", Fields: []Field{{Name: "_", Shape: charPtr}}}, ErrInvalidName},
		{"blank padding", Struct{Name: "A", Fields: []Field{{Name: "_", Shape: Other{Type: "[4]byte"}}, {Name: "p", Shape: charPtr}}}, nil},
		{"attribute on value", Struct{Name: "A", Fields: []Field{{Name: "n", Shape: Other{Type: "uint32"}, Attributes: []Attribute{Nullable}}}}, ErrAttributeOnNonPointer},
		{"nested pointer", Struct{Name: "A", Fields: []Field{{Name: "p", Shape: RawPointer{Pointee: "*int"}}}}, ErrNestedPointer},
		{"missing shape", Struct{Name: "A", Fields: []Field{{Name: "p"}}}, ErrUnsupportedShape},
		{"duplicate field", Struct{Name: "A", Fields: []Field{{Name: "p", Shape: charPtr}, {Name: "p", Shape: charPtr}}}, ErrDuplicateField},
		{"repeated blank", Struct{Name: "A", Fields: []Field{{Name: "_", Shape: Other{Type: "int"}}, {Name: "_", Shape: Other{Type: "int"}}}}, nil},
		{"empty pointee", Struct{Name: "A", Fields: []Field{{Name: "p", Shape: RawPointer{}}}}, ErrUnsupportedShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.s.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}
}

func TestParseAttributes(t *testing.T) {
	attrs, err := ParseAttributes([]string{"nullable", " NO_RELEASE ", "", "nullable"})
	require.NoError(t, err)
	assert.Equal(t, []Attribute{Nullable, NoRelease}, attrs)

	_, err = ParseAttributes([]string{"no_drop"})
	assert.ErrorIs(t, err, ErrUnknownAttribute)
	assert.Contains(t, err.Error(), `"no_drop"`)
}

func TestSchemaError_Error(t *testing.T) {
	tests := []struct {
		err  *SchemaError
		want string
	}{
		{&SchemaError{Type: "T", Field: "n", Err: ErrAttributeOnNonPointer}, "schema error in T.n: attribute valid only on raw-pointer fields"},
		{&SchemaError{Type: "T", Err: ErrNoFields}, "schema error in T: structs without fields cannot be destructed"},
		{&SchemaError{Field: "p", Err: ErrNestedPointer}, "schema error in field p: nested raw pointers unsupported"},
		{&SchemaError{Tag: "weak", Err: ErrUnknownAttribute}, `schema error: unknown attribute "weak"`},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.err.Error())
	}
}

func TestWithField(t *testing.T) {
	_, err := ParseAttribute("weak")
	err = WithField(err, "T", "p")

	var se *SchemaError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "T", se.Type)
	assert.Equal(t, "p", se.Field)
	assert.Equal(t, "weak", se.Tag)
}

func TestAction(t *testing.T) {
	assert.True(t, ReleaseAction.Emits())
	assert.True(t, GuardedReleaseAction.Emits())
	assert.False(t, SkipAction.Emits())
	assert.False(t, SuppressedAction.Emits())
	assert.Equal(t, "unknown", Action("x").String())
	assert.Equal(t, "none", NoStrategy.String())
}
