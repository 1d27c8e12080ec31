package types

import (
	"go/token"
	"strings"
)

// Shape is the structural kind of a field: either a raw pointer or anything else.
type Shape interface {
	// Descriptor returns the textual type descriptor as written in the schema.
	Descriptor() string
	isShape()
}

// RawPointer is a single raw pointer field. Pointee is the descriptor of what
// it points to and is only ever inspected textually.
type RawPointer struct {
	Pointee string
}

func (p RawPointer) Descriptor() string { return "*" + p.Pointee }
func (RawPointer) isShape() {}

// PointeeIsPointer reports whether the pointee is itself a pointer.
func (p RawPointer) PointeeIsPointer() bool {
	return IsPointerDescriptor(p.Pointee)
}

// Other is any field that does not own memory through a raw pointer.
type Other struct {
	Type string
}

func (o Other) Descriptor() string { return o.Type }
func (Other) isShape() {}

type Field struct {
	Name       string
	Shape      Shape
	Attributes []Attribute
}

// Has reports whether the field carries the given attribute.
func (f Field) Has(attr Attribute) bool {
	for _, a := range f.Attributes {
		if a == attr {
			return true
		}
	}
	return false
}

// Pointer returns the raw pointer shape of the field, if it has one.
func (f Field) Pointer() (RawPointer, bool) {
	p, ok := f.Shape.(RawPointer)
	return p, ok
}

// Struct is a named-field record whose field order fixes teardown order.
type Struct struct {
	Name   string
	Fields []Field
}

// Validate checks the shape of the struct itself. Attribute and pointer depth
// rules are checked per field by ValidateField.
func (s Struct) Validate() error {
	if !token.IsIdentifier(s.Name) {
		return &SchemaError{Type: s.Name, Err: ErrInvalidName}
	}
	if len(s.Fields) == 0 {
		return &SchemaError{Type: s.Name, Err: ErrNoFields}
	}
	seen := make(map[string]bool, len(s.Fields))
	for i, f := range s.Fields {
		if f.Name == "" {
			return &SchemaError{Type: s.Name, Field: ordinal(i), Err: ErrUnnamedField}
		}
		if !token.IsIdentifier(f.Name) {
			return &SchemaError{Type: s.Name, Field: f.Name, Err: ErrInvalidName}
		}
		// a repeated name would release the same pointer twice
		if f.Name != "_" && seen[f.Name] {
			return &SchemaError{Type: s.Name, Field: f.Name, Err: ErrDuplicateField}
		}
		seen[f.Name] = true
		// blank fields cannot be referenced, so they cannot be released either
		if _, isPtr := f.Pointer(); isPtr && f.Name == "_" && !f.Has(NoRelease) {
			return &SchemaError{Type: s.Name, Field: f.Name, Err: ErrInvalidName}
		}
		if err := ValidateField(f); err != nil {
			return WithType(err, s.Name)
		}
	}
	return nil
}

// ValidateField enforces the attribute and pointer depth invariants on one field.
func ValidateField(f Field) error {
	switch shape := f.Shape.(type) {
	case RawPointer:
		if shape.PointeeIsPointer() {
			return &SchemaError{Field: f.Name, Err: ErrNestedPointer}
		}
		if strings.TrimSpace(shape.Pointee) == "" {
			return &SchemaError{Field: f.Name, Err: ErrUnsupportedShape}
		}
	case Other:
		if len(f.Attributes) > 0 {
			return &SchemaError{Field: f.Name, Err: ErrAttributeOnNonPointer}
		}
	default:
		return &SchemaError{Field: f.Name, Err: ErrUnsupportedShape}
	}
	return nil
}

// IsPointerDescriptor reports whether a type descriptor denotes a raw pointer,
// either in Go spelling (*T) or in C-like *const T / *mut T spelling.
func IsPointerDescriptor(desc string) bool {
	return strings.HasPrefix(strings.TrimSpace(desc), "*")
}

// ShapeOf turns a type descriptor into a Shape.
func ShapeOf(desc string) Shape {
	desc = strings.TrimSpace(desc)
	if !IsPointerDescriptor(desc) {
		return Other{Type: desc}
	}
	pointee := strings.TrimSpace(strings.TrimPrefix(desc, "*"))
	for _, qualifier := range []string{"const ", "mut "} {
		if strings.HasPrefix(pointee, qualifier) {
			pointee = strings.TrimSpace(strings.TrimPrefix(pointee, qualifier))
			break
		}
	}
	return RawPointer{Pointee: pointee}
}

// Source is one front-end unit: the structs that need a teardown and the type
// names that opted into a foreign-callable entry point.
type Source struct {
	Package string
	Path    string
	Structs []Struct
	Exports []string
}

// Empty reports whether the unit has nothing to generate.
func (s Source) Empty() bool {
	return len(s.Structs) == 0 && len(s.Exports) == 0
}
