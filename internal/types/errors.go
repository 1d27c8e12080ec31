package types

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	ErrAttributeOnNonPointer = errors.New("attribute valid only on raw-pointer fields")
	ErrNestedPointer         = errors.New("nested raw pointers unsupported")
	ErrNoFields              = errors.New("structs without fields cannot be destructed")
	ErrUnnamedField          = errors.New("unnamed fields are not supported")
	ErrUnknownAttribute      = errors.New("unknown attribute")
	ErrInvalidName           = errors.New("invalid identifier")
	ErrUnsupportedShape      = errors.New("unsupported field shape")
	ErrDuplicateField        = errors.New("duplicate field name")
	ErrNonASCIIName          = errors.New("entry point symbols require an ASCII type name")
)

// SchemaError is a generation-time error tied to a type, field or tag.
type SchemaError struct {
	Type  string
	Field string
	Tag   string
	Err   error
}

func (e *SchemaError) Error() string {
	msg := e.Err.Error()
	if e.Tag != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Tag)
	}
	switch {
	case e.Type != "" && e.Field != "":
		return fmt.Sprintf("schema error in %s.%s: %s", e.Type, e.Field, msg)
	case e.Type != "":
		return fmt.Sprintf("schema error in %s: %s", e.Type, msg)
	case e.Field != "":
		return fmt.Sprintf("schema error in field %s: %s", e.Field, msg)
	default:
		return "schema error: " + msg
	}
}

func (e *SchemaError) Unwrap() error {
	return e.Err
}

// WithType fills in the owning type on a field-level SchemaError.
func WithType(err error, typeName string) error {
	var se *SchemaError
	if errors.As(err, &se) && se.Type == "" {
		cp := *se
		cp.Type = typeName
		return &cp
	}
	return err
}

// WithField attaches the owning type and field to a SchemaError raised while
// parsing a field's tags.
func WithField(err error, typeName, fieldName string) error {
	var se *SchemaError
	if errors.As(err, &se) {
		cp := *se
		cp.Type = typeName
		cp.Field = fieldName
		return &cp
	}
	return err
}

func ordinal(i int) string {
	return "#" + strconv.Itoa(i)
}
