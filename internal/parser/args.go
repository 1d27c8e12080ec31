package parser

import (
	"fmt"
	"strings"

	"destructgen/internal/types"
)

// ParseFields parses command line field specs of the form name:type[:tag...],
// for example "label:*C.char:nullable". Path separators ("::") inside the type
// are kept.
func ParseFields(args []string) ([]types.Field, error) {
	fields := make([]types.Field, 0, len(args))
	for _, arg := range args {
		field, err := parseField(arg)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func parseField(arg string) (types.Field, error) {
	parts := splitSpec(arg)
	if len(parts) < 2 || strings.TrimSpace(parts[1]) == "" {
		return types.Field{}, fmt.Errorf("invalid field %q: expected name:type[:tag...]", arg)
	}

	name := strings.TrimSpace(parts[0])
	field := types.Field{
		Name:  name,
		Shape: types.ShapeOf(parts[1]),
	}

	attrs, err := types.ParseAttributes(parts[2:])
	if err != nil {
		return types.Field{}, types.WithField(err, "", name)
	}
	field.Attributes = attrs
	return field, nil
}

// splitSpec splits on ':' but leaves "::" untouched.
func splitSpec(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] != ':' {
			continue
		}
		if i+1 < len(s) && s[i+1] == ':' {
			i++
			continue
		}
		parts = append(parts, s[start:i])
		start = i + 1
	}
	return append(parts, s[start:])
}
