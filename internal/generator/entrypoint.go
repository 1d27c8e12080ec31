package generator

import (
	"fmt"
	"go/token"
	"unicode"

	"destructgen/internal/naming"
	"destructgen/internal/types"
)

// EntryPoint is an exported, foreign-callable free function for one type.
// The rendered function returns immediately on a nil pointer; otherwise it
// runs the type's teardown and frees the instance. Freeing the same pointer
// twice is a caller error and is not detected.
type EntryPoint struct {
	TypeName string
	Symbol   string
	// HasTeardown is set when the type's teardown is generated in the same
	// file, so the entry point can call the hook directly.
	HasTeardown bool
}

func GenerateEntryPoint(typeName string) (EntryPoint, error) {
	if !token.IsIdentifier(typeName) {
		return EntryPoint{}, &types.SchemaError{Type: typeName, Err: types.ErrInvalidName}
	}
	// snake casing only lowers ASCII letters
	for _, r := range typeName {
		if r > unicode.MaxASCII {
			return EntryPoint{}, &types.SchemaError{Type: typeName, Err: types.ErrNonASCIIName}
		}
	}
	return EntryPoint{
		TypeName: typeName,
		Symbol:   naming.EntryPointName(typeName),
	}, nil
}

// GenerateEntryPoints derives entry points for every name, rejecting two
// names that map to the same symbol.
func GenerateEntryPoints(typeNames []string) ([]EntryPoint, error) {
	seen := make(map[string]string, len(typeNames))
	eps := make([]EntryPoint, 0, len(typeNames))
	for _, name := range typeNames {
		ep, err := GenerateEntryPoint(name)
		if err != nil {
			return nil, err
		}
		if prev, ok := seen[ep.Symbol]; ok {
			if prev == name {
				continue
			}
			return nil, fmt.Errorf("entry point %s for %s collides with %s", ep.Symbol, name, prev)
		}
		seen[ep.Symbol] = name
		eps = append(eps, ep)
	}
	return eps, nil
}
