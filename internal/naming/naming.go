// Package naming derives deterministic symbol and file names from Go type names.
//
// Word splitting follows github.com/iancoleman/strcase ToSnake:
//
//   - surrounding whitespace is trimmed
//   - ' ', '_', '-' and '.' are treated as existing separators
//   - a boundary falls between lower and upper case, between letters and
//     digits in either direction
//   - in an upper case run followed by a lower case letter, the last upper
//     case letter opens the next word, so "HTTPServer" becomes "http_server"
//   - ASCII letters are lower-cased and words are joined with '_'; other
//     letters pass through unchanged, so entry point generation only accepts
//     ASCII type names
//
// Every entry point symbol goes through this one rule so that names stay
// stable across regenerations.
package naming

import (
	"strconv"

	"github.com/iancoleman/strcase"
	"github.com/jinzhu/inflection"
)

// EntryPointPrefix is prepended to the snake-cased type name of every exported
// free function.
const EntryPointPrefix = "destruct_"

// ToSnake converts an identifier to snake_case.
func ToSnake(name string) string {
	return strcase.ToSnake(name)
}

// EntryPointName returns the exported free-function symbol for a type.
func EntryPointName(typeName string) string {
	return EntryPointPrefix + ToSnake(typeName)
}

// FileStem returns the snake-cased base name used for per-type output files.
func FileStem(typeName string) string {
	return ToSnake(typeName)
}

// Count renders n followed by noun, pluralized when n != 1.
func Count(n int, noun string) string {
	if n != 1 {
		noun = inflection.Plural(noun)
	}
	return strconv.Itoa(n) + " " + noun
}
