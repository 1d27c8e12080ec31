package parser

import (
	"fmt"
	"go/ast"
	goparser "go/parser"
	"go/token"
	gotypes "go/types"
	"os"
	"reflect"
	"strconv"
	"strings"

	"destructgen/internal/emit"
	"destructgen/internal/types"

	"golang.org/x/tools/go/packages"
)

const (
	// GenerateDirective on a struct type requests a teardown hook.
	GenerateDirective = "//destruct:generate"
	// ExportDirective on any type requests a foreign-callable free function.
	ExportDirective = "//destruct:export"
	// TagKey is the struct tag carrying field attributes:
	// `destruct:"nullable"` or `destruct:"no_release"`.
	TagKey = "destruct"
)

// LoadDir lists the Go packages under dir and parses every non-generated
// source file that carries destruct directives.
//
// Only package names and file lists come from go/packages: the files are
// parsed from disk because the syntax go/packages returns for cgo packages
// is the cgo-rewritten code, in which C.char no longer appears.
func LoadDir(dir string, recursive bool, suffix string) ([]types.Source, error) {
	pattern := "."
	if recursive {
		pattern = "./..."
	}
	cfg := &packages.Config{
		Mode: packages.NeedName | packages.NeedFiles,
		Dir:  dir,
		// files importing "C" are dropped from GoFiles when cgo is off
		Env: append(os.Environ(), "CGO_ENABLED=1"),
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, fmt.Errorf("error loading packages in %s: %w", dir, err)
	}

	var sources []types.Source
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 && len(pkg.GoFiles) == 0 {
			return nil, fmt.Errorf("error loading package %s: %v", pkg.PkgPath, pkg.Errors[0])
		}
		for _, path := range pkg.GoFiles {
			if emit.IgnoreInput(path, suffix) {
				continue
			}
			src, err := ParseFile(path, nil)
			if err != nil {
				return nil, err
			}
			if !src.Empty() {
				sources = append(sources, src)
			}
		}
	}
	return sources, nil
}

// ParseFile parses one Go file. src follows go/parser.ParseFile: nil reads
// the file from disk.
func ParseFile(filename string, src any) (types.Source, error) {
	fset := token.NewFileSet()
	file, err := goparser.ParseFile(fset, filename, src, goparser.ParseComments)
	if err != nil {
		return types.Source{}, fmt.Errorf("error parsing file %s: %w", filename, err)
	}
	return FromAST(file, filename)
}

// FromAST collects the annotated type declarations of a parsed file.
func FromAST(file *ast.File, filename string) (types.Source, error) {
	src := types.Source{Package: file.Name.Name, Path: filename}

	for _, decl := range file.Decls {
		genDecl, ok := decl.(*ast.GenDecl)
		if !ok || genDecl.Tok != token.TYPE {
			continue
		}

		for _, spec := range genDecl.Specs {
			typeSpec, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}

			doc := typeSpec.Doc
			if doc == nil && len(genDecl.Specs) == 1 {
				doc = genDecl.Doc
			}
			generate, export := directives(doc)
			if !generate && !export {
				continue
			}
			name := typeSpec.Name.Name

			if generate {
				s, err := structFromSpec(typeSpec)
				if err != nil {
					return types.Source{}, fmt.Errorf("%s: %w", filename, err)
				}
				src.Structs = append(src.Structs, s)
			}
			if export {
				src.Exports = append(src.Exports, name)
			}
		}
	}

	return src, nil
}

func directives(doc *ast.CommentGroup) (generate, export bool) {
	if doc == nil {
		return false, false
	}
	for _, c := range doc.List {
		text := strings.TrimSpace(c.Text)
		switch {
		case text == GenerateDirective:
			generate = true
		case text == ExportDirective:
			export = true
		}
	}
	return generate, export
}

func structFromSpec(typeSpec *ast.TypeSpec) (types.Struct, error) {
	name := typeSpec.Name.Name
	structType, ok := typeSpec.Type.(*ast.StructType)
	if !ok {
		return types.Struct{}, &types.SchemaError{Type: name, Err: types.ErrUnsupportedShape}
	}
	if typeSpec.TypeParams != nil && len(typeSpec.TypeParams.List) > 0 {
		return types.Struct{}, &types.SchemaError{Type: name, Err: types.ErrUnsupportedShape}
	}

	s := types.Struct{Name: name}
	for _, field := range structType.Fields.List {
		attrs, err := fieldAttributes(field)
		if err != nil {
			return types.Struct{}, types.WithField(err, name, fieldLabel(field))
		}

		shape := types.ShapeOf(gotypes.ExprString(field.Type))
		if len(field.Names) == 0 {
			s.Fields = append(s.Fields, types.Field{Name: embeddedName(field.Type), Shape: shape, Attributes: attrs})
			continue
		}
		for _, ident := range field.Names {
			s.Fields = append(s.Fields, types.Field{Name: ident.Name, Shape: shape, Attributes: attrs})
		}
	}
	return s, nil
}

func fieldAttributes(field *ast.Field) ([]types.Attribute, error) {
	if field.Tag == nil {
		return nil, nil
	}
	raw, err := strconv.Unquote(field.Tag.Value)
	if err != nil {
		return nil, fmt.Errorf("invalid struct tag %s: %w", field.Tag.Value, err)
	}
	value, ok := reflect.StructTag(raw).Lookup(TagKey)
	if !ok {
		return nil, nil
	}
	return types.ParseAttributes(strings.Split(value, ","))
}

// embeddedName is the implicit field name of an embedded field: the
// unqualified type name.
func embeddedName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.Ident:
		return t.Name
	case *ast.StarExpr:
		return embeddedName(t.X)
	case *ast.SelectorExpr:
		return t.Sel.Name
	case *ast.IndexExpr:
		return embeddedName(t.X)
	case *ast.IndexListExpr:
		return embeddedName(t.X)
	default:
		return ""
	}
}

func fieldLabel(field *ast.Field) string {
	if len(field.Names) > 0 {
		return field.Names[0].Name
	}
	return embeddedName(field.Type)
}
