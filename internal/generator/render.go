package generator

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"destructgen/internal/types"

	"golang.org/x/tools/imports"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var destructTmpl = template.Must(
	template.New("destruct.go.tmpl").
		Funcs(template.FuncMap{"releaseLines": releaseLines}).
		ParseFS(templateFS, "templates/destruct.go.tmpl"),
)

// FileData is everything one generated Go file contains.
type FileData struct {
	Package     string
	Source      string
	Hook        string
	Teardowns   []*Teardown
	EntryPoints []EntryPoint
}

// NeedsC reports whether the file calls into C.free.
func (d *FileData) NeedsC() bool {
	if len(d.EntryPoints) > 0 {
		return true
	}
	for _, td := range d.Teardowns {
		if !td.Empty() {
			return true
		}
	}
	return false
}

// NeedsUnsafe reports whether the file converts pointers for C.free.
func (d *FileData) NeedsUnsafe() bool {
	return d.NeedsC()
}

// releaseLines renders the statements releasing one field, without the nil
// guard.
func releaseLines(st Statement, hook string) []string {
	free := fmt.Sprintf("C.free(unsafe.Pointer(s.%s))", st.Field)
	if st.Strategy == types.StringRelease {
		return []string{free}
	}
	return []string{
		fmt.Sprintf("if d, ok := any(s.%s).(interface{ %s() }); ok {", st.Field, hook),
		fmt.Sprintf("\td.%s()", hook),
		"}",
		free,
	}
}

// Render executes the template and formats the result. filename is only used
// by the formatter to resolve the package directory.
func Render(data *FileData, filename string) ([]byte, error) {
	if data.Package == "" {
		return nil, fmt.Errorf("error rendering %s: missing package name", filename)
	}

	var buf bytes.Buffer
	if err := destructTmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("error executing destruct template: %w", err)
	}

	out, err := goImportsAndFormat(buf.Bytes(), filename)
	if err != nil {
		return nil, fmt.Errorf("error formatting generated code: %w\n%s", err, buf.String())
	}
	return out, nil
}

func goImportsAndFormat(source []byte, filename string) ([]byte, error) {
	options := &imports.Options{
		Comments:   true,
		TabIndent:  true,
		TabWidth:   8,
		FormatOnly: true,
	}
	return imports.Process(filename, source, options)
}
