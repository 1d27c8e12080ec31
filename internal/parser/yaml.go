package parser

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"destructgen/internal/types"

	"gopkg.in/yaml.v3"
)

// SchemaFile is the YAML description of one generated file:
//
//	package: ffi
//	types:
//	  - name: Structure
//	    export: true
//	    fields:
//	      - name: CString
//	        type: "*C.char"
//	      - name: Other
//	        type: "*MyStruct"
//	        tags: [nullable]
//	exports: [AnyOther]
type SchemaFile struct {
	Package string       `yaml:"package"`
	Types   []SchemaType `yaml:"types"`
	Exports []string     `yaml:"exports,omitempty"`
}

type SchemaType struct {
	Name   string        `yaml:"name"`
	Export bool          `yaml:"export,omitempty"`
	Fields []SchemaField `yaml:"fields"`
}

type SchemaField struct {
	Name string   `yaml:"name"`
	Type string   `yaml:"type"`
	Tags []string `yaml:"tags,omitempty"`
}

func ParseSchemaFile(path string) (types.Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Source{}, fmt.Errorf("error reading schema %s: %w", path, err)
	}
	return ParseSchema(data, path)
}

// ParseSchema decodes a YAML schema. Unknown keys are rejected.
func ParseSchema(data []byte, path string) (types.Source, error) {
	var file SchemaFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return types.Source{}, fmt.Errorf("error parsing schema %s: %w", path, err)
	}
	if file.Package == "" {
		return types.Source{}, fmt.Errorf("error parsing schema %s: package is required", path)
	}

	src := types.Source{Package: file.Package, Path: path}
	for _, st := range file.Types {
		s, err := st.toStruct()
		if err != nil {
			return types.Source{}, err
		}
		src.Structs = append(src.Structs, s)
		if st.Export {
			src.Exports = append(src.Exports, st.Name)
		}
	}
	src.Exports = append(src.Exports, file.Exports...)
	return src, nil
}

func (st SchemaType) toStruct() (types.Struct, error) {
	s := types.Struct{Name: st.Name, Fields: make([]types.Field, 0, len(st.Fields))}
	for _, sf := range st.Fields {
		if sf.Type == "" {
			return types.Struct{}, &types.SchemaError{Type: st.Name, Field: sf.Name, Err: types.ErrUnsupportedShape}
		}
		attrs, err := types.ParseAttributes(sf.Tags)
		if err != nil {
			return types.Struct{}, types.WithField(err, st.Name, sf.Name)
		}
		s.Fields = append(s.Fields, types.Field{
			Name:       sf.Name,
			Shape:      types.ShapeOf(sf.Type),
			Attributes: attrs,
		})
	}
	return s, nil
}

// MarshalSchema renders a Source back to YAML, e.g. to turn a Go source file
// into an editable schema.
func MarshalSchema(src types.Source) ([]byte, error) {
	file := SchemaFile{Package: src.Package}
	exported := make(map[string]bool, len(src.Exports))
	for _, name := range src.Exports {
		exported[name] = true
	}

	for _, s := range src.Structs {
		st := SchemaType{Name: s.Name, Export: exported[s.Name]}
		delete(exported, s.Name)
		for _, f := range s.Fields {
			sf := SchemaField{Name: f.Name, Type: f.Shape.Descriptor()}
			for _, a := range f.Attributes {
				sf.Tags = append(sf.Tags, a.String())
			}
			st.Fields = append(st.Fields, sf)
		}
		file.Types = append(file.Types, st)
	}
	for _, name := range src.Exports {
		if exported[name] {
			file.Exports = append(file.Exports, name)
			delete(exported, name)
		}
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return nil, fmt.Errorf("error encoding schema: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("error encoding schema: %w", err)
	}
	return buf.Bytes(), nil
}
