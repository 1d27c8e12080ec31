package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"destructgen/internal/emit"
	"destructgen/internal/naming"
	"destructgen/internal/output"
	"destructgen/internal/parser"
	"destructgen/internal/types"

	"github.com/spf13/cobra"
)

var (
	recursive   bool
	outFile     string
	packageName string
	exportType  bool
)

var generateCmd = &cobra.Command{
	Use:   "generate [dir]",
	Short: "Generate destructors for annotated Go structs",
	Long: `Scans the Go package in dir for type declarations marked with
//destruct:generate or //destruct:export and writes a <file>_destruct_gen.go
next to each source file.

Example:
  destructgen generate ./internal/ffi
  destructgen generate . --recursive`,
	Args: cobra.MaximumNArgs(1),
	RunE: runGenerate,
}

var schemaCmd = &cobra.Command{
	Use:   "schema <file.yaml>",
	Short: "Generate destructors from a YAML schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchema,
}

var inlineCmd = &cobra.Command{
	Use:   "inline <Type> <name:type[:tag...]>...",
	Short: "Generate a destructor from field specs on the command line",
	Long: `Generates the teardown for one struct described by field specs.

Example:
  destructgen inline Message 'body:*C.char' 'reply:*C.char:nullable' 'len:C.size_t' --export`,
	Args: cobra.MinimumNArgs(2),
	RunE: runInline,
}

var exportCmd = &cobra.Command{
	Use:   "export <Type>...",
	Short: "Generate only the exported destruct_<type> free functions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runExport,
}

func init() {
	generateCmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Process sub-directories too")

	for _, cmd := range []*cobra.Command{schemaCmd, inlineCmd, exportCmd} {
		cmd.Flags().StringVarP(&outFile, "out", "o", "", "Output file (default derived from the type or schema name)")
	}
	for _, cmd := range []*cobra.Command{inlineCmd, exportCmd} {
		cmd.Flags().StringVarP(&packageName, "package", "p", "main", "Package name of the generated file")
	}
	inlineCmd.Flags().BoolVar(&exportType, "export", false, "Also generate the exported free function")

	RootCmd.AddCommand(generateCmd, schemaCmd, inlineCmd, exportCmd)
}

func runGenerate(cmd *cobra.Command, args []string) error {
	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}

	cfg, m, err := setup()
	if err != nil {
		return err
	}

	output.Verbose(fmt.Sprintf("Scanning %s", dir))
	units, err := parser.LoadDir(dir, recursive || cfg.Recursive, cfg.FileSuffix)
	if err != nil {
		return err
	}
	if len(units) == 0 {
		output.Info("No //destruct:generate or //destruct:export types found")
		return nil
	}

	err = generateAll(cmd, m, units, func(src types.Source) string {
		return emit.SourceOutputPath(src.Path, cfg.FileSuffix)
	})
	if err != nil {
		return err
	}
	if !dryRun {
		output.Success(fmt.Sprintf("Generated destructors for %s", naming.Count(len(units), "file")))
	}
	return nil
}

func runSchema(cmd *cobra.Command, args []string) error {
	cfg, m, err := setup()
	if err != nil {
		return err
	}

	src, err := parser.ParseSchemaFile(args[0])
	if err != nil {
		return err
	}

	stem := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	path := outFile
	if path == "" {
		path = emit.TypeOutputPath(cfg.OutputDir, stem, cfg.FileSuffix)
	}

	if err := generateAll(cmd, m, []types.Source{src}, func(types.Source) string { return path }); err != nil {
		return err
	}
	if !dryRun {
		output.Success(fmt.Sprintf("Generated %s from %s", naming.Count(len(src.Structs), "teardown"), args[0]))
	}
	return nil
}

func runInline(cmd *cobra.Command, args []string) error {
	cfg, m, err := setup()
	if err != nil {
		return err
	}

	typeName := args[0]
	fields, err := parser.ParseFields(args[1:])
	if err != nil {
		return err
	}

	src := types.Source{
		Package: packageName,
		Structs: []types.Struct{{Name: typeName, Fields: fields}},
	}
	if exportType {
		src.Exports = []string{typeName}
	}

	path := outFile
	if path == "" {
		path = emit.TypeOutputPath(cfg.OutputDir, typeName, cfg.FileSuffix)
	}
	return write(cmd, m, src, path)
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, m, err := setup()
	if err != nil {
		return err
	}

	src := types.Source{Package: packageName, Exports: args}

	path := outFile
	if path == "" {
		path = filepath.Join(cfg.OutputDir, "exports"+cfg.FileSuffix)
	}
	return write(cmd, m, src, path)
}
