package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"destructgen/internal/generator"
	"destructgen/internal/output"
	"destructgen/internal/parser"
	"destructgen/internal/types"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan <file.go|file.yaml>",
	Short: "Show how every field will be torn down without generating code",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlan,
}

var convertCmd = &cobra.Command{
	Use:   "convert <file.go>",
	Short: "Print the YAML schema equivalent of annotated Go types",
	Args:  cobra.ExactArgs(1),
	RunE:  runConvert,
}

func init() {
	RootCmd.AddCommand(planCmd, convertCmd)
}

// loadUnit reads a schema or Go file depending on its extension.
func loadUnit(path string) (types.Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return parser.ParseFile(path, nil)
	case ".yaml", ".yml":
		return parser.ParseSchemaFile(path)
	default:
		return types.Source{}, fmt.Errorf("unsupported input %s: expected .go, .yaml or .yml", path)
	}
}

func runPlan(cmd *cobra.Command, args []string) error {
	_, m, err := setup()
	if err != nil {
		return err
	}

	src, err := loadUnit(args[0])
	if err != nil {
		return err
	}
	data, err := m.Build(src)
	if err != nil {
		return err
	}

	output.SetOutput(cmd.OutOrStdout())
	rows := make([][]string, 0)
	for _, td := range data.Teardowns {
		for _, cl := range td.Classifications {
			rows = append(rows, planRow(td.TypeName, cl))
		}
	}
	output.Table([]string{"TYPE", "FIELD", "DESCRIPTOR", "ACTION", "STRATEGY"}, rows)

	for _, ep := range data.EntryPoints {
		output.Step(fmt.Sprintf("export %s(*%s as void*)", ep.Symbol, ep.TypeName))
	}
	return nil
}

func planRow(typeName string, cl generator.Classification) []string {
	strategy := "-"
	if cl.Action.Emits() {
		strategy = cl.Strategy.String()
	}
	return []string{typeName, cl.Field.Name, cl.Field.Shape.Descriptor(), cl.Action.String(), strategy}
}

func runConvert(cmd *cobra.Command, args []string) error {
	src, err := parser.ParseFile(args[0], nil)
	if err != nil {
		return err
	}
	data, err := parser.MarshalSchema(src)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

// write generates a single unit, printing it instead under --dry-run.
func write(cmd *cobra.Command, m *generator.Manager, src types.Source, path string) error {
	if dryRun {
		content, err := m.Generate(src, path)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	if err := m.GenerateAndSave(src, path); err != nil {
		return err
	}
	output.Success("Generated " + path)
	return nil
}
