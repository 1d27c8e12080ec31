package commands

import (
	"fmt"

	"destructgen/internal/config"
	"destructgen/internal/emit"
	"destructgen/internal/generator"
	"destructgen/internal/logger"
	"destructgen/internal/output"
	"destructgen/internal/types"

	"github.com/spf13/cobra"
)

const Version = "v0.3.0"

var (
	verbose    bool
	dryRun     bool
	configPath string
)

// RootCmd is the root command for destructgen
var RootCmd = &cobra.Command{
	Use:   "destructgen",
	Short: "Generate teardown code for cgo structs that own raw pointers",
	Long: `destructgen reads struct declarations annotated with ownership hints and
generates a Destruct method releasing every C allocation the struct owns,
plus optional //export destruct_<type> functions for foreign callers.

Field tags:
  destruct:"nullable"    check the pointer for nil before releasing it
  destruct:"no_release"  never release the pointer (borrowed memory)`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		output.SetVerbose(verbose)
	},
}

// Execute runs the root command and reports a failure once.
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		output.Error(err.Error())
	}
	return err
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logging")
	RootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, "Print generated code instead of writing files")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to configuration file (default ./destructgen.yaml)")

	RootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "destructgen %s\n", Version)
		},
	})
}

// setup loads configuration and wires the logger and manager for one run.
func setup() (*config.Config, *generator.Manager, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, nil, err
	}
	log := logger.New(level, nil)
	if verbose {
		log.SetLevel(logger.LevelDebug)
	}

	return cfg, generator.NewManager(cfg, log), nil
}

// loadConfig reads --config when given, else ./destructgen.yaml. Invalid
// settings abort the run rather than silently reverting to defaults.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	return config.GetConfig()
}

type pending struct {
	path    string
	content []byte
}

// generateAll renders every unit before writing any of them, so a schema
// error in one unit leaves the tree untouched.
func generateAll(cmd *cobra.Command, m *generator.Manager, units []types.Source, outPath func(types.Source) string) error {
	files := make([]pending, 0, len(units))
	for _, src := range units {
		path := outPath(src)
		content, err := m.Generate(src, path)
		if err != nil {
			return err
		}
		files = append(files, pending{path: path, content: content})
	}

	for _, f := range files {
		if dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "// ---- %s ----\n%s\n", f.path, f.content)
			continue
		}
		if err := emit.SaveToFile(f.content, f.path); err != nil {
			return err
		}
		output.Step(f.path)
	}
	return nil
}
