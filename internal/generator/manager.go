package generator

import (
	"fmt"

	"destructgen/internal/config"
	"destructgen/internal/emit"
	"destructgen/internal/logger"
	"destructgen/internal/naming"
	"destructgen/internal/types"
)

// Manager runs one generation pass per source unit: synthesize, render,
// save. Nothing is kept between passes.
type Manager struct {
	Config     *config.Config
	Logger     logger.Logger
	Classifier *Classifier
}

func NewManager(cfg *config.Config, log logger.Logger) *Manager {
	if log == nil {
		log = logger.NewSilent()
	}
	return &Manager{
		Config:     cfg,
		Logger:     log,
		Classifier: ClassifierFromConfig(cfg),
	}
}

// Build synthesizes every teardown and entry point of src. The first schema
// error aborts the unit.
func (m *Manager) Build(src types.Source) (*FileData, error) {
	data := &FileData{
		Package:     src.Package,
		Source:      src.Path,
		Hook:        m.Config.HookName,
		Teardowns:   make([]*Teardown, 0, len(src.Structs)),
		EntryPoints: make([]EntryPoint, 0, len(src.Exports)),
	}

	log := m.Logger.WithFields(logger.F("unit", describe(src)))
	generated := make(map[string]bool, len(src.Structs))
	for _, s := range src.Structs {
		if generated[s.Name] {
			return nil, fmt.Errorf("type %s declared twice", s.Name)
		}
		td, err := SynthesizeTeardown(s, m.Classifier)
		if err != nil {
			return nil, err
		}
		generated[s.Name] = true
		data.Teardowns = append(data.Teardowns, td)

		log.Debug("synthesized teardown",
			logger.F("type", s.Name),
			logger.F("fields", len(s.Fields)),
			logger.F("statements", len(td.Statements)),
			logger.F("generic", td.HasStrategy(types.GenericRelease)),
		)
	}

	eps, err := GenerateEntryPoints(src.Exports)
	if err != nil {
		return nil, err
	}
	for _, ep := range eps {
		ep.HasTeardown = generated[ep.TypeName]
		data.EntryPoints = append(data.EntryPoints, ep)
		log.Debug("derived entry point", logger.F("type", ep.TypeName), logger.F("symbol", ep.Symbol))
	}

	return data, nil
}

// Generate builds and renders src as the content of outPath.
func (m *Manager) Generate(src types.Source, outPath string) ([]byte, error) {
	data, err := m.Build(src)
	if err != nil {
		return nil, fmt.Errorf("error generating %s: %w", describe(src), err)
	}
	out, err := Render(data, outPath)
	if err != nil {
		return nil, fmt.Errorf("error rendering %s: %w", describe(src), err)
	}
	return out, nil
}

// GenerateAndSave writes the generated file. No file is written when any
// type in the unit fails.
func (m *Manager) GenerateAndSave(src types.Source, outPath string) error {
	out, err := m.Generate(src, outPath)
	if err != nil {
		return err
	}
	if err := emit.SaveToFile(out, outPath); err != nil {
		return fmt.Errorf("error saving generated code: %w", err)
	}

	m.Logger.WithFields(logger.F("file", outPath)).Info("generated destructors",
		logger.F("teardowns", naming.Count(len(src.Structs), "type")),
		logger.F("exports", naming.Count(len(src.Exports), "entry point")),
	)
	return nil
}

func describe(src types.Source) string {
	if src.Path != "" {
		return src.Path
	}
	return "package " + src.Package
}
