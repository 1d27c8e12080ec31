package config

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "_destruct_gen.go", cfg.FileSuffix)
	assert.Equal(t, "Destruct", cfg.HookName)
	assert.Equal(t, []string{"c_char", "C.char"}, cfg.CharMarkers)
	assert.Equal(t, MatchSubstring, cfg.CharMatch)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "destructgen.yaml")
	content := `output_dir: gen
hook_name: Release
char_match: exact
char_markers:
  - c_char
recursive: true
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gen", cfg.OutputDir)
	assert.Equal(t, "Release", cfg.HookName)
	assert.Equal(t, MatchExact, cfg.CharMatch)
	assert.Equal(t, []string{"c_char"}, cfg.CharMarkers)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, "_destruct_gen.go", cfg.FileSuffix)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidCharMatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "destructgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("char_match: fuzzy\n"), 0644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported char_match")
}

func TestLoad_EnvOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "destructgen.yaml")
	require.NoError(t, os.WriteFile(path, []byte("hook_name: Release\n"), 0644))
	t.Setenv("DESTRUCTGEN_HOOK_NAME", "Free")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Free", cfg.HookName)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty markers", func(c *Config) { c.CharMarkers = nil }},
		{"empty hook", func(c *Config) { c.HookName = "" }},
		{"hook with space", func(c *Config) { c.HookName = "Bad Name" }},
		{"unexported hook", func(c *Config) { c.HookName = "destruct" }},
		{"bad suffix", func(c *Config) { c.FileSuffix = "_gen.txt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func resetConfig(t *testing.T) {
	t.Helper()
	config, configErr, configOnce = nil, nil, sync.Once{}
	t.Cleanup(func() { config, configErr, configOnce = nil, nil, sync.Once{} })
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestGetConfig_InvalidFileIsReported(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"misspelled char_match", "char_match: exakt\n", "unsupported char_match"},
		{"empty markers", "char_markers: []\n", "char_markers must not be empty"},
		{"yaml syntax", "char_match: [exact\n", "error reading config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetConfig(t)
			dir := t.TempDir()
			require.NoError(t, os.WriteFile(filepath.Join(dir, "destructgen.yaml"), []byte(tt.content), 0644))
			chdir(t, dir)

			cfg, err := GetConfig()
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)

			// cached, still failing
			_, err = GetConfig()
			assert.Error(t, err)
		})
	}
}

func TestGetConfig_NoFileUsesDefaults(t *testing.T) {
	resetConfig(t)
	chdir(t, t.TempDir())

	cfg, err := GetConfig()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}
