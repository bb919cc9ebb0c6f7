package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, 1, cfg.Layout.TabWidth)
	assert.False(t, cfg.Layout.IgnoreCommentIndentation)
	assert.Equal(t, "G", cfg.Output.GraphName)
	assert.Equal(t, "auto", cfg.Output.Color)
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoadTOML(t *testing.T) {
	path := writeFile(t, "pyast.toml", `
[layout]
tab_width = 8
ignore_comment_indentation = true

[output]
graph_name = "AST"
color = "never"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Layout.TabWidth)
	assert.True(t, cfg.Layout.IgnoreCommentIndentation)
	assert.Equal(t, "AST", cfg.Output.GraphName)
	assert.Equal(t, "never", cfg.Output.Color)
	assert.Equal(t, "warn", cfg.Log.Level, "unset values fall back to defaults")
}

func TestLoadYAML(t *testing.T) {
	for _, name := range []string{"pyast.yaml", "pyast.yml"} {
		t.Run(name, func(t *testing.T) {
			path := writeFile(t, name, "layout:\n  tab_width: 4\nlog:\n  level: debug\n")

			cfg, err := Load(path)
			require.NoError(t, err)

			assert.Equal(t, 4, cfg.Layout.TabWidth)
			assert.Equal(t, "debug", cfg.Log.Level)
			assert.Equal(t, "G", cfg.Output.GraphName)
		})
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		content  string
		contains string
	}{
		{"bad toml", "c.toml", "[layout\n", "failed to parse config"},
		{"bad yaml", "c.yaml", "layout: [\n", "failed to parse config"},
		{"unknown extension", "c.json", "{}", "unsupported config format"},
		{"negative tab width", "c.toml", "[layout]\ntab_width = -2\n", "tab_width"},
		{"bad color", "c.toml", "[output]\ncolor = \"sometimes\"\n", "output.color"},
		{"bad graph name", "c.toml", "[output]\ngraph_name = \"a b\"\n", "graph_name"},
		{"bad level", "c.yaml", "log:\n  level: loud\n", "log.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeFile(t, tt.file, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config file not found")
}

func TestResolve(t *testing.T) {
	flagPath := writeFile(t, "flag.toml", "[output]\ngraph_name = \"Flag\"\n")
	envPath := writeFile(t, "env.yaml", "output:\n  graph_name: Env\n")

	t.Run("flag wins", func(t *testing.T) {
		t.Setenv(EnvVar, envPath)

		cfg, err := Resolve(flagPath)
		require.NoError(t, err)
		assert.Equal(t, "Flag", cfg.Output.GraphName)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvVar, envPath)

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, "Env", cfg.Output.GraphName)
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		t.Chdir(t.TempDir())

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("working directory file", func(t *testing.T) {
		t.Setenv(EnvVar, "")
		dir := t.TempDir()
		require.NoError(t, os.WriteFile(filepath.Join(dir, "pyast.toml"), []byte("[layout]\ntab_width = 2\n"), 0o644))
		t.Chdir(dir)

		cfg, err := Resolve("")
		require.NoError(t, err)
		assert.Equal(t, 2, cfg.Layout.TabWidth)
	})
}
