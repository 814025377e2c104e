package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv blanks the override variables so the host environment cannot
// leak into a test.
func clearEnv(t *testing.T) {
	t.Helper()
	t.Setenv(EnvPython, "")
	t.Setenv(EnvRequirements, "")
	t.Setenv(EnvOutput, "")
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("", t.TempDir(), Overrides{})
	require.NoError(t, err)
	assert.Equal(t, DefaultOutput, cfg.Output)
	assert.Empty(t, cfg.Python)
	assert.Empty(t, cfg.Requirements)
	assert.Empty(t, cfg.Source)
}

func TestLoad_Formats(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{
			name: "yaml",
			file: "benchnb.yaml",
			content: `python: /usr/local/bin/python3.12
requirements: /etc/benchnb/requirements.txt
output: reports/analysis.ipynb
`,
		},
		{
			name:    "json",
			file:    "benchnb.json",
			content: `{"python": "/usr/local/bin/python3.12", "requirements": "/etc/benchnb/requirements.txt", "output": "reports/analysis.ipynb"}`,
		},
		{
			name: "jsonc with comments and trailing comma",
			file: "benchnb.jsonc",
			content: `{
  // interpreter used for python -m venv
  "python": "/usr/local/bin/python3.12",
  /* shared manifest */
  "requirements": "/etc/benchnb/requirements.txt",
  "output": "reports/analysis.ipynb",
}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			path := writeFile(t, dir, tt.file, tt.content)

			cfg, err := Load("", dir, Overrides{})
			require.NoError(t, err)
			assert.Equal(t, "/usr/local/bin/python3.12", cfg.Python)
			assert.Equal(t, "/etc/benchnb/requirements.txt", cfg.Requirements)
			assert.Equal(t, "reports/analysis.ipynb", cfg.Output)
			assert.Equal(t, path, cfg.Source)
		})
	}
}

func TestLoad_LookupOrder(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "benchnb.json", `{"output": "from-json.ipynb"}`)
	writeFile(t, dir, "benchnb.yaml", `output: from-yaml.ipynb`)

	cfg, err := Load("", dir, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "from-yaml.ipynb", cfg.Output)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	writeFile(t, dir, "benchnb.yml", `python: python3.11`)

	cfg, err := Load("", dir, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "python3.11", cfg.Python)
	assert.Equal(t, DefaultOutput, cfg.Output)
}

func TestLoad_ExplicitPath(t *testing.T) {
	clearEnv(t)

	t.Run("explicit file wins over lookup", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "benchnb.yaml", `output: lookup.ipynb`)
		explicit := writeFile(t, t.TempDir(), "custom.jsonc", `{"output": "explicit.ipynb"}`)

		cfg, err := Load(explicit, dir, Overrides{})
		require.NoError(t, err)
		assert.Equal(t, "explicit.ipynb", cfg.Output)
	})

	t.Run("missing explicit file is an error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), t.TempDir(), Overrides{})
		require.Error(t, err)
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeFile(t, t.TempDir(), "benchnb.toml", `output = "x.ipynb"`)
		_, err := Load(path, t.TempDir(), Overrides{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unsupported config file format")
	})
}

func TestLoad_EnvExpansionAndOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("BENCH_HOME", "/srv/bench")
	dir := t.TempDir()
	writeFile(t, dir, "benchnb.yaml", `requirements: ${BENCH_HOME}/requirements.txt
output: ${BENCH_HOME}/nb.ipynb
`)

	cfg, err := Load("", dir, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "/srv/bench/requirements.txt", cfg.Requirements)
	assert.Equal(t, "/srv/bench/nb.ipynb", cfg.Output)

	t.Setenv(EnvOutput, "env.ipynb")
	t.Setenv(EnvPython, "/opt/python/bin/python3")

	cfg, err = Load("", dir, Overrides{})
	require.NoError(t, err)
	assert.Equal(t, "env.ipynb", cfg.Output)
	assert.Equal(t, "/opt/python/bin/python3", cfg.Python)
	assert.Equal(t, "/srv/bench/requirements.txt", cfg.Requirements)
}

func TestLoad_FlagOverrides(t *testing.T) {
	t.Run("flags beat file and environment", func(t *testing.T) {
		clearEnv(t)
		dir := t.TempDir()
		writeFile(t, dir, "benchnb.yaml", "python: /file/python3\noutput: file.ipynb\n")
		t.Setenv(EnvOutput, "env.ipynb")
		t.Setenv(EnvRequirements, "/env/requirements.txt")

		cfg, err := Load("", dir, Overrides{Python: "/flag/python3", Output: "flag.ipynb"})
		require.NoError(t, err)
		assert.Equal(t, "/flag/python3", cfg.Python)
		assert.Equal(t, "flag.ipynb", cfg.Output)
		assert.Equal(t, "/env/requirements.txt", cfg.Requirements)
	})

	t.Run("flag replaces an invalid environment value", func(t *testing.T) {
		clearEnv(t)
		t.Setenv(EnvOutput, "notes.txt")

		cfg, err := Load("", t.TempDir(), Overrides{Output: "good.ipynb"})
		require.NoError(t, err)
		assert.Equal(t, "good.ipynb", cfg.Output)
	})

	t.Run("flag values are validated", func(t *testing.T) {
		clearEnv(t)

		_, err := Load("", t.TempDir(), Overrides{Output: "notes.txt"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "must end in .ipynb")
	})
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		wantErr string
	}{
		{
			name:    "malformed yaml",
			file:    "benchnb.yaml",
			content: "python: [unclosed",
			wantErr: "failed to parse config file",
		},
		{
			name:    "malformed json",
			file:    "benchnb.json",
			content: `{"python": }`,
			wantErr: "failed to parse config file",
		},
		{
			name:    "output without notebook extension",
			file:    "benchnb.yaml",
			content: "output: analysis.json",
			wantErr: "must end in .ipynb",
		},
		{
			name:    "blank requirements",
			file:    "benchnb.yaml",
			content: `requirements: "   "`,
			wantErr: "must not be blank",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			dir := t.TempDir()
			writeFile(t, dir, tt.file, tt.content)

			_, err := Load("", dir, Overrides{})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())
	assert.NoError(t, (&Config{Output: "NB.IPYNB"}).Validate())

	err := (&Config{}).Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output")
}
