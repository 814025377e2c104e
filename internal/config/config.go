package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// DefaultOutput is the notebook path used when neither a flag, the
// environment nor the settings file names one.
const DefaultOutput = "benchmark_analysis.ipynb"

// Environment variables that override settings file values.
const (
	EnvPython       = "BENCHNB_PYTHON"
	EnvRequirements = "BENCHNB_REQUIREMENTS"
	EnvOutput       = "BENCHNB_OUTPUT"
)

// DefaultFiles are the settings files looked up in the working directory,
// in order, when no file is given explicitly.
var DefaultFiles = []string{"benchnb.yaml", "benchnb.yml", "benchnb.json", "benchnb.jsonc"}

// Config holds the resolved benchnb settings.
type Config struct {
	// Python is the interpreter used to create environments. Empty means
	// look up python3/python on PATH.
	Python string `yaml:"python" json:"python"`

	// Requirements is the requirements manifest installed into new
	// environments. Empty means the manifest shipped next to benchnb.
	Requirements string `yaml:"requirements" json:"requirements"`

	// Output is the default notebook path.
	Output string `yaml:"output" json:"output"`

	// Source is the settings file the values were read from, if any.
	Source string `yaml:"-" json:"-"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{Output: DefaultOutput}
}

// Validate checks the resolved settings.
func (c *Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Output,
			validation.Required,
			validation.By(hasNotebookExtension),
		),
		validation.Field(&c.Requirements, validation.By(notBlank)),
		validation.Field(&c.Python, validation.By(notBlank)),
	)
}

func hasNotebookExtension(value interface{}) error {
	s, _ := value.(string)
	if !strings.EqualFold(filepath.Ext(s), ".ipynb") {
		return errors.New("must end in .ipynb")
	}
	return nil
}

// notBlank rejects values made only of whitespace. Empty values are allowed
// and mean "use the default".
func notBlank(value interface{}) error {
	s, _ := value.(string)
	if s != "" && strings.TrimSpace(s) == "" {
		return errors.New("must not be blank")
	}
	return nil
}

// Overrides are values given on the command line. Non-empty fields beat
// both the settings file and the environment.
type Overrides struct {
	Python       string
	Requirements string
	Output       string
}

// Load resolves settings. If path is non-empty that file must exist;
// otherwise the first existing entry of DefaultFiles in dir is used, and
// having none is not an error.
//
// Precedence, lowest first: defaults, settings file, BENCHNB_* environment,
// flags. The result is validated once, after every layer is applied.
func Load(path, dir string, flags Overrides) (*Config, error) {
	cfg := Default()

	file, err := locate(path, dir)
	if err != nil {
		return nil, err
	}
	if file != "" {
		if err := readFile(file, cfg); err != nil {
			return nil, err
		}
		cfg.Source = file
	}

	applyEnv(cfg)
	applyOverrides(cfg, flags)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// locate returns the settings file to read, or "" if there is none.
func locate(path, dir string) (string, error) {
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", fmt.Errorf("config file %s: %w", path, err)
		}
		return path, nil
	}

	for _, name := range DefaultFiles {
		candidate := filepath.Join(dir, name)
		_, err := os.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("config file %s: %w", candidate, err)
		}
	}
	return "", nil
}

// readFile decodes file into cfg. ${VAR} references are expanded from the
// environment before decoding; keys absent from the file keep their
// current values.
func readFile(file string, cfg *Config) error {
	data, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", file, err)
	}

	expanded := []byte(os.ExpandEnv(string(data)))

	switch strings.ToLower(filepath.Ext(file)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(expanded, cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", file, err)
		}
	case ".json", ".jsonc":
		if err := json.Unmarshal(jsonc.ToJSON(expanded), cfg); err != nil {
			return fmt.Errorf("failed to parse config file %s: %w", file, err)
		}
	default:
		return fmt.Errorf("unsupported config file format %q (use .yaml, .yml, .json or .jsonc)", filepath.Ext(file))
	}
	return nil
}

// applyEnv overrides cfg with non-empty BENCHNB_* variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvPython); v != "" {
		cfg.Python = v
	}
	if v := os.Getenv(EnvRequirements); v != "" {
		cfg.Requirements = v
	}
	if v := os.Getenv(EnvOutput); v != "" {
		cfg.Output = v
	}
}

// applyOverrides applies the non-empty command-line values.
func applyOverrides(cfg *Config, flags Overrides) {
	if flags.Python != "" {
		cfg.Python = flags.Python
	}
	if flags.Requirements != "" {
		cfg.Requirements = flags.Requirements
	}
	if flags.Output != "" {
		cfg.Output = flags.Output
	}
}
