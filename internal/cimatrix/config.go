package cimatrix

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultSphinxVersion is the known-good documentation generator pinned
// for docs cells.
const DefaultSphinxVersion = "1.7.2"

// Default runner script locations, relative to the repository root.
const (
	defaultDocsScript   = "scripts/travis/docs_runner.sh"
	defaultPylintScript = "scripts/travis/pylint_runner.sh"
)

// Config declares the verification matrix. It is loaded from a single
// explicit YAML file; there is no discovery and no hidden overrides.
type Config struct {
	// Root is the repository to verify. Every step receives this path
	// explicitly; the runner never changes its own working directory.
	Root string `yaml:"root"`

	// Interpreters lists the interpreter versions to evaluate ("2.7", "3.6").
	Interpreters []string `yaml:"interpreters"`

	// Environments lists the test environments to evaluate.
	Environments []string `yaml:"environments"`

	// Scripts locates the branch runner scripts, relative to Root unless
	// absolute.
	Scripts ScriptPaths `yaml:"scripts"`

	// SphinxVersion pins the documentation generator installed for docs
	// cells.
	SphinxVersion string `yaml:"sphinx_version"`
}

// ScriptPaths locates the documentation and lint runner scripts.
type ScriptPaths struct {
	Docs   string `yaml:"docs"`
	Pylint string `yaml:"pylint"`
}

// Load reads and validates a matrix declaration.
func Load(path string) (*Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read matrix config")
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to parse matrix config")
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SphinxVersion == "" {
		c.SphinxVersion = DefaultSphinxVersion
	}
	if c.Scripts.Docs == "" {
		c.Scripts.Docs = defaultDocsScript
	}
	if c.Scripts.Pylint == "" {
		c.Scripts.Pylint = defaultPylintScript
	}
}

// Validate checks the declaration, including that every declared
// environment parses into the closed TestEnv set.
func (c *Config) Validate() error {
	if c.Root == "" {
		return errors.New("matrix config: root is required")
	}
	if len(c.Interpreters) == 0 {
		return errors.New("matrix config: at least one interpreter is required")
	}
	if len(c.Environments) == 0 {
		return errors.New("matrix config: at least one environment is required")
	}
	for _, env := range c.Environments {
		if _, err := ParseTestEnv(env); err != nil {
			return errors.Wrap(err, "matrix config")
		}
	}
	return nil
}

// Cells expands the declaration into the cross product of interpreters
// and environments.
func (c *Config) Cells() ([]Cell, error) {
	cells := make([]Cell, 0, len(c.Interpreters)*len(c.Environments))
	for _, interp := range c.Interpreters {
		for _, name := range c.Environments {
			env, err := ParseTestEnv(name)
			if err != nil {
				return nil, err
			}
			cells = append(cells, Cell{Interpreter: interp, Env: env})
		}
	}
	return cells, nil
}

// scriptPath resolves a runner script location against the repository root.
func (c *Config) scriptPath(script string) string {
	if filepath.IsAbs(script) {
		return script
	}
	return filepath.Join(c.Root, script)
}
