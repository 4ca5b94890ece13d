package cimatrix

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTestEnv(t *testing.T) {
	t.Parallel()

	for _, name := range []string{"code", "docs", "pylint"} {
		env, err := ParseTestEnv(name)
		require.NoError(t, err)
		require.Equal(t, name, env.String())
	}

	_, err := ParseTestEnv("benchmarks")
	require.ErrorContains(t, err, `unknown test environment "benchmarks"`)

	_, err = ParseTestEnv("")
	require.Error(t, err)
}

func TestLoad(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "matrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /srv/checkout
interpreters: ["2.7", "3.6"]
environments: [docs, code, pylint]
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "/srv/checkout", cfg.Root)

	// Defaults fill in the pinned sphinx version and script locations.
	require.Equal(t, "1.7.2", cfg.SphinxVersion)
	require.Equal(t, "scripts/travis/docs_runner.sh", cfg.Scripts.Docs)
	require.Equal(t, "scripts/travis/pylint_runner.sh", cfg.Scripts.Pylint)
}

func TestLoadRejectsUnknownEnvironment(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	path := filepath.Join(dir, "matrix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
root: /srv/checkout
interpreters: ["3.6"]
environments: [docs, benchmarks]
`), 0644))

	_, err := Load(path)
	require.ErrorContains(t, err, "unknown test environment")
}

func TestValidate(t *testing.T) {
	t.Parallel()

	base := Config{
		Root:         "/srv/checkout",
		Interpreters: []string{"3.6"},
		Environments: []string{"code"},
	}

	cfg := base
	cfg.Root = ""
	require.ErrorContains(t, cfg.Validate(), "root is required")

	cfg = base
	cfg.Interpreters = nil
	require.ErrorContains(t, cfg.Validate(), "interpreter")

	cfg = base
	cfg.Environments = nil
	require.ErrorContains(t, cfg.Validate(), "environment")
}

func TestCells(t *testing.T) {
	t.Parallel()

	cfg := Config{
		Root:         "/srv/checkout",
		Interpreters: []string{"2.7", "3.6"},
		Environments: []string{"docs", "code", "pylint"},
	}

	cells, err := cfg.Cells()
	require.NoError(t, err)
	require.Len(t, cells, 6)
	require.Equal(t, Cell{Interpreter: "2.7", Env: EnvDocs}, cells[0])
	require.Equal(t, Cell{Interpreter: "3.6", Env: EnvPylint}, cells[5])
}

func TestScriptPath(t *testing.T) {
	t.Parallel()

	cfg := Config{Root: "/srv/checkout"}
	require.Equal(t, "/srv/checkout/scripts/travis/docs_runner.sh",
		cfg.scriptPath("scripts/travis/docs_runner.sh"))
	require.Equal(t, "/opt/ci/lint.sh", cfg.scriptPath("/opt/ci/lint.sh"))
}
