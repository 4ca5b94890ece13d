// Package cimatrix evaluates a declared verification matrix: for each
// (interpreter version, test environment) combination it installs the
// dependencies the environment needs and runs exactly one verification
// procedure, reporting each cell's pass/fail status independently.
package cimatrix

import "fmt"

// TestEnv is the closed set of verification procedures a cell can run.
// Values are parsed once at startup; anything outside the set is a
// configuration error, never a silently skipped cell.
type TestEnv string

const (
	// EnvCode runs the test-discovery tool over the whole project.
	EnvCode TestEnv = "code"
	// EnvDocs builds the documentation.
	EnvDocs TestEnv = "docs"
	// EnvPylint runs the static lint check.
	EnvPylint TestEnv = "pylint"
)

// ParseTestEnv validates a test environment name.
func ParseTestEnv(s string) (TestEnv, error) {
	switch TestEnv(s) {
	case EnvCode, EnvDocs, EnvPylint:
		return TestEnv(s), nil
	default:
		return "", fmt.Errorf("unknown test environment %q (want code, docs or pylint)", s)
	}
}

func (e TestEnv) String() string { return string(e) }
