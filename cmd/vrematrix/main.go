// Command vrematrix evaluates the repository verification matrix declared
// in a YAML file: for each (interpreter, environment) cell it installs the
// package under test plus the environment's dependencies and runs the
// matching verification procedure. The TESTENV environment variable or the
// --testenv flag restricts the run to a single environment; with a single
// cell the process exits with that cell's branch exit code.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"

	"github.com/inab/openvre-agent-go/internal/cimatrix"
	"github.com/inab/openvre-agent-go/pkg/logger"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		configPath string
		root       string
		envFile    string
		testEnv    string
		parallel   int
		logLevel   string
	)
	pflag.StringVar(&configPath, "config", "", "path to the matrix declaration (required)")
	pflag.StringVar(&root, "root", "", "override the repository root declared in the config")
	pflag.StringVar(&envFile, "env-file", "", "load environment variables from this file before running")
	pflag.StringVar(&testEnv, "testenv", "", "run a single test environment (code, docs or pylint)")
	pflag.IntVar(&parallel, "parallel", 1, "number of cells to evaluate concurrently")
	pflag.StringVar(&logLevel, "log-level", logger.LevelInfo, "minimum log level (debug, info, warn, error)")
	pflag.Parse()

	logger.SetLevel(logLevel)

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			logger.Errorf("could not load env file %s: %v", envFile, err)
			return 1
		}
	}

	if configPath == "" {
		fmt.Fprintln(os.Stderr, "usage: vrematrix --config matrix.yaml [flags]")
		pflag.PrintDefaults()
		return 2
	}

	cfg, err := cimatrix.Load(configPath)
	if err != nil {
		logger.Errorf("%v", err)
		return 2
	}
	if root != "" {
		cfg.Root = root
	}

	// TESTENV keeps compatibility with hosts that select the branch
	// through the environment; the flag wins when both are set.
	if testEnv == "" {
		testEnv = os.Getenv("TESTENV")
	}
	if testEnv != "" {
		env, err := cimatrix.ParseTestEnv(testEnv)
		if err != nil {
			logger.Errorf("%v", err)
			return 2
		}
		cfg.Environments = []string{env.String()}
	}

	runner := cimatrix.NewRunner(cfg)
	results, err := runner.RunMatrix(context.Background(), parallel)
	if err != nil {
		logger.Errorf("%v", err)
	}
	for _, res := range results {
		if res.Passed() {
			logger.Infof("%s: passed", res.Cell)
		} else {
			logger.Errorf("%s: failed (exit %d): %v", res.Cell, res.ExitCode, res.Err)
		}
	}

	// A single-cell run reports the branch's own exit status.
	if len(results) == 1 {
		return results[0].ExitCode
	}
	if err != nil {
		return 1
	}
	return 0
}
