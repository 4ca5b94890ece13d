package cimatrix

import (
	"context"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/task"
)

// Runner evaluates matrix cells. Each cell is strictly sequential:
// dependency installation, script fix-up, then exactly one branch. Cells
// share no mutable state, so any number of them may run concurrently.
type Runner struct {
	cfg *Config
	cmd Commander
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithCommander replaces the command executor, mainly for tests.
func WithCommander(c Commander) RunnerOption {
	return func(r *Runner) { r.cmd = c }
}

// NewRunner creates a Runner for the given matrix declaration.
func NewRunner(cfg *Config, opts ...RunnerOption) *Runner {
	r := &Runner{cfg: cfg, cmd: execCommander{}}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunCell evaluates a single cell. Installation and fix-up failures abort
// the cell immediately with no retry; the branch's exit status becomes
// the cell's exit status.
func (r *Runner) RunCell(ctx context.Context, cell Cell) CellResult {
	logger.Progress(cell.String(), logger.WithStatus("RUNNING"))

	if err := r.install(ctx, cell); err != nil {
		logger.Progress(cell.String(), logger.WithStatus("FAILED"))
		return CellResult{Cell: cell, ExitCode: ExitCode(err), Err: err}
	}
	if err := r.prepareScripts(); err != nil {
		logger.Progress(cell.String(), logger.WithStatus("FAILED"))
		return CellResult{Cell: cell, ExitCode: ExitCode(err), Err: err}
	}

	err := r.runBranch(ctx, cell)
	if err != nil {
		logger.Progress(cell.String(), logger.WithStatus("FAILED"))
	} else {
		logger.Progress(cell.String(), logger.WithStatus("DONE"))
	}
	return CellResult{Cell: cell, ExitCode: ExitCode(err), Err: err}
}

// install puts the package under test and the branch's extra dependencies
// into the cell's interpreter environment.
func (r *Runner) install(ctx context.Context, cell Cell) error {
	python := cell.python()

	logger.Infof("%s: installing package under test", cell)
	if err := r.cmd.Run(ctx, r.cfg.Root, python, "-m", "pip", "install", "."); err != nil {
		return errors.Wrap(err, "install of package under test failed")
	}

	switch cell.Env {
	case EnvDocs:
		logger.Infof("%s: installing sphinx==%s", cell, r.cfg.SphinxVersion)
		if err := r.cmd.Run(ctx, r.cfg.Root, python, "-m", "pip", "install", "sphinx=="+r.cfg.SphinxVersion); err != nil {
			return errors.Wrap(err, "install of sphinx failed")
		}
	case EnvPylint:
		logger.Infof("%s: installing pylint", cell)
		if err := r.cmd.Run(ctx, r.cfg.Root, python, "-m", "pip", "install", "pylint"); err != nil {
			return errors.Wrap(err, "install of pylint failed")
		}
	case EnvCode:
		// The test tool ships with the package's own dev dependencies.
	}
	return nil
}

// prepareScripts validates the repository root and marks both runner
// scripts executable. Missing paths are fatal to the cell.
func (r *Runner) prepareScripts() error {
	info, err := os.Stat(r.cfg.Root)
	if err != nil {
		return errors.Wrap(err, "repository root not found")
	}
	if !info.IsDir() {
		return errors.Errorf("repository root %s is not a directory", r.cfg.Root)
	}

	for _, script := range []string{r.cfg.Scripts.Docs, r.cfg.Scripts.Pylint} {
		path := r.cfg.scriptPath(script)
		if err := os.Chmod(path, 0755); err != nil {
			return errors.Wrapf(err, "failed to mark %s executable", script)
		}
	}
	return nil
}

// runBranch dispatches the cell's single verification procedure. The
// TestEnv set is closed at parse time, so every cell reaching this point
// runs exactly one branch.
func (r *Runner) runBranch(ctx context.Context, cell Cell) error {
	switch cell.Env {
	case EnvCode:
		logger.Infof("%s: running test suite", cell)
		return r.cmd.Run(ctx, r.cfg.Root, cell.python(), "-m", "pytest")
	case EnvDocs:
		logger.Infof("%s: building documentation", cell)
		return r.cmd.Run(ctx, r.cfg.Root, r.cfg.scriptPath(r.cfg.Scripts.Docs))
	case EnvPylint:
		logger.Infof("%s: running lint check", cell)
		return r.cmd.Run(ctx, r.cfg.Root, r.cfg.scriptPath(r.cfg.Scripts.Pylint))
	default:
		return fmt.Errorf("unhandled test environment %q", cell.Env)
	}
}

// RunMatrix evaluates every declared cell, sequentially by default or on
// a bounded worker pool when parallel is greater than one. It returns
// every cell's result plus an error when any cell failed.
func (r *Runner) RunMatrix(ctx context.Context, parallel int) ([]CellResult, error) {
	cells, err := r.cfg.Cells()
	if err != nil {
		return nil, err
	}

	results := make([]CellResult, len(cells))
	if parallel > 1 {
		pool, err := task.NewPool(parallel)
		if err != nil {
			return nil, err
		}
		defer pool.Release()
		for i, cell := range cells {
			if err := pool.Submit(func() error {
				results[i] = r.RunCell(ctx, cell)
				return nil
			}); err != nil {
				return nil, err
			}
		}
		if err := pool.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, cell := range cells {
			results[i] = r.RunCell(ctx, cell)
		}
	}

	failed := 0
	for _, res := range results {
		if !res.Passed() {
			failed++
		}
	}
	if failed > 0 {
		return results, fmt.Errorf("%d of %d matrix cells failed", failed, len(cells))
	}
	return results, nil
}
