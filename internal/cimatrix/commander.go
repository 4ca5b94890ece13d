package cimatrix

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/inab/openvre-agent-go/pkg/logger"
)

// Commander runs one external command to completion in an explicit
// working directory. The runner goes through this interface so tests can
// observe and script the commands a cell issues.
type Commander interface {
	Run(ctx context.Context, dir, name string, args ...string) error
}

// execCommander is the production Commander, shelling out via os/exec.
type execCommander struct{}

func (execCommander) Run(ctx context.Context, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("command failed (cwd=%s, cmd=%s %s): %s: %w",
			dir, name, strings.Join(args, " "), string(output), err)
	}
	if len(output) > 0 {
		logger.Debugf("%s: %s", name, string(output))
	}
	return nil
}

// ExitCode extracts the process exit status carried by err: 0 for nil,
// the wrapped exit status when one is present, and 1 for failures that
// never produced a process status (command not found, missing script).
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}
