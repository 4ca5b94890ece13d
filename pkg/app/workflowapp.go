package app

import (
	"fmt"
	"os"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/workflow"
)

// NewWorkflowApp returns an App suited to running workflows: before the
// run it verifies that every input file is staged, and after the run it
// unstages the intermediate outputs the workflow recorded, so that data
// handed between agents is kept only for the duration of the run.
func NewWorkflowApp() *App {
	return &App{
		PreRun:  checkStaged,
		PostRun: unstageIntermediates,
	}
}

// checkStaged verifies that every input path exists and is a regular file.
func checkStaged(inputs agent.FileMap, meta agent.MetaMap) (agent.FileMap, agent.MetaMap, error) {
	for role, paths := range inputs {
		for _, path := range paths {
			info, err := os.Stat(path)
			if err != nil {
				return nil, nil, fmt.Errorf("input %q is not staged: %w", role, err)
			}
			if info.IsDir() {
				return nil, nil, fmt.Errorf("input %q: %s is a directory, not a file", role, path)
			}
		}
	}
	return inputs, meta, nil
}

// unstageIntermediates removes the intermediate outputs recorded by the
// workflow that ran. Agents that are not workflows have no intermediates
// and pass through untouched. A file that cannot be removed is reported
// and skipped; the run's outputs are already complete at this point.
func unstageIntermediates(ran agent.Agent, outputs agent.FileMap, meta agent.MetaMap) (agent.FileMap, agent.MetaMap, error) {
	wf, ok := ran.(workflow.Workflow)
	if !ok {
		return outputs, meta, nil
	}
	for _, path := range wf.Intermediates() {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warnf("could not unstage intermediate %s: %v", path, err)
		}
	}
	return outputs, meta, nil
}
