package agents

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/workflow"
)

// Summer is a workflow chaining the reference agents:
//
//	number1       number2
//	   |             |
//	increment    increment
//	   |             |
//	   +------.------+
//	          |
//	        sumtwo
//	          |
//	        output
//
// Both inputs are incremented and the results summed into the file bound
// to role "output". The incremented values are intermediate outputs,
// recorded for the wrapping app to unstage. The "workdir" configuration
// key selects where intermediates are written (default: the output's
// directory).
type Summer struct {
	agent.Base
	workflow.Tracker
}

// NewSummer is the agent.Factory for Summer.
func NewSummer(cfg agent.Config) (agent.Agent, error) {
	return &Summer{Base: agent.Base{Config: cfg}}, nil
}

// Name implements agent.Agent.
func (w *Summer) Name() string { return "summer" }

// Run implements agent.Agent.
func (w *Summer) Run(
	ctx context.Context,
	inputs agent.FileMap,
	meta agent.MetaMap,
	outputs agent.FileMap,
) (agent.FileMap, agent.MetaMap, error) {
	logger.Infof("\t0. perform checks")
	for _, role := range []string{"number1", "number2"} {
		if inputs.One(role) == "" {
			return nil, nil, errors.Errorf("summer: missing input role %q", role)
		}
	}

	out := outputs.One("output")
	workdir := w.Config.String("workdir", filepath.Dir(out))
	if err := os.MkdirAll(workdir, 0755); err != nil {
		return nil, nil, errors.Wrap(err, "summer: failed to create workdir")
	}

	logger.Infof("\t1.a instantiate increment and run")
	inc, err := NewIncrement(w.Config)
	if err != nil {
		return nil, nil, err
	}
	mid1 := filepath.Join(workdir, "file1.out")
	out1, outMeta1, err := inc.Run(ctx,
		agent.Remap(inputs, map[string]string{"input": "number1"}),
		agent.Remap(meta, map[string]string{"input": "number1"}),
		agent.FileMap{"output": {mid1}})
	if err != nil {
		return nil, nil, errors.Wrap(err, "summer: increment of number1 failed")
	}
	w.AddIntermediate(out1.One("output"))
	logger.Progress("summer", logger.WithCompletion(1, 3))

	logger.Infof("\t1.b run increment again")
	mid2 := filepath.Join(workdir, "file2.out")
	out2, outMeta2, err := inc.Run(ctx,
		agent.Remap(inputs, map[string]string{"input": "number2"}),
		agent.Remap(meta, map[string]string{"input": "number2"}),
		agent.FileMap{"output": {mid2}})
	if err != nil {
		return nil, nil, errors.Wrap(err, "summer: increment of number2 failed")
	}
	w.AddIntermediate(out2.One("output"))
	logger.Progress("summer", logger.WithCompletion(2, 3))

	logger.Infof("\t2. instantiate sumtwo and run")
	sum, err := NewSumTwo(w.Config)
	if err != nil {
		return nil, nil, err
	}
	outFiles, outMeta, err := sum.Run(ctx,
		agent.FileMap{"input1": out1["output"], "input2": out2["output"]},
		agent.MetaMap{"input1": outMeta1["output"], "input2": outMeta2["output"]},
		outputs)
	if err != nil {
		return nil, nil, errors.Wrap(err, "summer: sum failed")
	}
	logger.Progress("summer", logger.WithCompletion(3, 3))

	logger.Infof("\t3. return")
	return outFiles, outMeta, nil
}
