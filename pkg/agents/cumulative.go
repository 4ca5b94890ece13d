package agents

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/metadata"
)

// CumulativeSum accepts multiple files on role "input" and folds them
// pairwise, producing one output file per step. The path bound to role
// "output" is a pattern containing a %d verb that receives the step
// index. Steps that fail are reported and skipped; the running total
// continues from the last successful step.
type CumulativeSum struct {
	agent.Base
}

// NewCumulativeSum is the agent.Factory for CumulativeSum.
func NewCumulativeSum(cfg agent.Config) (agent.Agent, error) {
	return &CumulativeSum{Base: agent.Base{Config: cfg}}, nil
}

// Name implements agent.Agent.
func (a *CumulativeSum) Name() string { return "cumulativesum" }

// Run implements agent.Agent.
func (a *CumulativeSum) Run(
	_ context.Context,
	inputs agent.FileMap,
	meta agent.MetaMap,
	outputs agent.FileMap,
) (agent.FileMap, agent.MetaMap, error) {
	ins := inputs["input"]
	metas := meta["input"]
	if len(ins) != len(metas) {
		return nil, nil, errors.Errorf(
			"cumulativesum: %d input files but %d metadata entries", len(ins), len(metas))
	}
	if len(ins) < 2 {
		return nil, nil, errors.New("cumulativesum: need at least two input files")
	}

	logger.Infof("cumulativesum: preparing outputs")
	pattern := outputs.One("output")
	outFiles := agent.FileMap{"output": nil}
	outMeta := agent.MetaMap{"output": nil}

	previous := ins[0]
	previousMeta := metas[0]
	for i := 0; i < len(ins)-1; i++ {
		logger.Infof("cumulativesum: summing input %d", i)
		next := ins[i+1]
		nextMeta := metas[i+1]
		stepOut := fmt.Sprintf(pattern, i)
		stepMeta := metadata.NewChild(stepOut, previousMeta, nextMeta)

		sum, err := sumFiles(previous, next)
		if err == nil {
			err = writeInt(stepOut, sum)
		}
		if err != nil {
			logger.Warnf("cumulativesum: input %d failed: %v", i, err)
			continue
		}

		// Keep track of successful iterations.
		outFiles["output"] = append(outFiles["output"], stepOut)
		outMeta["output"] = append(outMeta["output"], stepMeta)
		previous = stepOut
		previousMeta = stepMeta
		logger.Infof("cumulativesum: input %d successful", i)
	}

	return outFiles, outMeta, nil
}
