package agents

import (
	"context"

	"github.com/pkg/errors"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/metadata"
)

// SumTwo sums the integers in the files bound to roles "input1" and
// "input2" and writes the result to the file bound to role "output".
type SumTwo struct {
	agent.Base
}

// NewSumTwo is the agent.Factory for SumTwo.
func NewSumTwo(cfg agent.Config) (agent.Agent, error) {
	return &SumTwo{Base: agent.Base{Config: cfg}}, nil
}

// Name implements agent.Agent.
func (a *SumTwo) Name() string { return "sumtwo" }

// Run implements agent.Agent.
func (a *SumTwo) Run(
	_ context.Context,
	inputs agent.FileMap,
	meta agent.MetaMap,
	outputs agent.FileMap,
) (agent.FileMap, agent.MetaMap, error) {
	out := outputs.One("output")
	outMeta := metadata.NewChild(out, meta.One("input1"), meta.One("input2"))

	logger.Infof("sumtwo: running task sumTwoFiles")
	sum, err := sumFiles(inputs.One("input1"), inputs.One("input2"))
	if err != nil {
		return nil, nil, errors.Wrap(err, "sumtwo: failed to sum inputs")
	}
	if err := writeInt(out, sum); err != nil {
		return nil, nil, errors.Wrap(err, "sumtwo: failed to write output")
	}

	return agent.FileMap{"output": {out}},
		agent.MetaMap{"output": {outMeta}},
		nil
}

func sumFiles(paths ...string) (int, error) {
	total := 0
	for _, p := range paths {
		v, err := readInt(p)
		if err != nil {
			return 0, err
		}
		total += v
	}
	return total, nil
}
