package agents

import (
	"context"

	"github.com/pkg/errors"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/metadata"
)

// Increment reads an integer from the file bound to role "input" and
// writes that value plus one to the file bound to role "output".
type Increment struct {
	agent.Base
}

// NewIncrement is the agent.Factory for Increment.
func NewIncrement(cfg agent.Config) (agent.Agent, error) {
	return &Increment{Base: agent.Base{Config: cfg}}, nil
}

// Name implements agent.Agent.
func (a *Increment) Name() string { return "increment" }

// Run implements agent.Agent.
func (a *Increment) Run(
	_ context.Context,
	inputs agent.FileMap,
	meta agent.MetaMap,
	outputs agent.FileMap,
) (agent.FileMap, agent.MetaMap, error) {
	in := inputs.One("input")
	out := outputs.One("output")

	// Input and output share most metadata.
	outMeta := metadata.NewChild(out, meta.One("input"))

	logger.Infof("increment: running task inputPlusOne")
	value, err := readInt(in)
	if err != nil {
		return nil, nil, errors.Wrap(err, "increment: failed to read input")
	}
	if err := writeInt(out, value+1); err != nil {
		return nil, nil, errors.Wrap(err, "increment: failed to write output")
	}
	logger.Infof("increment: task inputPlusOne done")

	return agent.FileMap{"output": {out}},
		agent.MetaMap{"output": {outMeta}},
		nil
}
