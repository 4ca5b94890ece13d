// Package app launches agents. An App abstracts the local execution
// environment so agents run the same way everywhere: it instantiates the
// agent with its run configuration, runs hooks before and after the
// agent's work, and returns the produced files with their metadata.
//
// Apps must be compatible with any agent, so they are not the place to
// combine agents; implement a workflow for that (see pkg/workflow) and
// launch it like any other agent.
package app

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/logger"
)

// PreRunHook runs before the agent; it may adjust the inputs, for example
// to stage files into the execution environment.
type PreRunHook func(inputs agent.FileMap, meta agent.MetaMap) (agent.FileMap, agent.MetaMap, error)

// PostRunHook runs after the agent with the instance that ran and its
// outputs; it may adjust them, for example to unstage intermediate files.
type PostRunHook func(ran agent.Agent, outputs agent.FileMap, meta agent.MetaMap) (agent.FileMap, agent.MetaMap, error)

// App wraps single agent runs. The zero value launches agents with no
// hooks; hooks accumulate App features the way subclasses do elsewhere in
// the VRE (see NewWorkflowApp).
type App struct {
	PreRun  PreRunHook
	PostRun PostRunHook
}

// New returns an App with no hooks.
func New() *App {
	return &App{}
}

// Launch runs one agent with the given inputs and configuration. The
// factory builds the agent instance for this run; inputs and outputs bind
// file paths by role (see agent.FileMap). It returns the files the agent
// produced and their metadata.
func (a *App) Launch(
	ctx context.Context,
	factory agent.Factory,
	cfg agent.Config,
	inputs agent.FileMap,
	meta agent.MetaMap,
	outputs agent.FileMap,
) (agent.FileMap, agent.MetaMap, error) {
	runID := uuid.New().String()

	logger.Infof("1) Instantiate and configure agent (run %s)", runID)
	instance, err := factory(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "launch: failed to instantiate agent")
	}

	logger.Infof("2) Run agent %s", instance.Name())
	if a.PreRun != nil {
		inputs, meta, err = a.PreRun(inputs, meta)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "launch: pre-run failed for agent %s", instance.Name())
		}
	}

	outFiles, outMeta, err := instance.Run(ctx, inputs, meta, outputs)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "launch: agent %s failed", instance.Name())
	}

	logger.Infof("3) Create information")
	if a.PostRun != nil {
		outFiles, outMeta, err = a.PostRun(instance, outFiles, outMeta)
		if err != nil {
			return nil, nil, errors.Wrapf(err, "launch: post-run failed for agent %s", instance.Name())
		}
	}

	return outFiles, outMeta, nil
}
