package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/metadata"
	"github.com/inab/openvre-agent-go/pkg/workflow"
)

// echoAgent copies its input binding to its output binding and records
// that it ran.
type echoAgent struct {
	agent.Base
	ran *bool
}

func (a *echoAgent) Name() string { return "echo" }

func (a *echoAgent) Run(
	_ context.Context,
	inputs agent.FileMap,
	meta agent.MetaMap,
	outputs agent.FileMap,
) (agent.FileMap, agent.MetaMap, error) {
	*a.ran = true
	out := outputs.One("output")
	return agent.FileMap{"output": {out}},
		agent.MetaMap{"output": {metadata.NewChild(out, meta.One("input"))}},
		nil
}

func TestLaunchPipeline(t *testing.T) {
	t.Parallel()

	var ran bool
	var order []string
	a := &App{
		PreRun: func(in agent.FileMap, m agent.MetaMap) (agent.FileMap, agent.MetaMap, error) {
			order = append(order, "pre")
			return in, m, nil
		},
		PostRun: func(_ agent.Agent, out agent.FileMap, m agent.MetaMap) (agent.FileMap, agent.MetaMap, error) {
			order = append(order, "post")
			return out, m, nil
		},
	}

	factory := func(cfg agent.Config) (agent.Agent, error) {
		order = append(order, "instantiate")
		return &echoAgent{Base: agent.Base{Config: cfg}, ran: &ran}, nil
	}

	outFiles, outMeta, err := a.Launch(context.Background(), factory, nil,
		agent.FileMap{"input": {"/data/in.txt"}},
		agent.MetaMap{"input": {metadata.New("Number", "plainText")}},
		agent.FileMap{"output": {"/data/out.txt"}})
	require.NoError(t, err)
	require.True(t, ran)
	require.Equal(t, []string{"instantiate", "pre", "post"}, order)
	require.Equal(t, "/data/out.txt", outFiles.One("output"))
	require.Equal(t, "Number", outMeta.One("output").DataType)
}

func TestLaunchFactoryFailure(t *testing.T) {
	t.Parallel()

	factory := func(agent.Config) (agent.Agent, error) {
		return nil, errors.New("bad configuration")
	}
	_, _, err := New().Launch(context.Background(), factory, nil, nil, nil, nil)
	require.ErrorContains(t, err, "failed to instantiate agent")
}

func TestWorkflowAppRejectsUnstagedInput(t *testing.T) {
	t.Parallel()

	var ran bool
	factory := func(cfg agent.Config) (agent.Agent, error) {
		return &echoAgent{ran: &ran}, nil
	}

	_, _, err := NewWorkflowApp().Launch(context.Background(), factory, nil,
		agent.FileMap{"input": {filepath.Join(t.TempDir(), "absent.txt")}},
		agent.MetaMap{},
		agent.FileMap{"output": {"/data/out.txt"}})
	require.ErrorContains(t, err, "is not staged")
	require.False(t, ran, "the agent must not run when inputs are missing")
}

// stubWorkflow produces its output and leaves one intermediate behind.
type stubWorkflow struct {
	agent.Base
	workflow.Tracker
	intermediate string
}

func (w *stubWorkflow) Name() string { return "stub" }

func (w *stubWorkflow) Run(
	_ context.Context,
	inputs agent.FileMap,
	_ agent.MetaMap,
	outputs agent.FileMap,
) (agent.FileMap, agent.MetaMap, error) {
	if err := os.WriteFile(w.intermediate, []byte("scratch"), 0644); err != nil {
		return nil, nil, err
	}
	w.AddIntermediate(w.intermediate)

	out := outputs.One("output")
	if err := os.WriteFile(out, []byte("done"), 0644); err != nil {
		return nil, nil, err
	}
	return agent.FileMap{"output": {out}},
		agent.MetaMap{"output": {metadata.NewChild(out)}},
		nil
}

func TestWorkflowAppUnstagesIntermediates(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	in := filepath.Join(dir, "in.txt")
	require.NoError(t, os.WriteFile(in, []byte("5"), 0644))
	intermediate := filepath.Join(dir, "mid.out")

	factory := func(cfg agent.Config) (agent.Agent, error) {
		return &stubWorkflow{Base: agent.Base{Config: cfg}, intermediate: intermediate}, nil
	}

	outFiles, _, err := NewWorkflowApp().Launch(context.Background(), factory, nil,
		agent.FileMap{"input": {in}},
		agent.MetaMap{},
		agent.FileMap{"output": {filepath.Join(dir, "out.txt")}})
	require.NoError(t, err)

	// The final output survives; the intermediate is gone.
	_, err = os.Stat(outFiles.One("output"))
	require.NoError(t, err)
	_, err = os.Stat(intermediate)
	require.True(t, os.IsNotExist(err), "intermediate should have been unstaged")
}
