// Package workflow defines pipelines of agents. A Workflow is itself an
// Agent: it receives a precise input data type and produces a precise
// output data type, but instead of performing the operations itself it
// instantiates other agents and chains their runs. Workflows record the
// intermediate outputs they create so the wrapping app can unstage them
// once the run completes.
package workflow

import (
	"sync"

	"github.com/inab/openvre-agent-go/pkg/agent"
)

// Workflow is an agent that composes other agents. Intermediates returns
// the paths of temporary outputs produced while chaining agent runs; the
// wrapping app removes them after a successful run.
type Workflow interface {
	agent.Agent
	Intermediates() []string
}

// Tracker records intermediate output paths. Embed it in a workflow and
// call AddIntermediate for every temporary file handed from one agent to
// the next. It is safe for use from parallel workflow branches.
type Tracker struct {
	mu    sync.Mutex
	paths []string
}

// AddIntermediate records paths as intermediate outputs of the run.
func (t *Tracker) AddIntermediate(paths ...string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = append(t.paths, paths...)
}

// Intermediates returns the recorded paths in insertion order.
func (t *Tracker) Intermediates() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

// Reset clears the recorded paths so the workflow can be run again.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.paths = nil
}
