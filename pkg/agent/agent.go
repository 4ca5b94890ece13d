// Package agent defines the contract for wrapping a tool so that the VRE
// can execute it: an Agent receives input files and their metadata,
// produces output files, and reports metadata for what it produced.
package agent

import (
	"context"

	"github.com/inab/openvre-agent-go/pkg/metadata"
)

// Config is the free-form run configuration handed to an agent when it is
// instantiated. It corresponds to the arguments section of the VRE
// config.json document.
type Config map[string]any

// String returns the configuration value for key as a string, or def when
// the key is absent or not a string.
func (c Config) String(key, def string) string {
	if v, ok := c[key].(string); ok {
		return v
	}
	return def
}

// FileMap maps a role name to the file paths bound to that role. Roles
// declared with allow_multiple carry several paths; most roles carry one.
type FileMap map[string][]string

// One returns the single path bound to role, or the first of several.
// It returns "" when the role is unbound.
func (m FileMap) One(role string) string {
	paths := m[role]
	if len(paths) == 0 {
		return ""
	}
	return paths[0]
}

// Set binds role to the given paths, replacing any previous binding.
func (m FileMap) Set(role string, paths ...string) {
	m[role] = paths
}

// MetaMap maps a role name to the metadata of the files bound to that role,
// in the same order as the corresponding FileMap entry.
type MetaMap map[string][]metadata.Metadata

// One returns the metadata of the single file bound to role, or the first
// of several. It returns the zero Metadata when the role is unbound.
func (m MetaMap) One(role string) metadata.Metadata {
	values := m[role]
	if len(values) == 0 {
		return metadata.Metadata{}
	}
	return values[0]
}

// Remap builds a map holding only the requested roles, renamed: for each
// new→old pair in roles, the result binds the new role name to src[old].
// Workflows use it to translate between their role vocabulary and the one
// of the agents they call.
func Remap[M ~map[string][]V, V any](src M, roles map[string]string) M {
	out := make(M, len(roles))
	for newRole, oldRole := range roles {
		if values, ok := src[oldRole]; ok {
			out[newRole] = values
		}
	}
	return out
}

// Agent wraps a single tool. Run performs the tool's work: it reads the
// inputs bound by role, writes the outputs whose desired paths are bound
// in outputs, and returns the paths actually produced together with their
// metadata. Implementations must derive output metadata from the inputs
// (see metadata.NewChild) so that provenance is preserved.
type Agent interface {
	Name() string
	Run(ctx context.Context, inputs FileMap, meta MetaMap, outputs FileMap) (FileMap, MetaMap, error)
}

// Factory instantiates an Agent with its run configuration. Apps launch
// agents through factories so that each run gets a fresh, configured
// instance.
type Factory func(cfg Config) (Agent, error)

// Base carries the run configuration for embedding by concrete agents.
type Base struct {
	Config Config
}

// Configuration returns the run configuration the agent was built with.
func (b Base) Configuration() Config {
	return b.Config
}
