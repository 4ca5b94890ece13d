package app

import (
	"context"
	"encoding/json"
	"os"

	"github.com/pkg/errors"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/metadata"
)

// JSONApp is the JSON-configured App. The VRE hands agents three
// documents: config.json (which inputs to use, agent arguments, desired
// outputs), input_metadata.json (metadata of every available input,
// keyed by ID) and a path to write results.json to. JSONApp unpacks the
// first two into role-keyed maps, launches the agent through a workflow
// app, and packs what the agent produced into results.json.
type JSONApp struct {
	app *App
}

// NewJSONApp returns a JSONApp launching agents through NewWorkflowApp.
func NewJSONApp() *JSONApp {
	return &JSONApp{app: NewWorkflowApp()}
}

// Launch runs an agent with configuration read from configPath and input
// metadata read from inputMetadataPath, then writes results.json to
// resultsPath.
func (a *JSONApp) Launch(
	ctx context.Context,
	factory agent.Factory,
	configPath, inputMetadataPath, resultsPath string,
) error {
	logger.Infof("0) Unpack information from JSON")
	cfg, err := readRunConfig(configPath)
	if err != nil {
		return errors.Wrap(err, "jsonapp: failed to read run configuration")
	}
	byID, err := readInputMetadata(inputMetadataPath)
	if err != nil {
		return errors.Wrap(err, "jsonapp: failed to read input metadata")
	}

	inputs, meta, err := arrangeByRole(cfg.InputFiles, byID)
	if err != nil {
		return errors.Wrap(err, "jsonapp")
	}

	arguments := make(agent.Config, len(cfg.Arguments))
	for _, arg := range cfg.Arguments {
		arguments[arg.Name] = arg.Value
	}

	outputs := make(agent.FileMap, len(cfg.OutputFiles))
	for _, out := range cfg.OutputFiles {
		if out.File.FilePath != "" {
			outputs.Set(out.Name, out.File.FilePath)
		}
	}

	outFiles, outMeta, err := a.app.Launch(ctx, factory, arguments, inputs, meta, outputs)
	if err != nil {
		return err
	}

	logger.Infof("4) Pack information to JSON")
	if err := writeResults(resultsPath, outFiles, outMeta); err != nil {
		return errors.Wrap(err, "jsonapp: failed to write results")
	}
	return nil
}

// runConfig mirrors the config.json document.
type runConfig struct {
	InputFiles  []inputFileEntry  `json:"input_files"`
	Arguments   []argumentEntry   `json:"arguments"`
	OutputFiles []outputFileEntry `json:"output_files"`
}

type inputFileEntry struct {
	Name          string `json:"name"`
	Value         string `json:"value"`
	AllowMultiple bool   `json:"allow_multiple"`
}

type argumentEntry struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type outputFileEntry struct {
	Name string         `json:"name"`
	File outputFileSpec `json:"file"`
}

type outputFileSpec struct {
	FilePath string `json:"file_path,omitempty"`
	DataType string `json:"data_type,omitempty"`
	FileType string `json:"file_type,omitempty"`
}

// inputMetadataEntry mirrors one element of the input_metadata.json list.
type inputMetadataEntry struct {
	ID string `json:"_id"`
	metadata.Metadata
}

// resultEntry mirrors one element of results.json's output_files list.
type resultEntry struct {
	Name       string         `json:"name"`
	Type       string         `json:"type"`
	FilePath   string         `json:"file_path"`
	DataType   string         `json:"data_type"`
	FileType   string         `json:"file_type"`
	Compressed string         `json:"compressed,omitempty"`
	Sources    []string       `json:"sources,omitempty"`
	Meta       map[string]any `json:"meta_data"`
}

type resultsDocument struct {
	OutputFiles []resultEntry `json:"output_files"`
}

func readRunConfig(path string) (*runConfig, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg runConfig
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func readInputMetadata(path string) (map[string]metadata.Metadata, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entries []inputMetadataEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, err
	}
	byID := make(map[string]metadata.Metadata, len(entries))
	for _, entry := range entries {
		m := entry.Metadata
		if m.Type == "" {
			m.Type = metadata.DefaultType
		}
		byID[entry.ID] = m
	}
	return byID, nil
}

// arrangeByRole resolves the input IDs declared in config.json against the
// metadata catalogue and groups files and metadata by role. Roles declared
// with allow_multiple accumulate one path per occurrence.
func arrangeByRole(entries []inputFileEntry, byID map[string]metadata.Metadata) (agent.FileMap, agent.MetaMap, error) {
	inputs := make(agent.FileMap)
	meta := make(agent.MetaMap)
	for _, entry := range entries {
		m, ok := byID[entry.Value]
		if !ok {
			return nil, nil, errors.Errorf("input %q references unknown ID %q", entry.Name, entry.Value)
		}
		inputs[entry.Name] = append(inputs[entry.Name], m.FilePath)
		meta[entry.Name] = append(meta[entry.Name], m)
	}
	return inputs, meta, nil
}

// writeResults packs the produced files into results.json. A role with
// several paths may carry either one metadata value per path or a single
// value that applies to all of them.
func writeResults(path string, outputs agent.FileMap, outMeta agent.MetaMap) error {
	var results []resultEntry
	for role, paths := range outputs {
		values := outMeta[role]
		if len(values) != len(paths) && len(values) != 1 {
			return errors.Errorf(
				"wrong number of metadata entries for role %q: either 1 or %d, not %d",
				role, len(paths), len(values))
		}
		for i, p := range paths {
			m := values[0]
			if len(values) == len(paths) {
				m = values[i]
			}
			results = append(results, newResult(role, p, m))
		}
	}

	raw, err := json.MarshalIndent(resultsDocument{OutputFiles: results}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, raw, 0644)
}

func newResult(role, path string, m metadata.Metadata) resultEntry {
	typ := m.Type
	if typ == "" {
		typ = metadata.DefaultType
	}
	return resultEntry{
		Name:       role,
		Type:       typ,
		FilePath:   path,
		DataType:   m.DataType,
		FileType:   m.FileType,
		Compressed: m.Compressed,
		Sources:    m.Sources,
		Meta:       m.Meta,
	}
}
