// Command summer demonstrates launching a workflow through an App, first
// with in-memory bindings and then from VRE JSON documents.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/agents"
	"github.com/inab/openvre-agent-go/pkg/app"
	"github.com/inab/openvre-agent-go/pkg/logger"
	"github.com/inab/openvre-agent-go/pkg/metadata"
)

func main() {
	dir, err := os.MkdirTemp("", "summer")
	if err != nil {
		log.Fatalf("failed to create scratch directory: %v", err)
	}
	defer os.RemoveAll(dir)

	// The VRE prepares the data to be processed; here we create two input
	// files for demonstration purposes.
	logger.Infof("1. create some data: 2 input files")
	in1 := filepath.Join(dir, "file1")
	in2 := filepath.Join(dir, "file2")
	out := filepath.Join(dir, "outputFile")
	must(os.WriteFile(in1, []byte("5"), 0644))
	must(os.WriteFile(in2, []byte("9"), 0644))

	m1 := metadata.New("Number", "plainText")
	m1.FilePath = in1
	m2 := metadata.New("Number", "plainText")
	m2.FilePath = in2

	logger.Infof("2. instantiate and launch the app")
	outFiles, _, err := app.NewWorkflowApp().Launch(context.Background(),
		agents.NewSummer,
		agent.Config{"workdir": dir},
		agent.FileMap{"number1": {in1}, "number2": {in2}},
		agent.MetaMap{"number1": {m1}, "number2": {m2}},
		agent.FileMap{"output": {out}})
	if err != nil {
		log.Fatalf("workflow app failed: %v", err)
	}

	result, err := os.ReadFile(outFiles.One("output"))
	must(err)
	fmt.Printf("workflow app result: %s\n", result)

	// The same run, configured from config.json and input_metadata.json.
	logger.Infof("3. launch again from JSON configuration")
	configPath := filepath.Join(dir, "config.json")
	metadataPath := filepath.Join(dir, "input_metadata.json")
	resultsPath := filepath.Join(dir, "results.json")
	writeJSON(configPath, map[string]any{
		"input_files": []map[string]any{
			{"name": "number1", "value": "id1", "allow_multiple": false},
			{"name": "number2", "value": "id2", "allow_multiple": false},
		},
		"arguments": []map[string]any{
			{"name": "workdir", "value": dir},
		},
		"output_files": []map[string]any{
			{"name": "output", "file": map[string]any{
				"file_path": out,
				"data_type": "Number",
				"file_type": "plainText",
			}},
		},
	})
	writeJSON(metadataPath, []map[string]any{
		{"_id": "id1", "data_type": "Number", "file_type": "plainText", "file_path": in1, "meta_data": map[string]any{}},
		{"_id": "id2", "data_type": "Number", "file_type": "plainText", "file_path": in2, "meta_data": map[string]any{}},
	})

	if err := app.NewJSONApp().Launch(context.Background(), agents.NewSummer,
		configPath, metadataPath, resultsPath); err != nil {
		log.Fatalf("json app failed: %v", err)
	}

	results, err := os.ReadFile(resultsPath)
	must(err)
	fmt.Printf("json app results:\n%s\n", results)
}

func writeJSON(path string, v any) {
	raw, err := json.MarshalIndent(v, "", "  ")
	must(err)
	must(os.WriteFile(path, raw, 0644))
}

func must(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
