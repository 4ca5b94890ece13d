package agent

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inab/openvre-agent-go/pkg/metadata"
)

func TestFileMapOne(t *testing.T) {
	t.Parallel()
	m := FileMap{}
	require.Empty(t, m.One("input"))

	m.Set("input", "/data/a.txt")
	require.Equal(t, "/data/a.txt", m.One("input"))

	m.Set("input", "/data/a.txt", "/data/b.txt")
	require.Equal(t, "/data/a.txt", m.One("input"))
	require.Len(t, m["input"], 2)
}

func TestMetaMapOne(t *testing.T) {
	t.Parallel()
	m := MetaMap{}
	require.Empty(t, m.One("input").DataType)

	m["input"] = []metadata.Metadata{metadata.New("Number", "plainText")}
	require.Equal(t, "Number", m.One("input").DataType)
}

func TestRemap(t *testing.T) {
	t.Parallel()
	files := FileMap{
		"number1": {"/data/one.txt"},
		"number2": {"/data/two.txt"},
	}

	remapped := Remap(files, map[string]string{"input": "number1"})
	require.Equal(t, FileMap{"input": {"/data/one.txt"}}, remapped)

	// Roles absent from the source are simply not bound.
	remapped = Remap(files, map[string]string{"input": "missing"})
	require.Empty(t, remapped)
}

func TestConfigString(t *testing.T) {
	t.Parallel()
	cfg := Config{"workdir": "/tmp/run", "retries": 3}
	require.Equal(t, "/tmp/run", cfg.String("workdir", "."))
	require.Equal(t, ".", cfg.String("missing", "."))
	require.Equal(t, ".", cfg.String("retries", "."))
}
