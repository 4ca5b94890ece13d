package agents

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/inab/openvre-agent-go/pkg/agent"
	"github.com/inab/openvre-agent-go/pkg/metadata"
	"github.com/inab/openvre-agent-go/pkg/workflow"
)

func writeNumber(t *testing.T, dir, name string, value int) (string, metadata.Metadata) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(fmt.Sprint(value)), 0644))
	m := metadata.New("Number", "plainText")
	m.FilePath = path
	return path, m
}

func TestIncrement(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	in, inMeta := writeNumber(t, dir, "in.txt", 5)
	out := filepath.Join(dir, "out.txt")

	ag, err := NewIncrement(nil)
	require.NoError(t, err)

	outFiles, outMeta, err := ag.Run(context.Background(),
		agent.FileMap{"input": {in}},
		agent.MetaMap{"input": {inMeta}},
		agent.FileMap{"output": {out}})
	require.NoError(t, err)

	value, err := readInt(outFiles.One("output"))
	require.NoError(t, err)
	require.Equal(t, 6, value)

	// Provenance: the output descends from the input.
	require.Equal(t, []string{in}, outMeta.One("output").Sources)
	require.Equal(t, "Number", outMeta.One("output").DataType)
}

func TestIncrementMissingInput(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	ag, err := NewIncrement(nil)
	require.NoError(t, err)

	_, _, err = ag.Run(context.Background(),
		agent.FileMap{"input": {filepath.Join(dir, "absent.txt")}},
		agent.MetaMap{},
		agent.FileMap{"output": {filepath.Join(dir, "out.txt")}})
	require.Error(t, err)
}

func TestSumTwo(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	in1, m1 := writeNumber(t, dir, "a.txt", 5)
	in2, m2 := writeNumber(t, dir, "b.txt", 9)
	out := filepath.Join(dir, "sum.txt")

	ag, err := NewSumTwo(nil)
	require.NoError(t, err)

	outFiles, outMeta, err := ag.Run(context.Background(),
		agent.FileMap{"input1": {in1}, "input2": {in2}},
		agent.MetaMap{"input1": {m1}, "input2": {m2}},
		agent.FileMap{"output": {out}})
	require.NoError(t, err)

	value, err := readInt(outFiles.One("output"))
	require.NoError(t, err)
	require.Equal(t, 14, value)
	require.Equal(t, []string{in1, in2}, outMeta.One("output").Sources)
}

func TestCumulativeSum(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	var ins []string
	var metas []metadata.Metadata
	for i, v := range []int{1, 2, 3, 4} {
		p, m := writeNumber(t, dir, fmt.Sprintf("in%d.txt", i), v)
		ins = append(ins, p)
		metas = append(metas, m)
	}

	ag, err := NewCumulativeSum(nil)
	require.NoError(t, err)

	outFiles, outMeta, err := ag.Run(context.Background(),
		agent.FileMap{"input": ins},
		agent.MetaMap{"input": metas},
		agent.FileMap{"output": {filepath.Join(dir, "step%d.txt")}})
	require.NoError(t, err)

	// Three folds: 1+2=3, 3+3=6, 6+4=10.
	require.Len(t, outFiles["output"], 3)
	require.Len(t, outMeta["output"], 3)
	final, err := readInt(outFiles["output"][2])
	require.NoError(t, err)
	require.Equal(t, 10, final)
}

func TestCumulativeSumSkipsFailedSteps(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	in1, m1 := writeNumber(t, dir, "a.txt", 1)
	in2, m2 := writeNumber(t, dir, "b.txt", 2)
	missing := filepath.Join(dir, "absent.txt")
	in4, m4 := writeNumber(t, dir, "d.txt", 4)

	ag, err := NewCumulativeSum(nil)
	require.NoError(t, err)

	outFiles, _, err := ag.Run(context.Background(),
		agent.FileMap{"input": {in1, in2, missing, in4}},
		agent.MetaMap{"input": {m1, m2, metadata.Metadata{FilePath: missing}, m4}},
		agent.FileMap{"output": {filepath.Join(dir, "step%d.txt")}})
	require.NoError(t, err)

	// The step summing the missing file is skipped; the fold continues
	// from the last successful output: 1+2=3, then 3+4=7.
	require.Len(t, outFiles["output"], 2)
	final, err := readInt(outFiles["output"][1])
	require.NoError(t, err)
	require.Equal(t, 7, final)
}

func TestSummerWorkflow(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	in1, m1 := writeNumber(t, dir, "one.txt", 5)
	in2, m2 := writeNumber(t, dir, "two.txt", 9)
	out := filepath.Join(dir, "result.txt")

	ag, err := NewSummer(agent.Config{"workdir": dir})
	require.NoError(t, err)

	outFiles, _, err := ag.Run(context.Background(),
		agent.FileMap{"number1": {in1}, "number2": {in2}},
		agent.MetaMap{"number1": {m1}, "number2": {m2}},
		agent.FileMap{"output": {out}})
	require.NoError(t, err)

	// (5+1) + (9+1) = 16
	value, err := readInt(outFiles.One("output"))
	require.NoError(t, err)
	require.Equal(t, 16, value)

	// The two incremented files are recorded as intermediates.
	wf, ok := ag.(workflow.Workflow)
	require.True(t, ok)
	require.Len(t, wf.Intermediates(), 2)
}
