package cimatrix

import "fmt"

// Cell is one (interpreter version, test environment) combination. Cells
// are built once as the cross product of the declared lists, are immutable
// and run in isolation from each other.
type Cell struct {
	Interpreter string
	Env         TestEnv
}

func (c Cell) String() string {
	return fmt.Sprintf("python=%s env=%s", c.Interpreter, c.Env)
}

// python returns the interpreter binary for this cell.
func (c Cell) python() string {
	return "python" + c.Interpreter
}

// CellResult is the outcome of evaluating one cell. ExitCode is the exit
// status of the branch that ran (or of the step that aborted the cell);
// rerunning a failing cell with unchanged inputs yields the same failure.
type CellResult struct {
	Cell     Cell
	ExitCode int
	Err      error
}

// Passed reports whether the cell completed successfully.
func (r CellResult) Passed() bool { return r.Err == nil }
