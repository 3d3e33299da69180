package ece

import (
	"context"
	"fmt"
	"io"

	"github.com/sicplab/regmachine"
)

// NewREPL assembles Controller against a fresh heap/op table and returns
// the resulting Machine, primed to read from in and print to out. The
// Machine is usable directly (SetRegister/Run) for tests that want to
// set registers or inspect them after a run; Run below is the convenience
// wrapper the CLI uses.
func NewREPL(in io.Reader, out io.Writer) (*regmachine.Machine, error) {
	heap := regmachine.NewHeap()
	ops := NewOperationTable(heap, in, out)

	prog, err := regmachine.Assemble(Controller, heap)
	if err != nil {
		return nil, err
	}
	m := regmachine.NewMachine(nil, ops, prog)

	// initialize-stack and print-stack-statistics close over the Machine
	// itself, so they're registered after construction rather than in
	// NewOperationTable (which only ever sees heap/in/out). OperationTable
	// is a map, and NewMachine kept the same map value, so these additions
	// are visible to the Machine that's about to run.
	ops.Register("initialize-stack", func(args []regmachine.Value) (regmachine.Value, error) {
		m.InitializeStack()
		return regmachine.Unspecified, nil
	})
	ops.Register("print-stack-statistics", func(args []regmachine.Value) (regmachine.Value, error) {
		stats := m.StackStatistics()
		fmt.Fprintf(out, "stack: session pushes=%d max-depth=%d, lifetime pushes=%d max-depth=%d\n",
			stats.SessionPushes, stats.SessionMaxDepth, stats.LifetimePushes, stats.LifetimeMaxDepth)
		return regmachine.Unspecified, nil
	})

	return m, nil
}

// Run builds a REPL over in/out and drives it to completion: reads and
// evaluates forms until end-of-input or `(exit)`, printing each result.
func Run(ctx context.Context, in io.Reader, out io.Writer) error {
	m, err := NewREPL(in, out)
	if err != nil {
		return err
	}
	return m.Run(ctx)
}
