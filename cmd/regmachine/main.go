package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sicplab/regmachine"
	"github.com/sicplab/regmachine/pkg/ece"
	"github.com/sicplab/regmachine/pkg/examples"
)

var root = &cobra.Command{
	Use:   "regmachine",
	Short: "SICP chapter 5 register machine simulator and explicit-control evaluator",
}

func main() {
	root.AddCommand(
		runCmd(),
		replCmd(),
		asmCheckCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var (
	flagA, flagB   int64
	flagN          int64
	flagX, flagTol float64
	flagRecursive  bool
	flagTraceRegs  bool
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run {gcd|factorial|fib|sqrt}",
		Short: "Assemble and run one of the canonical example machines",
		Args:  cobra.ExactArgs(1),
		RunE:  runExample,
	}

	fs := cmd.Flags()
	fs.Int64Var(&flagA, "a", 206, "first GCD operand")
	fs.Int64Var(&flagB, "b", 40, "second GCD operand")
	fs.Int64Var(&flagN, "n", 5, "factorial/fibonacci argument")
	fs.Float64Var(&flagX, "x", 2.0, "sqrt argument")
	fs.Float64Var(&flagTol, "tolerance", examples.SqrtTolerance, "sqrt convergence tolerance")
	fs.BoolVar(&flagRecursive, "recursive", false, "use the recursive factorial machine instead of the iterative one")
	fs.BoolVar(&flagTraceRegs, "trace", false, "dump every register assignment to stderr")

	return cmd
}

func runExample(cmd *cobra.Command, args []string) error {
	var (
		controller []any
		registers  []string
		setup      func(m *regmachine.Machine) error
		result     string
		print      func(m *regmachine.Machine) error
	)

	switch args[0] {
	case "gcd":
		controller, registers = examples.GCDController, []string{"a", "b", "t"}
		setup = func(m *regmachine.Machine) error {
			if err := m.SetRegister("a", regmachine.Int(flagA)); err != nil {
				return err
			}
			return m.SetRegister("b", regmachine.Int(flagB))
		}
		result = "a"
		print = func(m *regmachine.Machine) error {
			v, err := m.GetRegister(result)
			if err != nil {
				return err
			}
			fmt.Printf("gcd(%d, %d) = %d\n", flagA, flagB, v.IntVal())
			return nil
		}

	case "factorial":
		if flagRecursive {
			controller, registers = examples.RecursiveFactorialController, []string{"n", "val", "continue"}
		} else {
			controller, registers = examples.IterativeFactorialController, []string{"n", "product", "counter", "val"}
		}
		setup = func(m *regmachine.Machine) error { return m.SetRegister("n", regmachine.Int(flagN)) }
		result = "val"
		print = func(m *regmachine.Machine) error {
			v, err := m.GetRegister(result)
			if err != nil {
				return err
			}
			fmt.Printf("%d! = %d\n", flagN, v.IntVal())
			return nil
		}

	case "fib":
		controller, registers = examples.FibonacciController, []string{"n", "val", "continue"}
		setup = func(m *regmachine.Machine) error { return m.SetRegister("n", regmachine.Int(flagN)) }
		result = "val"
		print = func(m *regmachine.Machine) error {
			v, err := m.GetRegister(result)
			if err != nil {
				return err
			}
			fmt.Printf("fib(%d) = %d\n", flagN, v.IntVal())
			return nil
		}

	case "sqrt":
		controller = examples.NewtonSqrtController
		registers = []string{"x", "guess", "g2", "diff", "absdiff", "q", "sum", "val", "tolerance"}
		setup = func(m *regmachine.Machine) error {
			if err := m.SetRegister("x", regmachine.Flt(flagX)); err != nil {
				return err
			}
			return m.SetRegister("tolerance", regmachine.Flt(flagTol))
		}
		result = "val"
		print = func(m *regmachine.Machine) error {
			v, err := m.GetRegister(result)
			if err != nil {
				return err
			}
			fmt.Printf("sqrt(%v) ~= %v\n", flagX, v.FltVal())
			return nil
		}

	default:
		return fmt.Errorf("unknown machine %q, want one of: gcd, factorial, fib, sqrt", args[0])
	}

	heap := regmachine.NewHeap()
	prog, err := regmachine.Assemble(controller, heap)
	if err != nil {
		return fmt.Errorf("assemble %s: %w", args[0], err)
	}
	m := regmachine.NewMachine(registers, examples.ArithmeticOps(), prog)
	if flagTraceRegs {
		m.SetTrace(os.Stderr)
		panicOnError(m.TraceOn(""))
	}
	if err := setup(m); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	if err := m.Run(context.Background()); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	if err := print(m); err != nil {
		return fmt.Errorf("run %s: %w", args[0], err)
	}
	printStats(m.StackStatistics())
	return nil
}

func panicOnError(err error) {
	if err != nil {
		panic(err)
	}
}

func printStats(s regmachine.Statistics) {
	fmt.Printf("stack: session pushes=%d max-depth=%d, lifetime pushes=%d max-depth=%d\n",
		s.SessionPushes, s.SessionMaxDepth, s.LifetimePushes, s.LifetimeMaxDepth)
}

func replCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Run the explicit-control evaluator as an interactive Scheme REPL over stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ece.Run(context.Background(), os.Stdin, os.Stdout)
		},
	}
}

// asmCheckCmd assembles a named controller and reports its label and
// register tables without running it -- useful for confirming a
// controller is well-formed (spec.md 9's malformed-controller scenario)
// before committing to a run.
func asmCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "asm-check {gcd|factorial|recursive-factorial|fib|sqrt|ece}",
		Short: "Assemble a controller and print its label/register tables without running it",
		Args:  cobra.ExactArgs(1),
		RunE:  asmCheck,
	}
}

func asmCheck(cmd *cobra.Command, args []string) error {
	controllers := map[string][]any{
		"gcd":                 examples.GCDController,
		"factorial":           examples.IterativeFactorialController,
		"recursive-factorial": examples.RecursiveFactorialController,
		"fib":                 examples.FibonacciController,
		"sqrt":                examples.NewtonSqrtController,
		"ece":                 ece.Controller,
	}

	controller, ok := controllers[args[0]]
	if !ok {
		names := make([]string, 0, len(controllers))
		for name := range controllers {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("unknown controller %q, want one of: %s", args[0], strings.Join(names, ", "))
	}

	heap := regmachine.NewHeap()
	prog, err := regmachine.Assemble(controller, heap)
	if err != nil {
		return fmt.Errorf("assemble %s: %w", args[0], err)
	}

	fmt.Printf("%s: %d instructions, %d registers, %d labels\n",
		args[0], len(prog.Instructions), len(prog.Registers), len(prog.Labels))
	fmt.Printf("registers: %s\n", strings.Join(prog.Registers, ", "))

	labelNames := make([]string, 0, len(prog.Labels))
	for name := range prog.Labels {
		labelNames = append(labelNames, name)
	}
	sort.Strings(labelNames)
	for _, name := range labelNames {
		fmt.Printf("  %-28s -> %d\n", name, prog.Labels[name])
	}

	return nil
}
