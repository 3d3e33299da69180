package examples

import (
	"context"

	"github.com/sicplab/regmachine"
)

// FibonacciController is SICP fig. 5.12: the tree-recursive Fibonacci
// machine. Its two recursive calls per step push considerably more onto
// the stack than either factorial machine, which is exactly what spec.md 8
// scenario 3 checks (max_depth strictly greater than the n=5 factorial
// run's).
var FibonacciController = []any{
	regmachine.Assign("continue", regmachine.Lbl("fib-done")),
	"fib-loop",
	regmachine.Test(regmachine.Op("<", regmachine.Reg("n"), regmachine.Const(int64(2)))),
	regmachine.Branch("immediate-answer"),
	regmachine.Save("continue"),
	regmachine.Assign("continue", regmachine.Lbl("afterfib-n-1")),
	regmachine.Save("n"),
	regmachine.Assign("n", regmachine.Op("-", regmachine.Reg("n"), regmachine.Const(int64(1)))),
	regmachine.Goto(regmachine.Lbl("fib-loop")),
	"afterfib-n-1",
	regmachine.Restore("n"),
	regmachine.Restore("continue"),
	regmachine.Assign("n", regmachine.Op("-", regmachine.Reg("n"), regmachine.Const(int64(2)))),
	regmachine.Save("continue"),
	regmachine.Assign("continue", regmachine.Lbl("afterfib-n-2")),
	regmachine.Save("val"),
	regmachine.Goto(regmachine.Lbl("fib-loop")),
	"afterfib-n-2",
	regmachine.Assign("n", regmachine.Reg("val")),
	regmachine.Restore("val"),
	regmachine.Restore("continue"),
	regmachine.Assign("val", regmachine.Op("+", regmachine.Reg("val"), regmachine.Reg("n"))),
	regmachine.Goto(regmachine.Reg("continue")),
	"immediate-answer",
	regmachine.Assign("val", regmachine.Reg("n")),
	regmachine.Goto(regmachine.Reg("continue")),
	"fib-done",
}

// RunFibonacci assembles and runs the recursive Fibonacci machine for n.
func RunFibonacci(n int64) (int64, regmachine.Statistics, error) {
	heap := regmachine.NewHeap()
	prog, err := regmachine.Assemble(FibonacciController, heap)
	if err != nil {
		return 0, regmachine.Statistics{}, err
	}
	m := regmachine.NewMachine([]string{"n", "val", "continue"}, ArithmeticOps(), prog)
	if err := m.SetRegister("n", regmachine.Int(n)); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	if err := m.Run(context.Background()); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	val, err := m.GetRegister("val")
	if err != nil {
		return 0, regmachine.Statistics{}, err
	}
	return val.IntVal(), m.StackStatistics(), nil
}
