package examples

import (
	"context"

	"github.com/sicplab/regmachine"
)

// IterativeFactorialController is SICP fig. 5.3: an accumulator loop with
// no save/restore traffic at all.
var IterativeFactorialController = []any{
	regmachine.Assign("product", regmachine.Const(int64(1))),
	regmachine.Assign("counter", regmachine.Const(int64(1))),
	"test-counter",
	regmachine.Test(regmachine.Op(">", regmachine.Reg("counter"), regmachine.Reg("n"))),
	regmachine.Branch("fact-done"),
	regmachine.Assign("product", regmachine.Op("*", regmachine.Reg("counter"), regmachine.Reg("product"))),
	regmachine.Assign("counter", regmachine.Op("+", regmachine.Reg("counter"), regmachine.Const(int64(1)))),
	regmachine.Goto(regmachine.Lbl("test-counter")),
	"fact-done",
	regmachine.Assign("val", regmachine.Reg("product")),
}

// RecursiveFactorialController is SICP fig. 5.11/12's recursive machine:
// it pushes n and continue on every recursive step, exercising save/restore
// stack discipline the iterative machine never touches. Supplements the
// scenario table in spec.md 8 with a second factorial family, grounded in
// SICP 5.1.4's explicit contrast between the two styles.
var RecursiveFactorialController = []any{
	regmachine.Assign("continue", regmachine.Lbl("fact-done")),
	"fact-loop",
	regmachine.Test(regmachine.Op("=", regmachine.Reg("n"), regmachine.Const(int64(1)))),
	regmachine.Branch("base-case"),
	regmachine.Save("continue"),
	regmachine.Save("n"),
	regmachine.Assign("n", regmachine.Op("-", regmachine.Reg("n"), regmachine.Const(int64(1)))),
	regmachine.Assign("continue", regmachine.Lbl("after-fact")),
	regmachine.Goto(regmachine.Lbl("fact-loop")),
	"after-fact",
	regmachine.Restore("n"),
	regmachine.Restore("continue"),
	regmachine.Assign("val", regmachine.Op("*", regmachine.Reg("n"), regmachine.Reg("val"))),
	regmachine.Goto(regmachine.Reg("continue")),
	"base-case",
	regmachine.Assign("val", regmachine.Const(int64(1))),
	regmachine.Goto(regmachine.Reg("continue")),
	"fact-done",
}

// RunIterativeFactorial assembles and runs the iterative machine for n,
// returning val and stack statistics.
func RunIterativeFactorial(n int64) (int64, regmachine.Statistics, error) {
	return runFactorial(IterativeFactorialController, []string{"n", "product", "counter", "val"}, n)
}

// RunRecursiveFactorial assembles and runs the recursive machine for n.
func RunRecursiveFactorial(n int64) (int64, regmachine.Statistics, error) {
	return runFactorial(RecursiveFactorialController, []string{"n", "val", "continue"}, n)
}

func runFactorial(controller []any, registers []string, n int64) (int64, regmachine.Statistics, error) {
	heap := regmachine.NewHeap()
	prog, err := regmachine.Assemble(controller, heap)
	if err != nil {
		return 0, regmachine.Statistics{}, err
	}
	m := regmachine.NewMachine(registers, ArithmeticOps(), prog)
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
