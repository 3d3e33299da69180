package examples

import (
	"context"

	"github.com/sicplab/regmachine"
)

// GCDController is the controller from SICP fig. 5.4 (the first machine
// the book introduces): registers a, b, t, looping until b is zero.
var GCDController = []any{
	"gcd-loop",
	regmachine.Test(regmachine.Op("=", regmachine.Reg("b"), regmachine.Const(int64(0)))),
	regmachine.Branch("gcd-done"),
	regmachine.Assign("t", regmachine.Op("rem", regmachine.Reg("a"), regmachine.Reg("b"))),
	regmachine.Assign("a", regmachine.Reg("b")),
	regmachine.Assign("b", regmachine.Reg("t")),
	regmachine.Goto(regmachine.Lbl("gcd-loop")),
	"gcd-done",
}

// RunGCD assembles and runs the GCD machine for the given a and b,
// returning the final value of register a (the gcd) per spec.md 8's
// scenario table.
func RunGCD(a, b int64) (int64, regmachine.Statistics, error) {
	heap := regmachine.NewHeap()
	prog, err := regmachine.Assemble(GCDController, heap)
	if err != nil {
		return 0, regmachine.Statistics{}, err
	}
	m := regmachine.NewMachine([]string{"a", "b", "t"}, ArithmeticOps(), prog)
	if err := m.SetRegister("a", regmachine.Int(a)); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	if err := m.SetRegister("b", regmachine.Int(b)); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	if err := m.Run(context.Background()); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	result, err := m.GetRegister("a")
	if err != nil {
		return 0, regmachine.Statistics{}, err
	}
	return result.IntVal(), m.StackStatistics(), nil
}
