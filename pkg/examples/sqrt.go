package examples

import (
	"context"

	"github.com/sicplab/regmachine"
)

// SqrtTolerance is the default convergence tolerance used by the Newton's-
// method square root machine, matching spec.md 8 scenario 4.
const SqrtTolerance = 0.001

// NewtonSqrtController computes sqrt(x) by Newton's method: guess is
// refined by averaging itself with x/guess until guess^2 is within
// tolerance of x.
var NewtonSqrtController = []any{
	regmachine.Assign("guess", regmachine.Const(1.0)),
	"sqrt-loop",
	regmachine.Assign("g2", regmachine.Op("*", regmachine.Reg("guess"), regmachine.Reg("guess"))),
	regmachine.Assign("diff", regmachine.Op("-", regmachine.Reg("g2"), regmachine.Reg("x"))),
	regmachine.Assign("absdiff", regmachine.Op("abs", regmachine.Reg("diff"))),
	regmachine.Test(regmachine.Op("<", regmachine.Reg("absdiff"), regmachine.Reg("tolerance"))),
	regmachine.Branch("sqrt-done"),
	regmachine.Assign("q", regmachine.Op("/", regmachine.Reg("x"), regmachine.Reg("guess"))),
	regmachine.Assign("sum", regmachine.Op("+", regmachine.Reg("guess"), regmachine.Reg("q"))),
	regmachine.Assign("guess", regmachine.Op("/", regmachine.Reg("sum"), regmachine.Const(2.0))),
	regmachine.Goto(regmachine.Lbl("sqrt-loop")),
	"sqrt-done",
	regmachine.Assign("val", regmachine.Reg("guess")),
}

// RunNewtonSqrt assembles and runs the square root machine for x with the
// given tolerance.
func RunNewtonSqrt(x, tolerance float64) (float64, regmachine.Statistics, error) {
	heap := regmachine.NewHeap()
	prog, err := regmachine.Assemble(NewtonSqrtController, heap)
	if err != nil {
		return 0, regmachine.Statistics{}, err
	}
	registers := []string{"x", "guess", "g2", "diff", "absdiff", "q", "sum", "val", "tolerance"}
	m := regmachine.NewMachine(registers, ArithmeticOps(), prog)
	if err := m.SetRegister("x", regmachine.Flt(x)); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	if err := m.SetRegister("tolerance", regmachine.Flt(tolerance)); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	if err := m.Run(context.Background()); err != nil {
		return 0, regmachine.Statistics{}, err
	}
	val, err := m.GetRegister("val")
	if err != nil {
		return 0, regmachine.Statistics{}, err
	}
	return val.FltVal(), m.StackStatistics(), nil
}
