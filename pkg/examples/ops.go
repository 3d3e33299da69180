// Package examples holds the canonical SICP chapter 5 register machines
// (GCD, factorial, Fibonacci, Newton's-method square root) as data: a raw
// controller program plus the small arithmetic operation table each one
// needs. They exist to exercise the generic Assembler/Machine pair end to
// end, the same role the teacher's cmd/coverbee commands play for its
// instrumentation pipeline.
package examples

import (
	"math"

	"github.com/sicplab/regmachine"
)

// ArithmeticOps returns the operation table shared by every example
// machine in this package: +, -, *, /, =, <, >, rem and abs, all operating
// on regmachine.Value. The arithmetic and comparison ops promote
// Integer/Float mixes to Float; rem accepts integers only.
func ArithmeticOps() regmachine.OperationTable {
	t := regmachine.NewOperationTable()

	binary := func(f func(a, b regmachine.Value) (regmachine.Value, error)) regmachine.Operation {
		return func(args []regmachine.Value) (regmachine.Value, error) {
			if len(args) != 2 {
				return regmachine.Value{}, &regmachine.TypeError{Msg: "expected 2 arguments"}
			}
			return f(args[0], args[1])
		}
	}
	predicate := func(f func(a, b regmachine.Value) (bool, error)) regmachine.Operation {
		return func(args []regmachine.Value) (regmachine.Value, error) {
			if len(args) != 2 {
				return regmachine.Value{}, &regmachine.TypeError{Msg: "expected 2 arguments"}
			}
			b, err := f(args[0], args[1])
			if err != nil {
				return regmachine.Value{}, err
			}
			return regmachine.Bl(b), nil
		}
	}

	t.Register("+", binary(regmachine.Add))
	t.Register("-", binary(regmachine.Sub))
	t.Register("*", binary(regmachine.Mul))
	t.Register("/", binary(regmachine.Div))
	t.Register("=", predicate(regmachine.NumEq))
	t.Register("<", predicate(regmachine.Lt))
	t.Register(">", predicate(regmachine.Gt))

	t.Register("rem", func(args []regmachine.Value) (regmachine.Value, error) {
		if len(args) != 2 {
			return regmachine.Value{}, &regmachine.TypeError{Msg: "expected 2 arguments"}
		}
		if args[0].Kind != regmachine.KindInteger || args[1].Kind != regmachine.KindInteger {
			return regmachine.Value{}, &regmachine.TypeError{Msg: "rem requires integers"}
		}
		b := args[1].IntVal()
		if b == 0 {
			return regmachine.Value{}, &regmachine.ArithmeticError{Msg: "remainder by zero"}
		}
		return regmachine.Int(args[0].IntVal() % b), nil
	})

	t.Register("abs", func(args []regmachine.Value) (regmachine.Value, error) {
		if len(args) != 1 {
			return regmachine.Value{}, &regmachine.TypeError{Msg: "expected 1 argument"}
		}
		switch args[0].Kind {
		case regmachine.KindInteger:
			v := args[0].IntVal()
			if v < 0 {
				v = -v
			}
			return regmachine.Int(v), nil
		case regmachine.KindFloat:
			return regmachine.Flt(math.Abs(args[0].FltVal())), nil
		default:
			return regmachine.Value{}, &regmachine.TypeError{Msg: "abs requires a number"}
		}
	})

	return t
}
