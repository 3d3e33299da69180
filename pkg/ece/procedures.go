package ece

import (
	"github.com/sicplab/regmachine"
)

// MakeProcedure builds a CompoundProc value capturing params, body and the
// defining environment, per spec.md 4.H.
func MakeProcedure(params, body, env regmachine.Value) regmachine.Value {
	return regmachine.CompoundProcVal(params, body, env)
}

func CompoundProcedure(v regmachine.Value) bool { return v.Kind == regmachine.KindCompoundProc }

func ProcedureParameters(v regmachine.Value) regmachine.Value { return v.Proc().Params }

func ProcedureBody(v regmachine.Value) regmachine.Value { return v.Proc().Body }

func ProcedureEnvironment(v regmachine.Value) regmachine.Value { return v.Proc().Env }

func PrimitiveProcedure(v regmachine.Value) bool { return v.Kind == regmachine.KindPrimitiveProc }

// ApplyPrimitiveProcedure dispatches a PrimitiveProc value by name against
// already-evaluated args. This is the one place user-level arithmetic
// (+ - * / < > =) is reachable from Scheme code; the register machine's
// own op table never names them directly (see ops.go).
func ApplyPrimitiveProcedure(h *regmachine.Heap, proc regmachine.Value, args []regmachine.Value) (regmachine.Value, error) {
	name := proc.StrVal()
	switch name {
	case "cons":
		if len(args) != 2 {
			return regmachine.Value{}, arityError(name, 2, len(args))
		}
		return h.Cons(args[0], args[1]), nil
	case "car":
		if len(args) != 1 {
			return regmachine.Value{}, arityError(name, 1, len(args))
		}
		return h.Car(args[0])
	case "cdr":
		if len(args) != 1 {
			return regmachine.Value{}, arityError(name, 1, len(args))
		}
		return h.Cdr(args[0])
	case "set-car!":
		if len(args) != 2 {
			return regmachine.Value{}, arityError(name, 2, len(args))
		}
		return regmachine.Unspecified, h.SetCar(args[0], args[1])
	case "set-cdr!":
		if len(args) != 2 {
			return regmachine.Value{}, arityError(name, 2, len(args))
		}
		return regmachine.Unspecified, h.SetCdr(args[0], args[1])
	case "pair?":
		if len(args) != 1 {
			return regmachine.Value{}, arityError(name, 1, len(args))
		}
		return regmachine.Bl(regmachine.IsPair(args[0])), nil
	case "null?":
		if len(args) != 1 {
			return regmachine.Value{}, arityError(name, 1, len(args))
		}
		return regmachine.Bl(regmachine.IsNull(args[0])), nil
	case "eq?":
		if len(args) != 2 {
			return regmachine.Value{}, arityError(name, 2, len(args))
		}
		return regmachine.Bl(regmachine.Eq(args[0], args[1])), nil
	case "equal?":
		if len(args) != 2 {
			return regmachine.Value{}, arityError(name, 2, len(args))
		}
		return regmachine.Bl(regmachine.Equal(h, args[0], args[1])), nil
	case "not":
		if len(args) != 1 {
			return regmachine.Value{}, arityError(name, 1, len(args))
		}
		return regmachine.Bl(IsFalse(args[0])), nil
	case "+", "-", "*", "/", "<", ">", "=":
		return applyArithmetic(name, args)
	default:
		return regmachine.Value{}, &regmachine.TypeError{Msg: "unknown primitive procedure " + name}
	}
}

func applyArithmetic(name string, args []regmachine.Value) (regmachine.Value, error) {
	switch name {
	case "+":
		return variadicFold(args, regmachine.Int(0), regmachine.Add)
	case "*":
		return variadicFold(args, regmachine.Int(1), regmachine.Mul)
	case "-":
		if len(args) == 1 {
			return regmachine.Sub(regmachine.Int(0), args[0])
		}
		return variadicFoldFromFirst(args, regmachine.Sub)
	case "/":
		if len(args) == 1 {
			return regmachine.Div(regmachine.Int(1), args[0])
		}
		return variadicFoldFromFirst(args, regmachine.Div)
	case "<":
		return chainCompare(args, func(a, b regmachine.Value) (bool, error) { return regmachine.Lt(a, b) })
	case ">":
		return chainCompare(args, func(a, b regmachine.Value) (bool, error) { return regmachine.Gt(a, b) })
	case "=":
		return chainCompare(args, regmachine.NumEq)
	default:
		return regmachine.Value{}, &regmachine.TypeError{Msg: "unknown arithmetic primitive " + name}
	}
}

func variadicFold(args []regmachine.Value, seed regmachine.Value, f func(a, b regmachine.Value) (regmachine.Value, error)) (regmachine.Value, error) {
	acc := seed
	for _, a := range args {
		var err error
		acc, err = f(acc, a)
		if err != nil {
			return regmachine.Value{}, err
		}
	}
	return acc, nil
}

func variadicFoldFromFirst(args []regmachine.Value, f func(a, b regmachine.Value) (regmachine.Value, error)) (regmachine.Value, error) {
	acc := args[0]
	for _, a := range args[1:] {
		var err error
		acc, err = f(acc, a)
		if err != nil {
			return regmachine.Value{}, err
		}
	}
	return acc, nil
}

func chainCompare(args []regmachine.Value, f func(a, b regmachine.Value) (bool, error)) (regmachine.Value, error) {
	for i := 0; i+1 < len(args); i++ {
		ok, err := f(args[i], args[i+1])
		if err != nil {
			return regmachine.Value{}, err
		}
		if !ok {
			return regmachine.Bl(false), nil
		}
	}
	return regmachine.Bl(true), nil
}

func arityError(name string, want, got int) error {
	return &regmachine.TypeError{Msg: name + ": wrong number of arguments"}
}

// IsTrue and IsFalse implement Scheme's convention that every value other
// than #f is truthy.
func IsTrue(v regmachine.Value) bool  { return !IsFalse(v) }
func IsFalse(v regmachine.Value) bool { return v.Kind == regmachine.KindBool && !v.BoolVal() }
