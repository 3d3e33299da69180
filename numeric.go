package regmachine

// asFloat promotes an Integer or Float Value to a float64 for mixed-kind
// arithmetic, per spec.md 4.A: "Numeric ops promote Integer x Float to
// Float".
func asFloat(v Value) (float64, error) {
	switch v.Kind {
	case KindInteger:
		return float64(v.i), nil
	case KindFloat:
		return v.f, nil
	default:
		return 0, &TypeError{Msg: "expected number, got " + v.Kind.String()}
	}
}

// Add, Sub, Mul and Div implement `+ - * /` with Integer/Float promotion.
// Division by zero always fails with ArithmeticError, for both kinds.
func Add(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		return Int(a.i + b.i), nil
	}
	return promotedBinOp(a, b, func(x, y float64) float64 { return x + y })
}

func Sub(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		return Int(a.i - b.i), nil
	}
	return promotedBinOp(a, b, func(x, y float64) float64 { return x - y })
}

func Mul(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		return Int(a.i * b.i), nil
	}
	return promotedBinOp(a, b, func(x, y float64) float64 { return x * y })
}

func Div(a, b Value) (Value, error) {
	if a.Kind == KindInteger && b.Kind == KindInteger {
		if b.i == 0 {
			return Value{}, &ArithmeticError{Msg: "division by zero"}
		}
		if a.i%b.i == 0 {
			return Int(a.i / b.i), nil
		}
		return Flt(float64(a.i) / float64(b.i)), nil
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	if bf == 0 {
		return Value{}, &ArithmeticError{Msg: "division by zero"}
	}
	return promotedBinOp(a, b, func(x, y float64) float64 { return x / y })
}

func promotedBinOp(a, b Value, f func(x, y float64) float64) (Value, error) {
	af, err := asFloat(a)
	if err != nil {
		return Value{}, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return Value{}, err
	}
	return Flt(f(af, bf)), nil
}

// Lt and Gt implement `<` and `>` with promotion.
func Lt(a, b Value) (bool, error) { return compare(a, b, func(x, y float64) bool { return x < y }) }
func Gt(a, b Value) (bool, error) { return compare(a, b, func(x, y float64) bool { return x > y }) }

// NumEq implements numeric `=`, comparing across Integer/Float with
// promotion (unlike Eq, which never promotes).
func NumEq(a, b Value) (bool, error) {
	return compare(a, b, func(x, y float64) bool { return x == y })
}

func compare(a, b Value, f func(x, y float64) bool) (bool, error) {
	af, err := asFloat(a)
	if err != nil {
		return false, err
	}
	bf, err := asFloat(b)
	if err != nil {
		return false, err
	}
	return f(af, bf), nil
}
