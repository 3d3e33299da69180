// Package ece is the host-side runtime for the explicit-control evaluator
// of SICP 5.4: the pair-heap-backed environment model, the syntax
// predicates/selectors the controller dispatches on, and the primitive
// procedures reachable through apply-primitive-procedure. Every exported
// function here is named after the operation spec.md 4.H lists for the
// ECE controller to call by name through the register machine's
// late-bound operation table (see ops.go).
package ece

import (
	"github.com/sicplab/regmachine"
)

// An environment is a list of frames; a frame is a pair of parallel lists
// (variables, values), per SICP 4.1.3. Both are ordinary regmachine.Values
// living in the shared Heap, so lookup-variable-value, set-variable-value!,
// define-variable! and extend-environment below are exactly what the
// fixed ECE controller text in controller.go expects to call.

// TheEmptyEnvironment is the environment with no frames.
func TheEmptyEnvironment() regmachine.Value { return regmachine.Empty }

func firstFrame(h *regmachine.Heap, env regmachine.Value) (regmachine.Value, error) {
	return h.Car(env)
}

func enclosingEnvironment(h *regmachine.Heap, env regmachine.Value) (regmachine.Value, error) {
	return h.Cdr(env)
}

func frameVariables(h *regmachine.Heap, frame regmachine.Value) (regmachine.Value, error) {
	return h.Car(frame)
}

func frameValues(h *regmachine.Heap, frame regmachine.Value) (regmachine.Value, error) {
	return h.Cdr(frame)
}

// ExtendEnvironment prepends a new frame binding vars to vals in front of
// baseEnv.
func ExtendEnvironment(h *regmachine.Heap, vars, vals, baseEnv regmachine.Value) (regmachine.Value, error) {
	frame := h.Cons(vars, vals)
	return h.Cons(frame, baseEnv), nil
}

// LookupVariableValue walks env's frame chain looking for name.
func LookupVariableValue(h *regmachine.Heap, name regmachine.Value, env regmachine.Value) (regmachine.Value, error) {
	for env.Kind == regmachine.KindPair {
		frame, err := firstFrame(h, env)
		if err != nil {
			return regmachine.Value{}, err
		}
		vars, err := frameVariables(h, frame)
		if err != nil {
			return regmachine.Value{}, err
		}
		vals, err := frameValues(h, frame)
		if err != nil {
			return regmachine.Value{}, err
		}
		for vars.Kind == regmachine.KindPair {
			v, _ := h.Car(vars)
			if regmachine.Eq(v, name) {
				return h.Car(vals)
			}
			vars, _ = h.Cdr(vars)
			vals, _ = h.Cdr(vals)
		}
		env, err = enclosingEnvironment(h, env)
		if err != nil {
			return regmachine.Value{}, err
		}
	}
	return regmachine.Value{}, &regmachine.TypeError{Msg: "unbound variable " + regmachine.Print(h, name)}
}

// SetVariableValue finds name in env's frame chain and mutates its binding.
func SetVariableValue(h *regmachine.Heap, name, val regmachine.Value, env regmachine.Value) error {
	for env.Kind == regmachine.KindPair {
		frame, err := firstFrame(h, env)
		if err != nil {
			return err
		}
		vars, _ := frameVariables(h, frame)
		vals, _ := frameValues(h, frame)
		for vars.Kind == regmachine.KindPair {
			v, _ := h.Car(vars)
			if regmachine.Eq(v, name) {
				return h.SetCar(vals, val)
			}
			vars, _ = h.Cdr(vars)
			vals, _ = h.Cdr(vals)
		}
		env, err = enclosingEnvironment(h, env)
		if err != nil {
			return err
		}
	}
	return &regmachine.TypeError{Msg: "unbound variable -- set! " + regmachine.Print(h, name)}
}

// DefineVariable binds name to val in env's first frame, replacing any
// existing binding for name in that frame.
func DefineVariable(h *regmachine.Heap, name, val regmachine.Value, env regmachine.Value) error {
	frame, err := firstFrame(h, env)
	if err != nil {
		return err
	}
	vars, _ := frameVariables(h, frame)
	vals, _ := frameValues(h, frame)
	for vars.Kind == regmachine.KindPair {
		v, _ := h.Car(vars)
		if regmachine.Eq(v, name) {
			return h.SetCar(vals, val)
		}
		vars, _ = h.Cdr(vars)
		vals, _ = h.Cdr(vals)
	}
	origVars, _ := frameVariables(h, frame)
	origVals, _ := frameValues(h, frame)
	if err := h.SetCar(frame, h.Cons(name, origVars)); err != nil {
		return err
	}
	return h.SetCdr(frame, h.Cons(val, origVals))
}

// GlobalPrimitiveNames lists every Scheme-visible primitive procedure
// installed in the global environment by NewGlobalEnvironment.
var GlobalPrimitiveNames = []string{
	"cons", "car", "cdr", "set-car!", "set-cdr!", "pair?", "null?",
	"+", "-", "*", "/", "<", ">", "=", "eq?", "equal?", "not",
}

// NewGlobalEnvironment builds the single frame holding every primitive
// procedure binding, per spec.md 4.H.
func NewGlobalEnvironment(h *regmachine.Heap) regmachine.Value {
	vars := make([]regmachine.Value, len(GlobalPrimitiveNames))
	vals := make([]regmachine.Value, len(GlobalPrimitiveNames))
	for i, name := range GlobalPrimitiveNames {
		vars[i] = regmachine.Sym(name)
		vals[i] = regmachine.PrimitiveProcVal(name)
	}
	frame := h.Cons(h.SliceToList(vars), h.SliceToList(vals))
	return h.Cons(frame, TheEmptyEnvironment())
}
