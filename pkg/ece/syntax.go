package ece

import "github.com/sicplab/regmachine"

// Expressions are represented exactly as pairs, per SICP 4.1.2: a
// `tagged list` whose car is a symbol naming the special form. Every
// predicate/selector below mirrors the one SICP names in §4.1 and §5.4's
// eval-dispatch uses to route an expression to the right ev-* label.

func isTaggedList(h *regmachine.Heap, exp regmachine.Value, tag string) bool {
	if exp.Kind != regmachine.KindPair {
		return false
	}
	car, err := h.Car(exp)
	if err != nil {
		return false
	}
	return car.Kind == regmachine.KindSymbol && car.StrVal() == tag
}

// SelfEvaluating reports whether exp evaluates to itself: numbers,
// strings and booleans.
func SelfEvaluating(exp regmachine.Value) bool {
	switch exp.Kind {
	case regmachine.KindInteger, regmachine.KindFloat, regmachine.KindString, regmachine.KindBool:
		return true
	default:
		return false
	}
}

// Variable reports whether exp is a bare variable reference.
func Variable(exp regmachine.Value) bool { return exp.Kind == regmachine.KindSymbol }

// Quoted reports whether exp is (quote <text>).
func Quoted(h *regmachine.Heap, exp regmachine.Value) bool { return isTaggedList(h, exp, "quote") }

// TextOfQuotation returns the quoted datum of (quote <text>).
func TextOfQuotation(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, err := h.Cdr(exp)
	if err != nil {
		return regmachine.Value{}, err
	}
	return h.Car(cdr)
}

// Assignment reports whether exp is (set! <var> <val>).
func Assignment(h *regmachine.Heap, exp regmachine.Value) bool { return isTaggedList(h, exp, "set!") }

func AssignmentVariable(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	return h.Car(cdr)
}

func AssignmentValue(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	cddr, err := h.Cdr(cdr)
	if err != nil {
		return regmachine.Value{}, err
	}
	return h.Car(cddr)
}

// Definition reports whether exp is (define ...), covering both
// `(define x v)` and the procedure-definition sugar `(define (f p...) body...)`.
func Definition(h *regmachine.Heap, exp regmachine.Value) bool { return isTaggedList(h, exp, "define") }

func DefinitionVariable(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	target, err := h.Car(cdr)
	if err != nil {
		return regmachine.Value{}, err
	}
	if target.Kind == regmachine.KindPair {
		// (define (f params...) body...) -- the variable is f.
		return h.Car(target)
	}
	return target, nil
}

func DefinitionValue(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	target, err := h.Car(cdr)
	if err != nil {
		return regmachine.Value{}, err
	}
	cddr, err := h.Cdr(cdr)
	if err != nil {
		return regmachine.Value{}, err
	}
	if target.Kind == regmachine.KindPair {
		// (define (f params...) body...) => (lambda (params...) body...)
		params, err := h.Cdr(target)
		if err != nil {
			return regmachine.Value{}, err
		}
		return MakeLambda(h, params, cddr)
	}
	return h.Car(cddr)
}

// MakeLambda builds (lambda <params> . <body>).
func MakeLambda(h *regmachine.Heap, params, body regmachine.Value) (regmachine.Value, error) {
	return h.Cons(regmachine.Sym("lambda"), h.Cons(params, body)), nil
}

// If reports whether exp is (if <predicate> <consequent> [<alternative>]).
func If(h *regmachine.Heap, exp regmachine.Value) bool { return isTaggedList(h, exp, "if") }

func IfPredicate(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	return h.Car(cdr)
}

func IfConsequent(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	cddr, err := h.Cdr(cdr)
	if err != nil {
		return regmachine.Value{}, err
	}
	return h.Car(cddr)
}

func IfAlternative(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	cddr, _ := h.Cdr(cdr)
	cdddr, err := h.Cdr(cddr)
	if err != nil || cdddr.Kind != regmachine.KindPair {
		return regmachine.Bl(false), nil // no alternative -> unspecified/false
	}
	return h.Car(cdddr)
}

// MakeIf builds (if <predicate> <consequent> <alternative>), used by
// cond->if.
func MakeIf(h *regmachine.Heap, predicate, consequent, alternative regmachine.Value) regmachine.Value {
	return h.SliceToList([]regmachine.Value{regmachine.Sym("if"), predicate, consequent, alternative})
}

// Lambda reports whether exp is (lambda <params> . <body>).
func Lambda(h *regmachine.Heap, exp regmachine.Value) bool { return isTaggedList(h, exp, "lambda") }

func LambdaParameters(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, _ := h.Cdr(exp)
	return h.Car(cdr)
}

func LambdaBody(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	cdr, err := h.Cdr(exp)
	if err != nil {
		return regmachine.Value{}, err
	}
	return h.Cdr(cdr)
}

// Begin reports whether exp is (begin . <actions>).
func Begin(h *regmachine.Heap, exp regmachine.Value) bool { return isTaggedList(h, exp, "begin") }

func BeginActions(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	return h.Cdr(exp)
}

func FirstExp(h *regmachine.Heap, seq regmachine.Value) (regmachine.Value, error) { return h.Car(seq) }

func RestExps(h *regmachine.Heap, seq regmachine.Value) (regmachine.Value, error) { return h.Cdr(seq) }

func LastExp(h *regmachine.Heap, seq regmachine.Value) bool {
	cdr, err := h.Cdr(seq)
	return err == nil && cdr.Kind == regmachine.KindEmptyList
}

// Application reports whether exp is a procedure call: any pair that
// isn't one of the special forms above (eval-dispatch checks those first).
func Application(exp regmachine.Value) bool { return exp.Kind == regmachine.KindPair }

func Operator(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) { return h.Car(exp) }

func Operands(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) { return h.Cdr(exp) }

func NoOperands(ops regmachine.Value) bool { return ops.Kind == regmachine.KindEmptyList }

func FirstOperand(h *regmachine.Heap, ops regmachine.Value) (regmachine.Value, error) {
	return h.Car(ops)
}

func RestOperands(h *regmachine.Heap, ops regmachine.Value) (regmachine.Value, error) {
	return h.Cdr(ops)
}

func LastOperand(h *regmachine.Heap, ops regmachine.Value) bool {
	cdr, err := h.Cdr(ops)
	return err == nil && cdr.Kind == regmachine.KindEmptyList
}

// EmptyArglist is the accumulator seed for evaluating an application's
// operands, per SICP's ev-application.
func EmptyArglist() regmachine.Value { return regmachine.Empty }

// AdjoinArg appends arg to the end of arglist, preserving left-to-right
// evaluation order in the accumulated argument list.
func AdjoinArg(h *regmachine.Heap, arg, arglist regmachine.Value) regmachine.Value {
	elems := h.ListToSlice(arglist)
	elems = append(elems, arg)
	return h.SliceToList(elems)
}

// Cond reports whether exp is (cond . <clauses>).
func Cond(h *regmachine.Heap, exp regmachine.Value) bool { return isTaggedList(h, exp, "cond") }

func CondClauses(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	return h.Cdr(exp)
}

func condClausePredicate(h *regmachine.Heap, clause regmachine.Value) (regmachine.Value, error) {
	return h.Car(clause)
}

func condClauseActions(h *regmachine.Heap, clause regmachine.Value) (regmachine.Value, error) {
	return h.Cdr(clause)
}

func isCondElseClause(h *regmachine.Heap, clause regmachine.Value) bool {
	pred, err := condClausePredicate(h, clause)
	return err == nil && pred.Kind == regmachine.KindSymbol && pred.StrVal() == "else"
}

// CondToIf expands a `cond` expression into nested `if`s, SICP 4.1.2's
// cond->if, wired as the `cond->if` op the ECE controller's ev-cond block
// invokes once eval-dispatch's `cond?` test succeeds.
func CondToIf(h *regmachine.Heap, exp regmachine.Value) (regmachine.Value, error) {
	clauses, err := CondClauses(h, exp)
	if err != nil {
		return regmachine.Value{}, err
	}
	return expandCondClauses(h, clauses)
}

func expandCondClauses(h *regmachine.Heap, clauses regmachine.Value) (regmachine.Value, error) {
	if clauses.Kind == regmachine.KindEmptyList {
		return regmachine.Bl(false), nil
	}
	first, err := h.Car(clauses)
	if err != nil {
		return regmachine.Value{}, err
	}
	rest, err := h.Cdr(clauses)
	if err != nil {
		return regmachine.Value{}, err
	}
	actions, err := condClauseActions(h, first)
	if err != nil {
		return regmachine.Value{}, err
	}
	seq, err := sequenceToExp(h, actions)
	if err != nil {
		return regmachine.Value{}, err
	}
	if isCondElseClause(h, first) {
		if rest.Kind != regmachine.KindEmptyList {
			return regmachine.Value{}, &regmachine.TypeError{Msg: "else clause must be last in cond"}
		}
		return seq, nil
	}
	pred, err := condClausePredicate(h, first)
	if err != nil {
		return regmachine.Value{}, err
	}
	restIf, err := expandCondClauses(h, rest)
	if err != nil {
		return regmachine.Value{}, err
	}
	return MakeIf(h, pred, seq, restIf), nil
}

func sequenceToExp(h *regmachine.Heap, seq regmachine.Value) (regmachine.Value, error) {
	if seq.Kind == regmachine.KindEmptyList {
		return seq, nil
	}
	if LastExp(h, seq) {
		return FirstExp(h, seq)
	}
	return h.Cons(regmachine.Sym("begin"), seq), nil
}
