package ece

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/andreyvit/diff"
)

// runECE feeds source through a fresh REPL and returns everything it
// printed. Each top-level form's result is printed on its own line,
// matching spec.md 6's external-syntax rule ("ok" for define/set!).
func runECE(t *testing.T, source string) string {
	t.Helper()
	var out bytes.Buffer
	if err := Run(context.Background(), strings.NewReader(source), &out); err != nil {
		t.Fatalf("ECE run failed: %v", err)
	}
	return out.String()
}

func assertGolden(t *testing.T, got, want string) {
	t.Helper()
	if got != want {
		t.Fatalf("output mismatch:\n%s", diff.LineDiff(want, got))
	}
}

// TestECEEndToEndRecursiveFactorial is spec.md 8 scenario 5: defining a
// self-recursive procedure and applying it prints "ok" for the define,
// then the result of applying it.
func TestECEEndToEndRecursiveFactorial(t *testing.T) {
	got := runECE(t, `
		(define (f n) (if (= n 0) 1 (* n (f (- n 1)))))
		(f 5)
	`)
	const want = "ok\n120\n"
	assertGolden(t, got[:len(want)], want)
}

// TestECEEndToEndAppend is spec.md 8 scenario 6: append built purely from
// cons/car/cdr and null?, recursing through apply-dispatch/compound-apply
// exactly as factorial does, but exercising cons-cell construction and
// structural printing instead of arithmetic.
func TestECEEndToEndAppend(t *testing.T) {
	got := runECE(t, `
		(define (append x y) (if (null? x) y (cons (car x) (append (cdr x) y))))
		(append '(a b c) '(d e f))
	`)
	const want = "ok\n(a b c d e f)\n"
	assertGolden(t, got[:len(want)], want)
}

// TestECEExitFormEndsREPL confirms the `(exit)` form halts the loop
// without evaluating anything after it, per spec.md 6's exit rule.
func TestECEExitFormEndsREPL(t *testing.T) {
	got := runECE(t, `
		(define x 1)
		(exit)
		(define y 2)
	`)
	if !strings.HasPrefix(got, "ok\n") {
		t.Fatalf("expected the first define to run before exit, got %q", got)
	}
	if strings.Contains(got, "y") {
		t.Fatalf("form after (exit) should not have been evaluated: %q", got)
	}
}

// TestECEUnboundVariableHaltsWithMachineError confirms a MachineError (not
// a panic) surfaces when the controller's lookup-variable-value fails,
// matching spec.md 7's error taxonomy.
func TestECEUnboundVariableHaltsWithMachineError(t *testing.T) {
	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader("(+ undefined-name 1)"), &out)
	if err == nil {
		t.Fatal("expected an error for an unbound variable")
	}
}
