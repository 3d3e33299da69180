package regmachine

import (
	"context"
	"testing"
)

func addOps() OperationTable {
	t := NewOperationTable()
	t.Register("+", func(args []Value) (Value, error) { return Add(args[0], args[1]) })
	t.Register("-", func(args []Value) (Value, error) { return Sub(args[0], args[1]) })
	t.Register("=", func(args []Value) (Value, error) {
		eq, err := NumEq(args[0], args[1])
		return Bl(eq), err
	})
	t.Register(">", func(args []Value) (Value, error) {
		gt, err := Gt(args[0], args[1])
		return Bl(gt), err
	})
	return t
}

// TestBalancedSaveRestoreRoundTrips is spec.md 8 invariant 2: after a
// balanced save/restore with no branch crossing the boundary, the register
// holds what it held at save.
func TestBalancedSaveRestoreRoundTrips(t *testing.T) {
	raw := []any{
		Assign("a", Const(int64(42))),
		Save("a"),
		Assign("a", Const(int64(0))),
		Restore("a"),
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine(nil, addOps(), prog)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, _ := m.GetRegister("a")
	if got.IntVal() != 42 {
		t.Fatalf("a = %d, want 42", got.IntVal())
	}
}

// TestRestoreOnEmptyStackIsFatal is the malformed-controller scenario from
// spec.md 9: restore on an empty stack must yield a MachineError, not
// silent corruption.
func TestRestoreOnEmptyStackIsFatal(t *testing.T) {
	raw := []any{
		Restore("a"),
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine([]string{"a"}, addOps(), prog)
	err = m.Run(context.Background())
	if err == nil {
		t.Fatal("expected a MachineError from restore on empty stack")
	}
	me, ok := err.(*MachineError)
	if !ok {
		t.Fatalf("err = %v (%T), want *MachineError", err, err)
	}
	if _, ok := me.Cause.(*StackUnderflowError); !ok {
		t.Fatalf("cause = %v, want StackUnderflowError", me.Cause)
	}
}

// TestBranchOnlyFollowsTrueFlag is spec.md 8 invariant 3.
func TestBranchOnlyFollowsTrueFlag(t *testing.T) {
	raw := []any{
		Test(Op("=", Const(int64(1)), Const(int64(2)))),
		Branch("skipped"),
		Assign("result", Const(Symbol("fell-through"))),
		Goto(Lbl("done")),
		"skipped",
		Assign("result", Const(Symbol("branched"))),
		"done",
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine([]string{"result"}, addOps(), prog)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, _ := m.GetRegister("result")
	if got.StrVal() != "fell-through" {
		t.Fatalf("result = %q, want fell-through (flag was false)", got.StrVal())
	}
}

// TestBranchConsumesButDoesNotClearFlag matches spec.md 3: branch executes
// based on the most recent test, and does not itself clear the flag -- a
// second branch without an intervening test still follows it.
func TestBranchConsumesButDoesNotClearFlag(t *testing.T) {
	raw := []any{
		Test(Op("=", Const(int64(1)), Const(int64(1)))),
		Branch("first"),
		Assign("unreached", Const(int64(0))),
		"first",
		Branch("second"),
		Assign("also-unreached", Const(int64(0))),
		"second",
		Assign("result", Const(int64(7))),
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine([]string{"result"}, addOps(), prog)
	if err := m.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got, _ := m.GetRegister("result")
	if got.IntVal() != 7 {
		t.Fatalf("result = %d, want 7", got.IntVal())
	}
}

// TestGotoRegRequiresLabelRef matches spec.md 7: goto to a non-label
// register value is a MachineError.
func TestGotoRegRequiresLabelRef(t *testing.T) {
	raw := []any{
		Assign("target", Const(int64(5))),
		Goto(Reg("target")),
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	m := NewMachine([]string{"target"}, addOps(), prog)
	if err := m.Run(context.Background()); err == nil {
		t.Fatal("expected MachineError for goto (reg ...) holding a non-label value")
	}
}

// TestOperationsOnlySeeTheirArgumentVector is spec.md 8 invariant 6:
// swapping two operations with disjoint names and identical argument
// shapes deterministically substitutes behavior.
func TestOperationsOnlySeeTheirArgumentVector(t *testing.T) {
	raw := []any{
		Assign("result", Op("custom-op", Const(int64(3)), Const(int64(4)))),
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}

	addTable := NewOperationTable()
	addTable.Register("custom-op", func(args []Value) (Value, error) { return Add(args[0], args[1]) })
	m1 := NewMachine([]string{"result"}, addTable, prog)
	if err := m1.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got1, _ := m1.GetRegister("result")

	mulTable := NewOperationTable()
	mulTable.Register("custom-op", func(args []Value) (Value, error) { return Mul(args[0], args[1]) })
	m2 := NewMachine([]string{"result"}, mulTable, prog)
	if err := m2.Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	got2, _ := m2.GetRegister("result")

	if got1.IntVal() != 7 {
		t.Fatalf("add table result = %d, want 7", got1.IntVal())
	}
	if got2.IntVal() != 12 {
		t.Fatalf("mul table result = %d, want 12", got2.IntVal())
	}
}

// TestStackStatisticsSessionVsLifetime resolves the open question in
// spec.md 9: Initialize resets session counters but not lifetime ones.
func TestStackStatisticsSessionVsLifetime(t *testing.T) {
	s := NewStack()
	s.Push(Int(1))
	s.Push(Int(2))
	s.Initialize()
	s.Push(Int(3))

	stats := s.Statistics()
	if stats.SessionPushes != 1 {
		t.Fatalf("SessionPushes = %d, want 1", stats.SessionPushes)
	}
	if stats.LifetimePushes != 3 {
		t.Fatalf("LifetimePushes = %d, want 3", stats.LifetimePushes)
	}
	if stats.CurrentDepth != 1 {
		t.Fatalf("CurrentDepth = %d, want 1", stats.CurrentDepth)
	}
	if stats.LifetimeMaxDepth < stats.SessionMaxDepth {
		t.Fatalf("LifetimeMaxDepth (%d) should be >= SessionMaxDepth (%d)", stats.LifetimeMaxDepth, stats.SessionMaxDepth)
	}
}
