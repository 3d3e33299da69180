package regmachine

import "testing"

func TestAssembleResolvesForwardLabels(t *testing.T) {
	raw := []any{
		Goto(Lbl("done")),
		"done",
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	if prog.Instructions[0].Kind != InstGoto || prog.Instructions[0].Label != 1 {
		t.Fatalf("forward label not resolved: %+v", prog.Instructions[0])
	}
	if prog.Labels["done"] != 1 {
		t.Fatalf("labels[done] = %d, want 1", prog.Labels["done"])
	}
}

func TestAssembleDuplicateLabel(t *testing.T) {
	raw := []any{
		"loop",
		Goto(Lbl("loop")),
		"loop",
	}
	_, err := Assemble(raw, NewHeap())
	ae, ok := err.(*AssemblyError)
	if !ok || ae.Kind != DuplicateLabel {
		t.Fatalf("err = %v, want DuplicateLabel AssemblyError", err)
	}
}

func TestAssembleUndefinedLabel(t *testing.T) {
	raw := []any{
		Goto(Lbl("nowhere")),
	}
	_, err := Assemble(raw, NewHeap())
	ae, ok := err.(*AssemblyError)
	if !ok || ae.Kind != UndefinedLabel {
		t.Fatalf("err = %v, want UndefinedLabel AssemblyError", err)
	}
}

func TestAssembleLabelIndicesInBounds(t *testing.T) {
	raw := []any{
		"start",
		Test(Op("=", Reg("a"), Const(int64(0)))),
		Branch("start"),
		Goto(Lbl("start")),
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	for _, inst := range prog.Instructions {
		if inst.Kind == InstBranch || inst.Kind == InstGoto {
			if inst.Label < 0 || inst.Label >= len(prog.Instructions) {
				t.Fatalf("label index %d out of bounds [0,%d)", inst.Label, len(prog.Instructions))
			}
		}
	}
}

func TestAssembleRegisterDiscovery(t *testing.T) {
	raw := []any{
		Assign("a", Reg("b")),
		Save("c"),
	}
	prog, err := Assemble(raw, NewHeap())
	if err != nil {
		t.Fatal(err)
	}
	want := map[string]bool{"a": true, "b": true, "c": true}
	if len(prog.Registers) != len(want) {
		t.Fatalf("Registers = %v, want 3 entries", prog.Registers)
	}
	for _, r := range prog.Registers {
		if !want[r] {
			t.Fatalf("unexpected register %q discovered", r)
		}
	}
}

func TestAssembleListConstant(t *testing.T) {
	heap := NewHeap()
	raw := []any{
		Assign("x", Const([]any{int64(1), int64(2), int64(3)})),
	}
	prog, err := Assemble(raw, heap)
	if err != nil {
		t.Fatal(err)
	}
	v := prog.Instructions[0].Src.Const
	if got, want := Print(heap, v), "(1 2 3)"; got != want {
		t.Fatalf("const list = %q, want %q", got, want)
	}
}

func TestAssembleUnknownInstructionTag(t *testing.T) {
	raw := []any{
		[]any{"frobnicate", "a"},
	}
	_, err := Assemble(raw, NewHeap())
	ae, ok := err.(*AssemblyError)
	if !ok || ae.Kind != UnknownInstruction {
		t.Fatalf("err = %v, want UnknownInstruction AssemblyError", err)
	}
}
