package regmachine

import (
	"fmt"

	"golang.org/x/exp/slices"
)

// A raw controller, the input to Assemble, is an ordered sequence whose
// elements are either a bare label (a string) or an instruction (a []any
// whose head names the instruction tag). This is deliberately the same
// shape as the s-expression controller the README describes: the textual
// reader that would turn source text into this []any form is out of scope
// (spec.md 1) -- Assemble's input is always treated as already parsed.
//
// The small helpers below (Assign, Test, Branch, ...) build well-formed
// raw elements so controller programs can be written as Go literals that
// read like the underlying assembly, e.g.:
//
//	prog := []any{
//	    "test-b",
//	    Test(Op("=", Reg("b"), Const(int64(0)))),
//	    Branch("gcd-done"),
//	    Assign("t", Op("rem", Reg("a"), Reg("b"))),
//	    ...
//	}
func Reg(name string) []any { return []any{"reg", name} }

// Const wraps a Go literal (int64, float64, bool, string, Symbol, []any or
// nil) as a `(const ...)` operand. See parseConstLiteral for exactly which
// Go types are accepted and how they map onto spec.md 4.A's constant table.
func Const(v any) []any { return []any{"const", v} }

// Lbl names a `(label ...)` operand, referring to a label elsewhere in the
// same controller.
func Lbl(name string) []any { return []any{"label", name} }

// Op builds an `(op name arg...)` operand; its args are themselves
// operands (Reg, Const, Lbl or another Op).
func Op(name string, args ...[]any) []any {
	out := make([]any, 0, len(args)+2)
	out = append(out, "op", name)
	for _, a := range args {
		out = append(out, a)
	}
	return out
}

// Assign builds an `(assign reg value-expr)` instruction.
func Assign(reg string, valueExpr []any) []any { return []any{"assign", reg, valueExpr} }

// Test builds a `(test op-expr)` instruction. opExpr must be an Op(...).
func Test(opExpr []any) []any { return []any{"test", opExpr} }

// Branch builds a `(branch (label label))` instruction.
func Branch(label string) []any { return []any{"branch", Lbl(label)} }

// Goto builds a `(goto target)` instruction; target is Lbl(...) or Reg(...).
func Goto(target []any) []any { return []any{"goto", target} }

// Save builds a `(save reg)` instruction.
func Save(reg string) []any { return []any{"save", reg} }

// Restore builds a `(restore reg)` instruction.
func Restore(reg string) []any { return []any{"restore", reg} }

// Perform builds a `(perform op-expr)` instruction. opExpr must be an Op(...).
func Perform(opExpr []any) []any { return []any{"perform", opExpr} }

// ResolvedProgram is the output of Assemble: a flat instruction sequence, a
// label -> index map, and the set of register names the program refers to
// (sorted, for deterministic iteration).
type ResolvedProgram struct {
	Instructions []Instruction
	Labels       map[string]int
	Registers    []string
}

// assembleCtx threads the pieces every resolution step needs: the label
// table, the set of register names seen so far, and the heap used to
// materialize list constants.
type assembleCtx struct {
	labels  map[string]int
	regSeen map[string]bool
	heap    *Heap
}

// Assemble performs the two-pass compile described in spec.md 4.E-F: a
// label scan followed by operand resolution. heap is used only to
// materialize `(const (a b c))` list literals into real pairs; assembly
// otherwise never touches machine state (registers, stack, pc).
func Assemble(raw []any, heap *Heap) (*ResolvedProgram, error) {
	labels := map[string]int{}
	idx := 0
	for _, el := range raw {
		switch v := el.(type) {
		case string:
			if _, exists := labels[v]; exists {
				return nil, &AssemblyError{Kind: DuplicateLabel, Msg: v}
			}
			labels[v] = idx
		case []any:
			idx++
		default:
			return nil, &ParseError{Msg: fmt.Sprintf("controller element of type %T", el)}
		}
	}

	ctx := &assembleCtx{labels: labels, regSeen: map[string]bool{}, heap: heap}
	instructions := make([]Instruction, 0, idx)
	for _, el := range raw {
		list, ok := el.([]any)
		if !ok {
			continue // a label, already recorded in pass 1
		}
		inst, err := resolveInstruction(list, ctx)
		if err != nil {
			return nil, err
		}
		instructions = append(instructions, inst)
	}

	regs := make([]string, 0, len(ctx.regSeen))
	for r := range ctx.regSeen {
		regs = append(regs, r)
	}
	slices.Sort(regs)

	return &ResolvedProgram{Instructions: instructions, Labels: labels, Registers: regs}, nil
}

func resolveInstruction(list []any, ctx *assembleCtx) (Instruction, error) {
	if len(list) == 0 {
		return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "empty instruction"}
	}
	tag, ok := list[0].(string)
	if !ok {
		return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "instruction head must be a string tag"}
	}

	switch tag {
	case "assign":
		if len(list) != 3 {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "assign wants (assign reg value-expr)"}
		}
		reg, ok := list[1].(string)
		if !ok {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "assign register must be a string"}
		}
		ctx.regSeen[reg] = true
		src, err := resolveSource(list[2], ctx)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: InstAssign, Reg: reg, Src: src}, nil

	case "test":
		if len(list) != 2 {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "test wants (test op-expr)"}
		}
		name, args, err := resolveOpForm(list[1], ctx)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: InstTest, OpName: name, Args: args}, nil

	case "branch":
		if len(list) != 2 {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "branch wants (branch (label L))"}
		}
		src, err := resolveSource(list[1], ctx)
		if err != nil {
			return Instruction{}, err
		}
		if src.Kind != SrcLabel {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "branch target must be a label"}
		}
		return Instruction{Kind: InstBranch, Label: src.Label}, nil

	case "goto":
		if len(list) != 2 {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "goto wants (goto target)"}
		}
		src, err := resolveSource(list[1], ctx)
		if err != nil {
			return Instruction{}, err
		}
		switch src.Kind {
		case SrcLabel:
			return Instruction{Kind: InstGoto, Label: src.Label}, nil
		case SrcReg:
			return Instruction{Kind: InstGotoReg, Reg: src.Reg}, nil
		default:
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "goto target must be a label or register"}
		}

	case "save":
		reg, ok := list[1].(string)
		if !ok || len(list) != 2 {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "save wants (save reg)"}
		}
		ctx.regSeen[reg] = true
		return Instruction{Kind: InstSave, Reg: reg}, nil

	case "restore":
		reg, ok := list[1].(string)
		if !ok || len(list) != 2 {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "restore wants (restore reg)"}
		}
		ctx.regSeen[reg] = true
		return Instruction{Kind: InstRestore, Reg: reg}, nil

	case "perform":
		if len(list) != 2 {
			return Instruction{}, &AssemblyError{Kind: MalformedOperand, Msg: "perform wants (perform op-expr)"}
		}
		name, args, err := resolveOpForm(list[1], ctx)
		if err != nil {
			return Instruction{}, err
		}
		return Instruction{Kind: InstPerform, OpName: name, Args: args}, nil

	default:
		return Instruction{}, &AssemblyError{Kind: UnknownInstruction, Msg: tag}
	}
}

func resolveOpForm(expr any, ctx *assembleCtx) (string, []Source, error) {
	src, err := resolveSource(expr, ctx)
	if err != nil {
		return "", nil, err
	}
	if src.Kind != SrcOp {
		return "", nil, &AssemblyError{Kind: MalformedOperand, Msg: "expected an (op ...) expression"}
	}
	return src.OpName, src.OpArgs, nil
}

func resolveSource(expr any, ctx *assembleCtx) (Source, error) {
	list, ok := expr.([]any)
	if !ok || len(list) < 2 {
		return Source{}, &AssemblyError{Kind: MalformedOperand, Msg: fmt.Sprintf("malformed operand %#v", expr)}
	}
	head, ok := list[0].(string)
	if !ok {
		return Source{}, &AssemblyError{Kind: MalformedOperand, Msg: "operand head must be a string tag"}
	}

	switch head {
	case "reg":
		name, ok := list[1].(string)
		if !ok {
			return Source{}, &AssemblyError{Kind: MalformedOperand, Msg: "reg operand must name a string"}
		}
		ctx.regSeen[name] = true
		return Source{Kind: SrcReg, Reg: name}, nil

	case "const":
		v, err := parseConstLiteral(list[1], ctx.heap)
		if err != nil {
			return Source{}, err
		}
		return Source{Kind: SrcConst, Const: v}, nil

	case "label":
		name, ok := list[1].(string)
		if !ok {
			return Source{}, &AssemblyError{Kind: MalformedOperand, Msg: "label operand must name a string"}
		}
		idx, ok := ctx.labels[name]
		if !ok {
			return Source{}, &AssemblyError{Kind: UndefinedLabel, Msg: name}
		}
		return Source{Kind: SrcLabel, Label: idx}, nil

	case "op":
		name, ok := list[1].(string)
		if !ok {
			return Source{}, &AssemblyError{Kind: MalformedOperand, Msg: "op operand must name a string"}
		}
		args := make([]Source, 0, len(list)-2)
		for _, a := range list[2:] {
			s, err := resolveSource(a, ctx)
			if err != nil {
				return Source{}, err
			}
			args = append(args, s)
		}
		return Source{Kind: SrcOp, OpName: name, OpArgs: args}, nil

	default:
		return Source{}, &AssemblyError{Kind: MalformedOperand, Msg: "unknown operand tag " + head}
	}
}

// parseConstLiteral converts a Go literal into a Value, per spec.md 4.A's
// constant table: int64 -> Integer, float64 -> Float, bool -> Bool,
// string -> String, Symbol -> Symbol, nil -> EmptyList, []any -> a proper
// list of recursively parsed constants (materialized into heap as pairs).
func parseConstLiteral(v any, heap *Heap) (Value, error) {
	switch x := v.(type) {
	case int64:
		return Int(x), nil
	case int:
		return Int(int64(x)), nil
	case float64:
		return Flt(x), nil
	case bool:
		return Bl(x), nil
	case string:
		return Str(x), nil
	case Symbol:
		return Sym(string(x)), nil
	case nil:
		return Empty, nil
	case []any:
		elems := make([]Value, 0, len(x))
		for _, e := range x {
			ev, err := parseConstLiteral(e, heap)
			if err != nil {
				return Value{}, err
			}
			elems = append(elems, ev)
		}
		return heap.SliceToList(elems), nil
	default:
		return Value{}, &ParseError{Msg: fmt.Sprintf("unsupported constant literal type %T", v)}
	}
}
