// Package regmachine implements the abstract register machine of SICP
// chapter 5: a data-driven simulator that assembles an s-expression
// controller program into a flat, label-resolved instruction sequence and
// executes it against a shared operand stack and a set of named registers.
package regmachine

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind discriminates the variants of Value. Value is a closed sum type;
// every field other than the one selected by Kind is zero.
type Kind int

const (
	KindInteger Kind = iota
	KindFloat
	KindBool
	KindString
	KindSymbol
	KindPair
	KindEmptyList
	KindLabelRef
	KindCompoundProc
	KindPrimitiveProc
	KindUnspecified
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	case KindSymbol:
		return "symbol"
	case KindPair:
		return "pair"
	case KindEmptyList:
		return "empty-list"
	case KindLabelRef:
		return "label-ref"
	case KindCompoundProc:
		return "compound-procedure"
	case KindPrimitiveProc:
		return "primitive-procedure"
	case KindUnspecified:
		return "unspecified"
	default:
		return "unknown"
	}
}

// Symbol distinguishes a bare Scheme identifier from a double-quoted string
// when building constant literals: Const(Symbol("foo")) vs Const("foo").
type Symbol string

// PairHandle is a non-owning reference into a Heap. It is never an owning
// pointer: the heap never frees cells, matching the non-goal of garbage
// collection in this simulator (lifetimes are process-wide).
type PairHandle int

// CompoundProc is the closure captured by the `lambda` special form: a
// parameter list, a body, and the defining environment, all represented as
// ordinary Values per SICP's own data representation.
type CompoundProc struct {
	Params Value
	Body   Value
	Env    Value
}

// Value is the tagged sum of every runtime datum the register machine and
// the explicit-control evaluator can manipulate.
type Value struct {
	Kind Kind

	i    int64
	f    float64
	b    bool
	s    string
	pair PairHandle
	lbl  int
	proc *CompoundProc
}

// Int constructs an Integer value.
func Int(v int64) Value { return Value{Kind: KindInteger, i: v} }

// Flt constructs a Float value.
func Flt(v float64) Value { return Value{Kind: KindFloat, f: v} }

// Bl constructs a Bool value.
func Bl(v bool) Value { return Value{Kind: KindBool, b: v} }

// Str constructs a String value (double-quoted external syntax).
func Str(v string) Value { return Value{Kind: KindString, s: v} }

// Sym constructs a Symbol value.
func Sym(v string) Value { return Value{Kind: KindSymbol, s: v} }

// LabelRefVal constructs a LabelRef value pointing at an instruction index.
func LabelRefVal(idx int) Value { return Value{Kind: KindLabelRef, lbl: idx} }

// PrimitiveProcVal constructs a PrimitiveProc value naming a host primitive.
func PrimitiveProcVal(name string) Value { return Value{Kind: KindPrimitiveProc, s: name} }

// CompoundProcVal constructs a CompoundProc value.
func CompoundProcVal(params, body, env Value) Value {
	return Value{Kind: KindCompoundProc, proc: &CompoundProc{Params: params, Body: body, Env: env}}
}

// Empty is the empty list, '().
var Empty = Value{Kind: KindEmptyList}

// Unspecified is the value returned by side-effecting forms such as
// `define` and `set!` at the Value level; Print renders it as "ok", which
// is what the ECE prints for these forms.
var Unspecified = Value{Kind: KindUnspecified}

// IntVal, FltVal, BoolVal, StrVal, LabelIndex and Proc extract the
// payload of a Value. Callers must check Kind first; these panic on
// mismatch so that a wiring bug surfaces immediately rather than silently
// reading zero.
func (v Value) IntVal() int64 {
	if v.Kind != KindInteger {
		panic("regmachine: IntVal on non-integer Value")
	}
	return v.i
}

func (v Value) FltVal() float64 {
	if v.Kind != KindFloat {
		panic("regmachine: FltVal on non-float Value")
	}
	return v.f
}

func (v Value) BoolVal() bool {
	if v.Kind != KindBool {
		panic("regmachine: BoolVal on non-bool Value")
	}
	return v.b
}

func (v Value) StrVal() string {
	if v.Kind != KindString && v.Kind != KindSymbol && v.Kind != KindPrimitiveProc {
		panic("regmachine: StrVal on incompatible Value")
	}
	return v.s
}

func (v Value) LabelIndex() int {
	if v.Kind != KindLabelRef {
		panic("regmachine: LabelIndex on non-label Value")
	}
	return v.lbl
}

func (v Value) Proc() *CompoundProc {
	if v.Kind != KindCompoundProc {
		panic("regmachine: Proc on non-procedure Value")
	}
	return v.proc
}

func (v Value) pairHandle() PairHandle {
	if v.Kind != KindPair {
		panic("regmachine: pairHandle on non-pair Value")
	}
	return v.pair
}

// Predicates matching SICP's own naming.
func IsNumber(v Value) bool     { return v.Kind == KindInteger || v.Kind == KindFloat }
func IsNonInteger(v Value) bool { return v.Kind == KindFloat }
func IsString(v Value) bool     { return v.Kind == KindString }
func IsSymbol(v Value) bool     { return v.Kind == KindSymbol }
func IsPair(v Value) bool       { return v.Kind == KindPair }
func IsNull(v Value) bool       { return v.Kind == KindEmptyList }

// heapCell is one cons cell. car/cdr are ordinary Values, so a cell can
// point at another pair, an atom, or (via Unspecified) nothing yet.
type heapCell struct {
	car, cdr Value
}

// Heap is the process-wide, monotonically growing pair arena backing every
// Pair value. References into it (PairHandle) are plain indices, not Go
// pointers, so that cycles -- required for the ECE's circular global
// environment -- are unremarkable to store and only need care when walked.
// The heap is never compacted or freed: garbage collection is an explicit
// non-goal of this simulator.
type Heap struct {
	cells []heapCell
}

// NewHeap returns an empty pair heap.
func NewHeap() *Heap { return &Heap{} }

// Cons allocates a new pair cell and returns a Value referencing it.
func (h *Heap) Cons(car, cdr Value) Value {
	h.cells = append(h.cells, heapCell{car: car, cdr: cdr})
	return Value{Kind: KindPair, pair: PairHandle(len(h.cells) - 1)}
}

// Car returns the car field of a pair, or a TypeError if v is not a pair.
func (h *Heap) Car(v Value) (Value, error) {
	if v.Kind != KindPair {
		return Value{}, &TypeError{Msg: "car of non-pair"}
	}
	return h.cells[v.pair].car, nil
}

// Cdr returns the cdr field of a pair, or a TypeError if v is not a pair.
func (h *Heap) Cdr(v Value) (Value, error) {
	if v.Kind != KindPair {
		return Value{}, &TypeError{Msg: "cdr of non-pair"}
	}
	return h.cells[v.pair].cdr, nil
}

// SetCar mutates the car field of an existing pair in place.
func (h *Heap) SetCar(v, newCar Value) error {
	if v.Kind != KindPair {
		return &TypeError{Msg: "set-car! of non-pair"}
	}
	h.cells[v.pair].car = newCar
	return nil
}

// SetCdr mutates the cdr field of an existing pair in place.
func (h *Heap) SetCdr(v, newCdr Value) error {
	if v.Kind != KindPair {
		return &TypeError{Msg: "set-cdr! of non-pair"}
	}
	h.cells[v.pair].cdr = newCdr
	return nil
}

// ListToSlice walks a proper list into a Go slice of its elements. It stops
// and returns what it has at the first non-pair cdr that isn't Empty
// (useful for validating as well as reading argument lists).
func (h *Heap) ListToSlice(v Value) []Value {
	var out []Value
	for v.Kind == KindPair {
		out = append(out, h.cells[v.pair].car)
		v = h.cells[v.pair].cdr
	}
	return out
}

// SliceToList builds a proper list of pairs terminated by Empty from a Go
// slice, in the order given.
func (h *Heap) SliceToList(vs []Value) Value {
	out := Empty
	for i := len(vs) - 1; i >= 0; i-- {
		out = h.Cons(vs[i], out)
	}
	return out
}

// Eq implements Scheme's `eq?`: identity for pairs (same cell), value
// equality for atoms.
func Eq(a, b Value) bool {
	if a.Kind != b.Kind {
		// Integer/Float cross-kind eq? is always false; no promotion for eq?.
		return false
	}
	switch a.Kind {
	case KindInteger:
		return a.i == b.i
	case KindFloat:
		return a.f == b.f
	case KindBool:
		return a.b == b.b
	case KindString, KindSymbol, KindPrimitiveProc:
		return a.s == b.s
	case KindPair:
		return a.pair == b.pair
	case KindEmptyList, KindUnspecified:
		return true
	case KindLabelRef:
		return a.lbl == b.lbl
	case KindCompoundProc:
		return a.proc == b.proc
	default:
		return false
	}
}

// Equal implements structural equality, per spec.md's "equal?": recurses
// through pairs, comparing atoms by value and numbers across Integer/Float
// with promotion. A depth cap guards against the cyclic environments the
// ECE deliberately builds.
func Equal(h *Heap, a, b Value) bool {
	return equalDepth(h, a, b, 0)
}

const maxEqualDepth = 100000

func equalDepth(h *Heap, a, b Value, depth int) bool {
	if depth > maxEqualDepth {
		return true // treat runaway (cyclic) structures as equal rather than looping forever
	}
	if IsNumber(a) && IsNumber(b) {
		eq, _ := NumEq(a, b)
		return eq
	}
	if a.Kind != b.Kind {
		return false
	}
	if a.Kind == KindPair {
		carEq := equalDepth(h, h.cells[a.pair].car, h.cells[b.pair].car, depth+1)
		if !carEq {
			return false
		}
		return equalDepth(h, h.cells[a.pair].cdr, h.cells[b.pair].cdr, depth+1)
	}
	return Eq(a, b)
}

// Print renders v in Scheme external syntax: `(a b c)` for proper lists,
// `()` for the empty list, `#t`/`#f` for booleans. Pair cycles (the global
// environment reaches back into itself through captured procedures) are
// detected along the current recursion path and rendered as "...".
func Print(h *Heap, v Value) string {
	var sb strings.Builder
	printValue(h, v, &sb, map[PairHandle]bool{})
	return sb.String()
}

func printValue(h *Heap, v Value, sb *strings.Builder, onPath map[PairHandle]bool) {
	switch v.Kind {
	case KindInteger:
		sb.WriteString(strconv.FormatInt(v.i, 10))
	case KindFloat:
		sb.WriteString(strconv.FormatFloat(v.f, 'g', -1, 64))
	case KindBool:
		if v.b {
			sb.WriteString("#t")
		} else {
			sb.WriteString("#f")
		}
	case KindString:
		sb.WriteByte('"')
		sb.WriteString(v.s)
		sb.WriteByte('"')
	case KindSymbol:
		sb.WriteString(v.s)
	case KindEmptyList:
		sb.WriteString("()")
	case KindUnspecified:
		sb.WriteString("ok")
	case KindLabelRef:
		fmt.Fprintf(sb, "#[label %d]", v.lbl)
	case KindPrimitiveProc:
		fmt.Fprintf(sb, "#[compiled-procedure %s]", v.s)
	case KindCompoundProc:
		fmt.Fprintf(sb, "#[compound-procedure %s]", Print(h, v.proc.Params))
	case KindPair:
		if onPath[v.pair] {
			sb.WriteString("...")
			return
		}
		onPath[v.pair] = true
		var marked []PairHandle
		sb.WriteByte('(')
		cur := v
		first := true
		for cur.Kind == KindPair {
			if onPath[cur.pair] && !first {
				sb.WriteString(" ...")
				cur = Empty
				break
			}
			onPath[cur.pair] = true
			marked = append(marked, cur.pair)
			if !first {
				sb.WriteByte(' ')
			}
			first = false
			printValue(h, h.cells[cur.pair].car, sb, onPath)
			cur = h.cells[cur.pair].cdr
		}
		if cur.Kind != KindEmptyList {
			sb.WriteString(" . ")
			printValue(h, cur, sb, onPath)
		}
		sb.WriteByte(')')
		for _, p := range marked {
			delete(onPath, p)
		}
	}
}
