package regmachine

import (
	"context"
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
)

// Machine owns a fixed set of registers, an operand stack, an operation
// table and a resolved instruction sequence, and drives execution per
// spec.md 4.G's dispatch loop.
type Machine struct {
	registers map[string]*Register
	regOrder  []string

	stack *Stack
	ops   OperationTable

	program *ResolvedProgram

	pc        int
	flag      bool
	instCount int

	trace io.Writer
}

// NewMachine builds a Machine for program, assembled by Assemble. Registers
// are created eagerly for the union of declaredRegisters and every register
// name the program refers to: spec.md 3 allows either eager declaration or
// lazy on-demand creation, as long as the choice is applied consistently.
// This implementation chooses eager allocation so that GetRegister/
// SetRegister never depend on which control-flow path has executed so far.
func NewMachine(declaredRegisters []string, ops OperationTable, program *ResolvedProgram) *Machine {
	m := &Machine{
		registers: make(map[string]*Register),
		stack:     NewStack(),
		ops:       ops,
		program:   program,
	}
	add := func(name string) {
		if _, ok := m.registers[name]; !ok {
			m.registers[name] = NewRegister(name)
			m.regOrder = append(m.regOrder, name)
		}
	}
	for _, name := range declaredRegisters {
		add(name)
	}
	for _, name := range program.Registers {
		add(name)
	}
	return m
}

// SetTrace directs diagnostic output (one go-spew dump per executed assign
// instruction) to w. A nil w (the default) disables tracing output.
func (m *Machine) SetTrace(w io.Writer) { m.trace = w }

// TraceOn enables assignment tracing for a single register, or for every
// register if name is "".
func (m *Machine) TraceOn(name string) error {
	if name == "" {
		for _, r := range m.registers {
			r.SetTracing(true)
		}
		return nil
	}
	r, ok := m.registers[name]
	if !ok {
		return &MachineError{PC: m.pc, Cause: &TypeError{Msg: "unknown register " + name}}
	}
	r.SetTracing(true)
	return nil
}

// SetRegister stores v into the named register.
func (m *Machine) SetRegister(name string, v Value) error {
	r, ok := m.registers[name]
	if !ok {
		return &TypeError{Msg: "unknown register " + name}
	}
	r.Set(v)
	return nil
}

// GetRegister returns the value of the named register.
func (m *Machine) GetRegister(name string) (Value, error) {
	r, ok := m.registers[name]
	if !ok {
		return Value{}, &TypeError{Msg: "unknown register " + name}
	}
	return r.Get(), nil
}

// StackStatistics reports the machine's stack usage.
func (m *Machine) StackStatistics() Statistics { return m.stack.Statistics() }

// InitializeStack empties the operand stack and resets its session
// counters, for the `initialize-stack` operation the controller performs
// once per read-eval-print-loop iteration.
func (m *Machine) InitializeStack() { m.stack.Initialize() }

// InstructionCount returns the number of instructions executed by the most
// recent Run call (and any before it, since this counter is cumulative).
func (m *Machine) InstructionCount() int { return m.instCount }

// DumpRegisters renders every register's current value with go-spew, for
// diagnostic tracing -- mirrors the teacher's own use of
// spew.Fdump(logWriter, ...) to pretty-print parsed state.
func (m *Machine) DumpRegisters(w io.Writer) {
	for _, name := range m.regOrder {
		fmt.Fprintf(w, "%s = ", name)
		spew.Fdump(w, m.registers[name].Get())
	}
}

// Run resets pc to 0 and flag to false, then executes instructions in
// order until pc runs past the end of the program. ctx is checked between
// instructions only; cancellation is cooperative and optional per
// spec.md 5.
func (m *Machine) Run(ctx context.Context) error {
	m.pc = 0
	m.flag = false

	insts := m.program.Instructions
	for m.pc < len(insts) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		inst := insts[m.pc]
		if err := m.step(inst); err != nil {
			return &MachineError{PC: m.pc, Instruction: inst, Cause: err}
		}
		m.instCount++
	}
	return nil
}

func (m *Machine) step(inst Instruction) error {
	switch inst.Kind {
	case InstAssign:
		v, err := m.evalSource(inst.Src)
		if err != nil {
			return err
		}
		if m.trace != nil {
			fmt.Fprintf(m.trace, "assign %s <- ", inst.Reg)
			spew.Fdump(m.trace, v)
		}
		if err := m.SetRegister(inst.Reg, v); err != nil {
			return err
		}
		m.pc++

	case InstTest:
		args, err := m.evalAll(inst.Args)
		if err != nil {
			return err
		}
		result, err := m.apply(inst.OpName, args)
		if err != nil {
			return err
		}
		if result.Kind != KindBool {
			return &TypeError{Msg: "test operation did not return a bool"}
		}
		m.flag = result.BoolVal()
		m.pc++

	case InstBranch:
		if m.flag {
			m.pc = inst.Label
		} else {
			m.pc++
		}

	case InstGoto:
		m.pc = inst.Label

	case InstGotoReg:
		v, err := m.GetRegister(inst.Reg)
		if err != nil {
			return err
		}
		if v.Kind != KindLabelRef {
			return &TypeError{Msg: "goto (reg " + inst.Reg + ") does not hold a label"}
		}
		m.pc = v.LabelIndex()

	case InstSave:
		v, err := m.GetRegister(inst.Reg)
		if err != nil {
			return err
		}
		m.stack.Push(v)
		m.pc++

	case InstRestore:
		v, err := m.stack.Pop()
		if err != nil {
			return err
		}
		if err := m.SetRegister(inst.Reg, v); err != nil {
			return err
		}
		m.pc++

	case InstPerform:
		args, err := m.evalAll(inst.Args)
		if err != nil {
			return err
		}
		if _, err := m.apply(inst.OpName, args); err != nil {
			return err
		}
		m.pc++

	default:
		return &TypeError{Msg: "unknown instruction kind"}
	}
	return nil
}

// evalSource implements spec.md 4.G's eval_source: Const yields itself,
// Reg yields the register's current value, Label yields a LabelRef value,
// and Op invokes the named operation against its (recursively evaluated)
// arguments.
func (m *Machine) evalSource(src Source) (Value, error) {
	switch src.Kind {
	case SrcConst:
		return src.Const, nil
	case SrcReg:
		return m.GetRegister(src.Reg)
	case SrcLabel:
		return LabelRefVal(src.Label), nil
	case SrcOp:
		args, err := m.evalAll(src.OpArgs)
		if err != nil {
			return Value{}, err
		}
		return m.apply(src.OpName, args)
	default:
		return Value{}, &TypeError{Msg: "unknown source kind"}
	}
}

// evalAll evaluates operand sources strictly, left to right.
func (m *Machine) evalAll(srcs []Source) ([]Value, error) {
	out := make([]Value, len(srcs))
	for i, s := range srcs {
		v, err := m.evalSource(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *Machine) apply(opName string, args []Value) (Value, error) {
	op, err := m.ops.Lookup(opName)
	if err != nil {
		return Value{}, err
	}
	return op(args)
}
