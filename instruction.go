package regmachine

// SourceKind discriminates the variants of Source, the resolved form of an
// instruction operand.
type SourceKind int

const (
	SrcConst SourceKind = iota
	SrcReg
	SrcLabel
	SrcOp
)

// Source is a resolved operand: one of const, reg, label or op, matching
// spec.md 3's "Source (operand)". Op is the only variant that recurses,
// and only appears inside assign/test/perform.
type Source struct {
	Kind SourceKind

	Const  Value
	Reg    string
	Label  int
	OpName string
	OpArgs []Source
}

// InstKind discriminates the variants of Instruction.
type InstKind int

const (
	InstAssign InstKind = iota
	InstTest
	InstBranch
	InstGoto
	InstGotoReg
	InstSave
	InstRestore
	InstPerform
)

func (k InstKind) String() string {
	switch k {
	case InstAssign:
		return "assign"
	case InstTest:
		return "test"
	case InstBranch:
		return "branch"
	case InstGoto:
		return "goto"
	case InstGotoReg:
		return "goto-reg"
	case InstSave:
		return "save"
	case InstRestore:
		return "restore"
	case InstPerform:
		return "perform"
	default:
		return "unknown"
	}
}

// Instruction is the label-resolved form of one controller instruction,
// matching spec.md 3's tagged variant. Only the fields relevant to Kind are
// populated; the rest are zero.
type Instruction struct {
	Kind InstKind

	Reg    string // assign, save, restore, goto-reg
	Src    Source // assign
	Label  int    // branch, goto
	OpName string // test, perform
	Args   []Source
}
