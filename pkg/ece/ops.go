package ece

import (
	"fmt"
	"io"

	"github.com/sicplab/regmachine"

	"github.com/sicplab/regmachine/pkg/schemeread"
)

// eofSentinel is what the `read` operation returns at end of input: a
// symbol the reader only yields if the input spells it out, tested by the
// controller via the `eof-object?` operation before anything touches exp.
var eofSentinel = regmachine.Sym("%%eof-object%%")

// NewOperationTable builds the ~60-operation table spec.md 4.H names: pair
// ops, environment ops, syntax predicates/selectors, procedure accessors,
// and I/O, all closing over heap/in/out -- the host state an Operation may
// hold without breaking the stack/register firewall of spec.md 4.G.
func NewOperationTable(heap *regmachine.Heap, in io.Reader, out io.Writer) regmachine.OperationTable {
	t := regmachine.NewOperationTable()
	reader := schemeread.New(in, heap)

	unary := func(f func(*regmachine.Heap, regmachine.Value) (regmachine.Value, error)) regmachine.Operation {
		return func(args []regmachine.Value) (regmachine.Value, error) { return f(heap, args[0]) }
	}
	unaryPred := func(f func(*regmachine.Heap, regmachine.Value) bool) regmachine.Operation {
		return func(args []regmachine.Value) (regmachine.Value, error) { return regmachine.Bl(f(heap, args[0])), nil }
	}

	// Pair ops.
	t.Register("cons", func(args []regmachine.Value) (regmachine.Value, error) { return heap.Cons(args[0], args[1]), nil })
	t.Register("car", func(args []regmachine.Value) (regmachine.Value, error) { return heap.Car(args[0]) })
	t.Register("cdr", func(args []regmachine.Value) (regmachine.Value, error) { return heap.Cdr(args[0]) })
	t.Register("set-car!", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Unspecified, heap.SetCar(args[0], args[1])
	})
	t.Register("set-cdr!", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Unspecified, heap.SetCdr(args[0], args[1])
	})
	t.Register("pair?", func(args []regmachine.Value) (regmachine.Value, error) { return regmachine.Bl(regmachine.IsPair(args[0])), nil })
	t.Register("null?", func(args []regmachine.Value) (regmachine.Value, error) { return regmachine.Bl(regmachine.IsNull(args[0])), nil })

	// Environment ops.
	t.Register("lookup-variable-value", func(args []regmachine.Value) (regmachine.Value, error) {
		return LookupVariableValue(heap, args[0], args[1])
	})
	t.Register("set-variable-value!", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Unspecified, SetVariableValue(heap, args[0], args[1], args[2])
	})
	t.Register("define-variable!", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Unspecified, DefineVariable(heap, args[0], args[1], args[2])
	})
	t.Register("extend-environment", func(args []regmachine.Value) (regmachine.Value, error) {
		return ExtendEnvironment(heap, args[0], args[1], args[2])
	})
	t.Register("the-empty-environment", func(args []regmachine.Value) (regmachine.Value, error) {
		return TheEmptyEnvironment(), nil
	})
	globalEnv := NewGlobalEnvironment(heap)
	t.Register("get-global-environment", func(args []regmachine.Value) (regmachine.Value, error) {
		return globalEnv, nil
	})

	// Syntax predicates and selectors.
	t.Register("self-evaluating?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(SelfEvaluating(args[0])), nil
	})
	t.Register("variable?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(Variable(args[0])), nil
	})
	t.Register("quoted?", unaryPred(Quoted))
	t.Register("text-of-quotation", unary(TextOfQuotation))
	t.Register("assignment?", unaryPred(Assignment))
	t.Register("assignment-variable", unary(AssignmentVariable))
	t.Register("assignment-value", unary(AssignmentValue))
	t.Register("definition?", unaryPred(Definition))
	t.Register("definition-variable", unary(DefinitionVariable))
	t.Register("definition-value", unary(DefinitionValue))
	t.Register("if?", unaryPred(If))
	t.Register("if-predicate", unary(IfPredicate))
	t.Register("if-consequent", unary(IfConsequent))
	t.Register("if-alternative", unary(IfAlternative))
	t.Register("lambda?", unaryPred(Lambda))
	t.Register("lambda-parameters", unary(LambdaParameters))
	t.Register("lambda-body", unary(LambdaBody))
	t.Register("begin?", unaryPred(Begin))
	t.Register("begin-actions", unary(BeginActions))
	t.Register("first-exp", unary(FirstExp))
	t.Register("rest-exps", unary(RestExps))
	t.Register("last-exp?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(LastExp(heap, args[0])), nil
	})
	t.Register("application?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(Application(args[0])), nil
	})
	t.Register("operator", unary(Operator))
	t.Register("operands", unary(Operands))
	t.Register("first-operand", unary(FirstOperand))
	t.Register("rest-operands", unary(RestOperands))
	t.Register("no-operands?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(NoOperands(args[0])), nil
	})
	t.Register("last-operand?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(LastOperand(heap, args[0])), nil
	})
	t.Register("empty-arglist", func(args []regmachine.Value) (regmachine.Value, error) {
		return EmptyArglist(), nil
	})
	t.Register("adjoin-arg", func(args []regmachine.Value) (regmachine.Value, error) {
		return AdjoinArg(heap, args[0], args[1]), nil
	})
	t.Register("cond?", unaryPred(Cond))
	t.Register("cond->if", unary(CondToIf))

	// Procedures.
	t.Register("make-procedure", func(args []regmachine.Value) (regmachine.Value, error) {
		return MakeProcedure(args[0], args[1], args[2]), nil
	})
	t.Register("compound-procedure?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(CompoundProcedure(args[0])), nil
	})
	t.Register("procedure-parameters", func(args []regmachine.Value) (regmachine.Value, error) {
		return ProcedureParameters(args[0]), nil
	})
	t.Register("procedure-body", func(args []regmachine.Value) (regmachine.Value, error) {
		return ProcedureBody(args[0]), nil
	})
	t.Register("procedure-environment", func(args []regmachine.Value) (regmachine.Value, error) {
		return ProcedureEnvironment(args[0]), nil
	})
	t.Register("primitive-procedure?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(PrimitiveProcedure(args[0])), nil
	})
	t.Register("apply-primitive-procedure", func(args []regmachine.Value) (regmachine.Value, error) {
		argList := heap.ListToSlice(args[1])
		return ApplyPrimitiveProcedure(heap, args[0], argList)
	})

	// Booleans.
	t.Register("true?", func(args []regmachine.Value) (regmachine.Value, error) { return regmachine.Bl(IsTrue(args[0])), nil })
	t.Register("false?", func(args []regmachine.Value) (regmachine.Value, error) { return regmachine.Bl(IsFalse(args[0])), nil })

	// unspecified is the value ev-assignment-1/ev-definition-1 leave in val;
	// Print renders it as "ok", matching spec.md 6's external syntax.
	t.Register("unspecified", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Unspecified, nil
	})

	// I/O and utility.
	t.Register("read", func(args []regmachine.Value) (regmachine.Value, error) {
		for {
			v, err := reader.ReadForm()
			if err == nil {
				return v, nil
			}
			if _, ok := err.(*regmachine.ReadError); ok {
				fmt.Fprintln(out, err) // report the malformed form and read the next one
				continue
			}
			return eofSentinel, nil // io.EOF or any stream error ends the REPL
		}
	})
	t.Register("eof-object?", func(args []regmachine.Value) (regmachine.Value, error) {
		return regmachine.Bl(regmachine.Eq(args[0], eofSentinel)), nil
	})
	t.Register("exit-form?", func(args []regmachine.Value) (regmachine.Value, error) {
		exp := args[0]
		if exp.Kind != regmachine.KindPair {
			return regmachine.Bl(false), nil
		}
		car, err := heap.Car(exp)
		if err != nil {
			return regmachine.Bl(false), nil
		}
		return regmachine.Bl(car.Kind == regmachine.KindSymbol && car.StrVal() == "exit"), nil
	})
	t.Register("print", func(args []regmachine.Value) (regmachine.Value, error) {
		fmt.Fprintln(out, regmachine.Print(heap, args[0]))
		return regmachine.Unspecified, nil
	})
	t.Register("newline", func(args []regmachine.Value) (regmachine.Value, error) {
		fmt.Fprintln(out)
		return regmachine.Unspecified, nil
	})

	return t
}
