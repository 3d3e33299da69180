package ece

import "github.com/sicplab/regmachine"

// Controller is the fixed SICP 5.4 controller: eval-dispatch, ev-*, and
// apply-dispatch/*-apply, expressed with the same []any{Assign(...),
// Test(...), ...} DSL pkg/examples uses for the Fibonacci/GCD/factorial
// machines. Nothing here is specific to any one Scheme program -- the
// controller is loaded once and interprets whatever exp/env hold, exactly
// as the book insists: the evaluator runs as data on the register machine,
// not as a tree-walker living in Go.
//
// Registers: exp, env, val, continue, proc, argl, unev.
var Controller = []any{
	"read-eval-print-loop",
	regmachine.Perform(regmachine.Op("initialize-stack")),
	regmachine.Assign("exp", regmachine.Op("read")),
	regmachine.Test(regmachine.Op("eof-object?", regmachine.Reg("exp"))),
	regmachine.Branch("ece-done"),
	regmachine.Test(regmachine.Op("exit-form?", regmachine.Reg("exp"))),
	regmachine.Branch("ece-done"),
	regmachine.Assign("env", regmachine.Op("get-global-environment")),
	regmachine.Assign("continue", regmachine.Lbl("print-result")),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"print-result",
	regmachine.Perform(regmachine.Op("print", regmachine.Reg("val"))),
	regmachine.Goto(regmachine.Lbl("read-eval-print-loop")),

	"ece-done",
	regmachine.Perform(regmachine.Op("print-stack-statistics")),

	"eval-dispatch",
	regmachine.Test(regmachine.Op("self-evaluating?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-self-eval"),
	regmachine.Test(regmachine.Op("variable?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-variable"),
	regmachine.Test(regmachine.Op("quoted?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-quoted"),
	regmachine.Test(regmachine.Op("assignment?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-assignment"),
	regmachine.Test(regmachine.Op("definition?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-definition"),
	regmachine.Test(regmachine.Op("if?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-if"),
	regmachine.Test(regmachine.Op("lambda?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-lambda"),
	regmachine.Test(regmachine.Op("begin?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-begin"),
	regmachine.Test(regmachine.Op("cond?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-cond"),
	regmachine.Test(regmachine.Op("application?", regmachine.Reg("exp"))),
	regmachine.Branch("ev-application"),
	regmachine.Goto(regmachine.Lbl("unknown-expression-type")),

	"ev-self-eval",
	regmachine.Assign("val", regmachine.Reg("exp")),
	regmachine.Goto(regmachine.Reg("continue")),

	"ev-variable",
	regmachine.Assign("val", regmachine.Op("lookup-variable-value", regmachine.Reg("exp"), regmachine.Reg("env"))),
	regmachine.Goto(regmachine.Reg("continue")),

	"ev-quoted",
	regmachine.Assign("val", regmachine.Op("text-of-quotation", regmachine.Reg("exp"))),
	regmachine.Goto(regmachine.Reg("continue")),

	"ev-lambda",
	regmachine.Assign("unev", regmachine.Op("lambda-parameters", regmachine.Reg("exp"))),
	regmachine.Assign("exp", regmachine.Op("lambda-body", regmachine.Reg("exp"))),
	regmachine.Assign("val", regmachine.Op("make-procedure", regmachine.Reg("unev"), regmachine.Reg("exp"), regmachine.Reg("env"))),
	regmachine.Goto(regmachine.Reg("continue")),

	"ev-application",
	regmachine.Save("continue"),
	regmachine.Save("env"),
	regmachine.Assign("unev", regmachine.Op("operands", regmachine.Reg("exp"))),
	regmachine.Save("unev"),
	regmachine.Assign("exp", regmachine.Op("operator", regmachine.Reg("exp"))),
	regmachine.Assign("continue", regmachine.Lbl("ev-appl-did-operator")),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-appl-did-operator",
	regmachine.Restore("unev"),
	regmachine.Restore("env"),
	regmachine.Assign("argl", regmachine.Op("empty-arglist")),
	regmachine.Assign("proc", regmachine.Reg("val")),
	regmachine.Test(regmachine.Op("no-operands?", regmachine.Reg("unev"))),
	regmachine.Branch("apply-dispatch"),
	regmachine.Save("proc"),

	"ev-appl-operand-loop",
	regmachine.Save("argl"),
	regmachine.Assign("exp", regmachine.Op("first-operand", regmachine.Reg("unev"))),
	regmachine.Test(regmachine.Op("last-operand?", regmachine.Reg("unev"))),
	regmachine.Branch("ev-appl-last-arg"),
	regmachine.Save("env"),
	regmachine.Save("unev"),
	regmachine.Assign("continue", regmachine.Lbl("ev-appl-accumulate-arg")),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-appl-accumulate-arg",
	regmachine.Restore("unev"),
	regmachine.Restore("env"),
	regmachine.Restore("argl"),
	regmachine.Assign("argl", regmachine.Op("adjoin-arg", regmachine.Reg("val"), regmachine.Reg("argl"))),
	regmachine.Assign("unev", regmachine.Op("rest-operands", regmachine.Reg("unev"))),
	regmachine.Goto(regmachine.Lbl("ev-appl-operand-loop")),

	"ev-appl-last-arg",
	regmachine.Assign("continue", regmachine.Lbl("ev-appl-accum-last-arg")),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-appl-accum-last-arg",
	regmachine.Restore("argl"),
	regmachine.Assign("argl", regmachine.Op("adjoin-arg", regmachine.Reg("val"), regmachine.Reg("argl"))),
	regmachine.Restore("proc"),
	regmachine.Goto(regmachine.Lbl("apply-dispatch")),

	"apply-dispatch",
	regmachine.Test(regmachine.Op("primitive-procedure?", regmachine.Reg("proc"))),
	regmachine.Branch("primitive-apply"),
	regmachine.Test(regmachine.Op("compound-procedure?", regmachine.Reg("proc"))),
	regmachine.Branch("compound-apply"),
	regmachine.Goto(regmachine.Lbl("unknown-procedure-type")),

	"primitive-apply",
	regmachine.Assign("val", regmachine.Op("apply-primitive-procedure", regmachine.Reg("proc"), regmachine.Reg("argl"))),
	regmachine.Restore("continue"),
	regmachine.Goto(regmachine.Reg("continue")),

	"compound-apply",
	regmachine.Assign("unev", regmachine.Op("procedure-parameters", regmachine.Reg("proc"))),
	regmachine.Assign("env", regmachine.Op("procedure-environment", regmachine.Reg("proc"))),
	regmachine.Assign("env", regmachine.Op("extend-environment", regmachine.Reg("unev"), regmachine.Reg("argl"), regmachine.Reg("env"))),
	regmachine.Assign("unev", regmachine.Op("procedure-body", regmachine.Reg("proc"))),
	regmachine.Goto(regmachine.Lbl("ev-sequence")),

	"ev-begin",
	regmachine.Assign("unev", regmachine.Op("begin-actions", regmachine.Reg("exp"))),
	regmachine.Save("continue"),
	regmachine.Goto(regmachine.Lbl("ev-sequence")),

	"ev-sequence",
	regmachine.Assign("exp", regmachine.Op("first-exp", regmachine.Reg("unev"))),
	regmachine.Test(regmachine.Op("last-exp?", regmachine.Reg("unev"))),
	regmachine.Branch("ev-sequence-last-exp"),
	regmachine.Save("unev"),
	regmachine.Save("env"),
	regmachine.Assign("continue", regmachine.Lbl("ev-sequence-continue")),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-sequence-continue",
	regmachine.Restore("env"),
	regmachine.Restore("unev"),
	regmachine.Assign("unev", regmachine.Op("rest-exps", regmachine.Reg("unev"))),
	regmachine.Goto(regmachine.Lbl("ev-sequence")),

	"ev-sequence-last-exp",
	regmachine.Restore("continue"),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-if",
	regmachine.Save("exp"),
	regmachine.Save("env"),
	regmachine.Save("continue"),
	regmachine.Assign("continue", regmachine.Lbl("ev-if-decide")),
	regmachine.Assign("exp", regmachine.Op("if-predicate", regmachine.Reg("exp"))),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-if-decide",
	regmachine.Restore("continue"),
	regmachine.Restore("env"),
	regmachine.Restore("exp"),
	regmachine.Test(regmachine.Op("true?", regmachine.Reg("val"))),
	regmachine.Branch("ev-if-consequent"),

	"ev-if-alternative",
	regmachine.Assign("exp", regmachine.Op("if-alternative", regmachine.Reg("exp"))),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-if-consequent",
	regmachine.Assign("exp", regmachine.Op("if-consequent", regmachine.Reg("exp"))),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-assignment",
	regmachine.Assign("unev", regmachine.Op("assignment-variable", regmachine.Reg("exp"))),
	regmachine.Save("unev"),
	regmachine.Assign("exp", regmachine.Op("assignment-value", regmachine.Reg("exp"))),
	regmachine.Save("env"),
	regmachine.Save("continue"),
	regmachine.Assign("continue", regmachine.Lbl("ev-assignment-1")),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-assignment-1",
	regmachine.Restore("continue"),
	regmachine.Restore("env"),
	regmachine.Restore("unev"),
	regmachine.Perform(regmachine.Op("set-variable-value!", regmachine.Reg("unev"), regmachine.Reg("val"), regmachine.Reg("env"))),
	regmachine.Assign("val", regmachine.Op("unspecified")),
	regmachine.Goto(regmachine.Reg("continue")),

	"ev-definition",
	regmachine.Assign("unev", regmachine.Op("definition-variable", regmachine.Reg("exp"))),
	regmachine.Save("unev"),
	regmachine.Assign("exp", regmachine.Op("definition-value", regmachine.Reg("exp"))),
	regmachine.Save("env"),
	regmachine.Save("continue"),
	regmachine.Assign("continue", regmachine.Lbl("ev-definition-1")),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"ev-definition-1",
	regmachine.Restore("continue"),
	regmachine.Restore("env"),
	regmachine.Restore("unev"),
	regmachine.Perform(regmachine.Op("define-variable!", regmachine.Reg("unev"), regmachine.Reg("val"), regmachine.Reg("env"))),
	regmachine.Assign("val", regmachine.Op("unspecified")),
	regmachine.Goto(regmachine.Reg("continue")),

	"ev-cond",
	regmachine.Assign("exp", regmachine.Op("cond->if", regmachine.Reg("exp"))),
	regmachine.Goto(regmachine.Lbl("eval-dispatch")),

	"unknown-expression-type",
	regmachine.Perform(regmachine.Op("print", regmachine.Reg("exp"))),
	regmachine.Goto(regmachine.Lbl("read-eval-print-loop")),

	"unknown-procedure-type",
	regmachine.Perform(regmachine.Op("print", regmachine.Reg("proc"))),
	regmachine.Goto(regmachine.Lbl("read-eval-print-loop")),
}
