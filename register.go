package regmachine

// Register is a named mutable cell holding exactly one Value. Registers are
// fixed for the lifetime of a Machine; see NewMachine.
type Register struct {
	Name string

	value   Value
	tracing bool
	trace   []Value
}

// NewRegister returns a Register named name, initially Unspecified.
func NewRegister(name string) *Register {
	return &Register{Name: name, value: Unspecified}
}

// Get returns the register's current value.
func (r *Register) Get() Value { return r.value }

// Set stores v. If tracing is enabled, the assignment is recorded.
func (r *Register) Set(v Value) {
	r.value = v
	if r.tracing {
		r.trace = append(r.trace, v)
	}
}

// SetTracing turns assignment tracing on or off.
func (r *Register) SetTracing(on bool) { r.tracing = on }

// Trace returns every value this register has been assigned while tracing
// was enabled, oldest first.
func (r *Register) Trace() []Value { return r.trace }
