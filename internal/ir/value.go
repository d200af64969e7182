package ir

// ValueData holds the one piece of information every Value carries: its
// Type. Everything else about a value — whether it is a parameter, a
// constant, or the destination of some instruction — is derived by asking
// the owning Function, not stored here.
type ValueData struct {
	ty Type
}

// Values is the per-function dense arena of SSA values.
//
// DESIGN CHOICE: Use a single flat Value handle space rather than separate
// Variable/Constant/Parameter/Temporary kinds (contrast the teacher's
// ValueKind enum) because a handle-arena IR determines a value's role
// structurally: parameters live in Function.parameters, constant-backed
// values live in Function.valueToConstant, and everything else is produced
// by exactly one instruction. A uniform Value type keeps every operand slot
// in the instruction set the same shape.
type Values struct {
	data []ValueData
}

// NewValues creates an empty value arena.
func NewValues() *Values {
	return &Values{data: make([]ValueData, 0, 16)}
}

// Alloc allocates a fresh value of the given type.
func (vs *Values) Alloc(ty Type) Value {
	vs.data = append(vs.data, ValueData{ty: ty})
	return Value(len(vs.data) - 1)
}

// Get returns the type of a value.
func (vs *Values) Get(v Value) Type {
	return vs.data[v.id()].ty
}

// Len returns the number of values allocated so far.
func (vs *Values) Len() int { return len(vs.data) }
