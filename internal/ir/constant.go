package ir

// ConstantValue is the closed set of compile-time-known values a Constant
// can hold.
type ConstantValue struct {
	isFloat bool

	ty Type

	// Integer: the raw bit pattern, reinterpreted as signed/unsigned and
	// masked to width by callers per the type's num_bits.
	bits uint64

	// Float: IEEE-754 double, narrowed to the type's width by callers.
	f64 float64
}

// IntegerConstant builds an Integer(ty, value) ConstantValue. value is the
// raw bit pattern; callers that need a signed reading should sign-extend
// from the type's bit width themselves (see foldWidth in the optimizer).
func IntegerConstant(ty Type, value uint64) ConstantValue {
	return ConstantValue{ty: ty, bits: value}
}

// FloatConstant builds a Float(ty, value) ConstantValue.
func FloatConstant(ty Type, value float64) ConstantValue {
	return ConstantValue{ty: ty, isFloat: true, f64: value}
}

// IsFloat reports whether this constant holds a float payload.
func (c ConstantValue) IsFloat() bool { return c.isFloat }

// Type returns the constant's declared type.
func (c ConstantValue) Type() Type { return c.ty }

// Bits returns the raw integer bit pattern. Only meaningful when !IsFloat().
func (c ConstantValue) Bits() uint64 { return c.bits }

// Float64 returns the float payload. Only meaningful when IsFloat().
func (c ConstantValue) Float64() float64 { return c.f64 }

// ConstantData associates a ConstantValue with nothing further; the binding
// from a Value to its Constant lives in the owning Function's
// valueToConstant map, matching SPEC_FULL.md §4.2 ("an association between a
// Value and a ConstantValue").
type ConstantData struct {
	value ConstantValue
}

// Constants is the per-function dense arena of constant payloads.
type Constants struct {
	data []ConstantData
}

// NewConstants creates an empty constant arena.
func NewConstants() *Constants {
	return &Constants{data: make([]ConstantData, 0, 8)}
}

// Create allocates a fresh Constant holding value.
func (cs *Constants) Create(value ConstantValue) Constant {
	cs.data = append(cs.data, ConstantData{value: value})
	return Constant(len(cs.data) - 1)
}

// Get returns the payload of a constant.
func (cs *Constants) Get(c Constant) ConstantValue {
	return cs.data[c.id()].value
}
