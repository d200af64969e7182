package ir

import "fmt"

// TypeKind is the closed set of structural type shapes this IR understands.
//
// DESIGN CHOICE: num_bits/is_signed integers rather than an enum of named
// widths (u8/u16/.../i64). The former lets the folder and builder treat
// "integer of width N" uniformly instead of dispatching on a closed set of
// named cases, which is what the folding rules in §4.8 actually need.
type TypeKind struct {
	kind typeKindTag

	// Integer, Float
	numBits  uint32
	isSigned bool

	// Pointer
	pointee Type

	// Struct
	fields []Type
}

type typeKindTag uint8

const (
	typeInteger typeKindTag = iota
	typeFloat
	typePointer
	typeStruct
)

// IsInteger reports whether this is an Integer(num_bits, is_signed) kind.
func (k TypeKind) IsInteger() bool { return k.kind == typeInteger }

// IsFloat reports whether this is a Float(num_bits) kind.
func (k TypeKind) IsFloat() bool { return k.kind == typeFloat }

// IsPointer reports whether this is a Pointer(T) kind.
func (k TypeKind) IsPointer() bool { return k.kind == typePointer }

// IsStruct reports whether this is a Struct(...) kind.
func (k TypeKind) IsStruct() bool { return k.kind == typeStruct }

// NumBits returns the bit width of an Integer or Float kind. Panics on any
// other kind; callers are expected to have checked IsInteger/IsFloat first.
func (k TypeKind) NumBits() uint32 {
	if k.kind != typeInteger && k.kind != typeFloat {
		panic("ir: NumBits of a non-numeric TypeKind")
	}
	return k.numBits
}

// IsSigned returns the signedness of an Integer kind.
func (k TypeKind) IsSigned() bool {
	if k.kind != typeInteger {
		panic("ir: IsSigned of a non-integer TypeKind")
	}
	return k.isSigned
}

// Pointee returns the pointed-to type of a Pointer kind.
func (k TypeKind) Pointee() Type {
	if k.kind != typePointer {
		panic("ir: Pointee of a non-pointer TypeKind")
	}
	return k.pointee
}

// Fields returns the field types of a Struct kind, in declaration order.
func (k TypeKind) Fields() []Type {
	if k.kind != typeStruct {
		panic("ir: Fields of a non-struct TypeKind")
	}
	return k.fields
}

// Integer builds an Integer(num_bits, is_signed) TypeKind.
func Integer(numBits uint32, isSigned bool) TypeKind {
	return TypeKind{kind: typeInteger, numBits: numBits, isSigned: isSigned}
}

// Float builds a Float(num_bits) TypeKind.
func Float(numBits uint32) TypeKind {
	return TypeKind{kind: typeFloat, numBits: numBits}
}

// PointerTo builds a Pointer(ty) TypeKind.
func PointerTo(ty Type) TypeKind {
	return TypeKind{kind: typePointer, pointee: ty}
}

// StructOf builds a Struct(fields...) TypeKind.
func StructOf(fields ...Type) TypeKind {
	return TypeKind{kind: typeStruct, fields: append([]Type(nil), fields...)}
}

// Types is the type registry: an append-only arena of interned TypeKinds.
//
// Deduplication is not required for correctness (two equal-but-distinct
// handles are structurally equal per TypesMatch) but create() dedupes
// anyway, which keeps textual dumps and handle counts small.
type Types struct {
	kinds []TypeKind
}

// NewTypes creates an empty type registry.
func NewTypes() *Types {
	return &Types{kinds: make([]TypeKind, 0, 16)}
}

// Create interns kind and returns its handle, reusing an existing handle if
// an identical TypeKind was already created.
func (t *Types) Create(kind TypeKind) Type {
	for i, existing := range t.kinds {
		if typeKindsEqual(existing, kind) {
			return Type(i)
		}
	}
	t.kinds = append(t.kinds, kind)
	return Type(len(t.kinds) - 1)
}

// Get returns the TypeKind a handle refers to.
func (t *Types) Get(ty Type) TypeKind {
	return t.kinds[ty.id()]
}

// TypesMatch reports whether a and b are structurally identical.
func (t *Types) TypesMatch(a, b Type) bool {
	if a == b {
		return true
	}
	return typeKindsEqual(t.Get(a), t.Get(b))
}

// IsPointer reports whether ty is a Pointer(...) type.
func (t *Types) IsPointer(ty Type) bool { return t.Get(ty).IsPointer() }

// IsStruct reports whether ty is a Struct(...) type.
func (t *Types) IsStruct(ty Type) bool { return t.Get(ty).IsStruct() }

// IsArithmetic reports whether ty can be an ArithmeticBinary/Unary operand.
// Only integers qualify; float arithmetic is not modeled by this instruction
// set (SPEC_FULL.md §4.3 restricts ArithmeticBinary/Unary to integer types).
func (t *Types) IsArithmetic(ty Type) bool { return t.Get(ty).IsInteger() }

// StripPointer returns the pointee of a Pointer(T) type, T.
func (t *Types) StripPointer(ty Type) Type {
	k := t.Get(ty)
	if !k.IsPointer() {
		panic("ir: StripPointer of a non-pointer type")
	}
	return k.Pointee()
}

// AddPointer returns (and interns, if new) Pointer(ty).
func (t *Types) AddPointer(ty Type) Type {
	return t.Create(PointerTo(ty))
}

func typeKindsEqual(a, b TypeKind) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case typeInteger:
		return a.numBits == b.numBits && a.isSigned == b.isSigned
	case typeFloat:
		return a.numBits == b.numBits
	case typePointer:
		return a.pointee == b.pointee
	case typeStruct:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i] != b.fields[i] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a type the way the textual dump grammar requires: u<bits>,
// i<bits>, f<bits>, with a leading '*' per level of indirection, or a tuple
// form for structs.
func (t *Types) String(ty Type) string {
	indirection := 0
	cur := ty
	for t.Get(cur).IsPointer() {
		indirection++
		cur = t.Get(cur).Pointee()
	}
	ptr := ""
	for i := 0; i < indirection; i++ {
		ptr += "*"
	}

	k := t.Get(cur)
	switch {
	case k.IsInteger():
		if k.IsSigned() {
			return fmt.Sprintf("%si%d", ptr, k.NumBits())
		}
		return fmt.Sprintf("%su%d", ptr, k.NumBits())
	case k.IsFloat():
		return fmt.Sprintf("%sf%d", ptr, k.NumBits())
	case k.IsStruct():
		parts := "{"
		for i, f := range k.Fields() {
			if i > 0 {
				parts += ", "
			}
			parts += t.String(f)
		}
		parts += "}"
		return ptr + parts
	default:
		return ptr + "?"
	}
}
