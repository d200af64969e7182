// Package pointer implements the pointer origin and escape analyses of
// SPEC_FULL.md §4.7, grounded on original_source/pointer_analysis.rs.
package pointer

import "github.com/hassandahiru/irc/internal/ir"

// Analysis holds the three per-function artifacts this pass computes.
type Analysis struct {
	// Creators maps every instruction-produced value to its definition site.
	Creators map[ir.Value]ir.Location

	// Origins maps every pointer-typed value to the pointer value
	// representing its ultimate allocation or boundary.
	Origins map[ir.Value]ir.Value

	// Escaped records, for every pointer-typed value with a true entry,
	// that the pointer escapes (per the per-use-site rules below).
	Escaped map[ir.Value]bool
}

// Analyze computes the pointer analysis for fn.
func Analyze(types *ir.Types, fn *ir.FunctionData) *Analysis {
	a := &Analysis{
		Creators: fn.Creators(),
		Origins:  make(map[ir.Value]ir.Value),
		Escaped:  make(map[ir.Value]bool),
	}

	order := fn.TopologicalSort()
	isPointer := func(v ir.Value) bool {
		return types.IsPointer(fn.Values().Get(v))
	}

	a.computeOrigins(fn, order, isPointer)
	a.computeEscape(fn, order, isPointer)
	return a
}

func (a *Analysis) computeOrigins(fn *ir.FunctionData, order []ir.Value, isPointer func(ir.Value) bool) {
	for _, v := range order {
		if !isPointer(v) {
			continue
		}
		loc, hasCreator := a.Creators[v]
		if !hasCreator {
			// Parameter or constant-backed: origin is itself.
			a.Origins[v] = v
			continue
		}
		instr := fn.Instruction(loc)
		switch instr.Kind {
		case ir.KindStackAlloc, ir.KindLoad, ir.KindCast, ir.KindCall:
			a.Origins[v] = v
		case ir.KindGetElementPtr:
			a.Origins[v] = a.Origins[instr.Ptr]
		case ir.KindSelect:
			onTrue, onFalse := instr.Lhs, instr.Rhs
			if a.Origins[onTrue] == a.Origins[onFalse] {
				a.Origins[v] = a.Origins[onTrue]
			} else {
				a.Origins[v] = v
			}
		default:
			a.Origins[v] = v
		}
	}
}

func (a *Analysis) computeEscape(fn *ir.FunctionData, order []ir.Value, isPointer func(ir.Value) bool) {
	users := fn.VariableUsers()

	for i := len(order) - 1; i >= 0; i-- {
		p := order[i]
		if !isPointer(p) {
			continue
		}
		for _, loc := range users[p] {
			instr := fn.Instruction(loc)
			if a.escapesAt(instr, p) {
				a.Escaped[p] = true
				break
			}
		}
	}
}

// escapesAt reports whether the use of p inside instr counts as an escape,
// per the per-instruction-kind rules of SPEC_FULL.md §4.7.
func (a *Analysis) escapesAt(instr ir.Instruction, p ir.Value) bool {
	switch instr.Kind {
	case ir.KindArithmeticBinary, ir.KindArithmeticUnary, ir.KindCast, ir.KindSelect, ir.KindCall:
		return true
	case ir.KindGetElementPtr:
		dst, _ := instr.Creates()
		return instr.Ptr != p && !a.Escaped[dst]
	case ir.KindStore:
		return instr.Value == p && instr.Ptr != p
	case ir.KindLoad, ir.KindIntCompare, ir.KindReturn:
		return false
	default:
		panic("pointer: unexpected use site for a pointer value")
	}
}
