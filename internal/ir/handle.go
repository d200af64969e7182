// Package ir implements the intermediate representation for the compiler.
//
// WHAT IS IR?
// IR is a low-level representation of the program that sits between the AST
// and machine code. It's designed to be:
// 1. Easy to analyze and optimize
// 2. Independent of source language and target machine
// 3. Explicit about control flow and operations
//
// DESIGN PHILOSOPHY:
// This package is an SSA-form, handle-addressed IR. Rather than linking
// entities together with pointers (as a tree-shaped AST would), every entity
// — type, value, constant, block, function — is an opaque integer handle
// that indexes into a dense vector owned by a Context or a Function. This
// mirrors how arena-based compilers are usually written:
// - Handles are cheap to copy, compare, and hash
// - The owning arena can be walked, snapshotted, or replaced wholesale
// - There is no dangling-pointer class of bug; a stale handle from a
//   different Context is a programmer error, not a crash waiting to happen
//
// WHY SSA FORM?
// In SSA, each value is defined exactly once. This makes optimization much
// easier: data flow is explicit, dead code elimination is a pure use-count
// walk, and constant propagation doesn't need to reason about reassignment.
package ir

import "fmt"

// Type is a handle into a Types registry, identifying an interned TypeKind.
type Type uint32

// Value is a handle into a Function's value table. Every Value carries
// exactly one Type and, per SSA, is produced at exactly one definition site
// (an instruction's destination, a parameter, or a constant binding).
type Value uint32

// Constant is a handle into a Function's constant pool, associating a
// ConstantValue with the Value it backs.
type Constant uint32

// Label identifies a basic block within a Function.
type Label uint32

// Function is a handle into a Context's function table.
type Function uint32

func (t Type) String() string     { return fmt.Sprintf("t%d", uint32(t)) }
func (v Value) String() string    { return fmt.Sprintf("v%d", uint32(v)) }
func (l Label) String() string    { return fmt.Sprintf("block_%d", uint32(l)) }
func (f Function) String() string { return fmt.Sprintf("fn%d", uint32(f)) }

// id returns the handle's dense-array index.
func (t Type) id() int { return int(t) }
func (v Value) id() int { return int(v) }
func (c Constant) id() int { return int(c) }
func (l Label) id() int { return int(l) }
func (f Function) id() int { return int(f) }

// invalidValue is returned by queries that have no answer (e.g. a
// terminator's creates()).
const invalidValue Value = ^Value(0)

// IsValid reports whether v was actually produced by something, as opposed
// to being the all-bits-set "no destination" sentinel used internally by
// instructions that don't create a value.
func (v Value) IsValid() bool { return v != invalidValue }
