package ir

import "fmt"

// Context is the single root of ownership: it owns the type registry and
// the function arena, and every handle handed out by it stays valid for the
// Context's lifetime. There is no other global state in this package.
type Context struct {
	types     *Types
	functions *Functions
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{types: NewTypes(), functions: NewFunctions()}
}

// Types returns the context's type registry.
func (c *Context) Types() *Types { return c.types }

// Functions returns the context's function arena.
func (c *Context) Functions() *Functions { return c.functions }

// CreateType interns a type kind.
func (c *Context) CreateType(kind TypeKind) Type {
	return c.types.Create(kind)
}

// CreateFunction allocates a new function with the given signature and
// returns its handle.
func (c *Context) CreateFunction(name string, paramTypes []Type, returnType *Type) Function {
	fd := NewFunctionData(name, paramTypes, returnType)
	return c.functions.Create(fd)
}

// Builder returns a FunctionBuilder over fn, sharing this context's type
// registry.
func (c *Context) Builder(fn Function) *FunctionBuilder {
	return NewFunctionBuilder(c.types, c.functions.Get(fn))
}

// ValidationError describes one structural-invariant violation found by
// Validate.
type ValidationError struct {
	Function string
	Block    Label
	Message  string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("function %s, %s: %s", e.Function, e.Block, e.Message)
}

// Validate walks every function's blocks and checks the structural
// invariants from SPEC_FULL.md §3/§4.6: exactly one terminator per block,
// that terminator last, and SSA uniqueness (no value is created by more than
// one instruction).
func (c *Context) Validate() []ValidationError {
	var errs []ValidationError
	for _, f := range c.functions.All() {
		fd := c.functions.Get(f)
		created := make(map[Value]bool)
		for _, l := range fd.Labels().Labels() {
			block := fd.Labels().Get(l)
			if len(block.Instructions) == 0 {
				errs = append(errs, ValidationError{fd.Name, l, "block has no instructions"})
				continue
			}
			terminators := 0
			for i, instr := range block.Instructions {
				if dst, ok := instr.Creates(); ok {
					if created[dst] {
						errs = append(errs, ValidationError{fd.Name, l, fmt.Sprintf("%s has more than one producer", dst)})
					}
					created[dst] = true
				}
				if instr.IsTerminator() {
					terminators++
					if i != len(block.Instructions)-1 {
						errs = append(errs, ValidationError{fd.Name, l, "terminator is not the last instruction"})
					}
				}
			}
			if terminators == 0 {
				errs = append(errs, ValidationError{fd.Name, l, "block has no terminator"})
			} else if terminators > 1 {
				errs = append(errs, ValidationError{fd.Name, l, "block has more than one terminator"})
			}
		}
	}
	return errs
}
