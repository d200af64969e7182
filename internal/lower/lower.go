// Package lower turns a type-checked AST into calls against the
// ir.FunctionBuilder API: one ir.Function per ast.FuncDecl, with every
// local variable (parameters included) backed by a stack slot so that
// if/while/for merge points never need a Phi instruction — this IR's
// instruction set does not have one; control-flow merges are expressed
// structurally through block/branch shape instead, and a variable read
// after a merge is simply a Load from its slot.
//
// Lowering performs no type inference of its own: it consumes the symbol
// and type information the semantic analyzer already computed (Analyzer's
// exprTypes map, via GetExprType, and the resolved *types.FunctionType
// carried by each function's symbol) and translates already-checked AST
// shapes directly into builder calls.
//
// Grounded on internal/semantic's own visitor-over-ast.Visitor structure:
// Lowerer implements ast.Visitor the same way Analyzer does, one Visit
// method per node kind, rather than a type-switch dispatcher.
package lower

import (
	"fmt"

	"github.com/hassandahiru/irc/internal/ir"
	"github.com/hassandahiru/irc/internal/parser/ast"
	"github.com/hassandahiru/irc/internal/semantic"
	"github.com/hassandahiru/irc/internal/semantic/types"
)

// Lowerer walks a type-checked file and builds IR for every function
// declaration it finds. One Lowerer lowers one file; construct a fresh one
// per file.
type Lowerer struct {
	ctx      *ir.Context
	analyzer *semantic.Analyzer

	funcs map[string]ir.Function

	fn      *ir.FunctionData
	builder *ir.FunctionBuilder

	// lastBlock mirrors the builder's current insertion point; the builder
	// itself does not expose a getter, so lowering tracks it here to detect
	// a fallthrough block with no terminator at the end of a function.
	lastBlock ir.Label

	// scopes is a stack of lexical scopes; each maps a source variable name
	// to the stack slot (a Pointer(T)-typed Value) backing it.
	scopes []map[string]ir.Value

	breakTargets    []ir.Label
	continueTargets []ir.Label

	errs []error
}

// New creates a Lowerer over ctx, consuming type information already
// computed by analyzer (which must have analyzer.Analyze(file) already
// called on the same file that will be passed to LowerFile).
func New(ctx *ir.Context, analyzer *semantic.Analyzer) *Lowerer {
	return &Lowerer{
		ctx:      ctx,
		analyzer: analyzer,
		funcs:    make(map[string]ir.Function),
	}
}

// LowerFile lowers every function declaration in file, returning any
// lowering errors encountered (an empty slice means success). Struct and
// type declarations are consumed only for their type information; this
// instruction set has no notion of a global, so top-level VarDecls are not
// lowered to IR entities.
func (l *Lowerer) LowerFile(file *ast.File) []error {
	l.errs = nil

	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			if err := l.declareFunction(fd); err != nil {
				l.errs = append(l.errs, err)
			}
		}
	}

	for _, decl := range file.Decls {
		if fd, ok := decl.(*ast.FuncDecl); ok {
			if fd.Body == nil {
				continue
			}
			if err := l.lowerFunction(fd); err != nil {
				l.errs = append(l.errs, err)
			}
		}
	}

	return l.errs
}

// FunctionOf returns the ir.Function handle a declared name was lowered
// to, for tests and callers that need to look up a specific function by
// source name after LowerFile.
func (l *Lowerer) FunctionOf(name string) (ir.Function, bool) {
	f, ok := l.funcs[name]
	return f, ok
}

func (l *Lowerer) declareFunction(decl *ast.FuncDecl) error {
	symbol := l.analyzer.GetScope().LookupLocal(decl.Name.Name)
	if symbol == nil {
		return fmt.Errorf("lower: no symbol for function %s", decl.Name.Name)
	}
	funcType, ok := symbol.Type.(*types.FunctionType)
	if !ok {
		return fmt.Errorf("lower: %s does not have a resolved function type", decl.Name.Name)
	}

	paramTypes := make([]ir.Type, len(funcType.Parameters))
	for i, pt := range funcType.Parameters {
		irTy, err := l.irType(pt)
		if err != nil {
			return fmt.Errorf("lower: function %s parameter %d: %w", decl.Name.Name, i, err)
		}
		paramTypes[i] = irTy
	}

	var returnType *ir.Type
	if !funcType.ReturnType.Equals(types.Void) {
		irTy, err := l.irType(funcType.ReturnType)
		if err != nil {
			return fmt.Errorf("lower: function %s return type: %w", decl.Name.Name, err)
		}
		returnType = &irTy
	}

	l.funcs[decl.Name.Name] = l.ctx.CreateFunction(decl.Name.Name, paramTypes, returnType)
	return nil
}

func (l *Lowerer) lowerFunction(decl *ast.FuncDecl) error {
	handle := l.funcs[decl.Name.Name]
	l.fn = l.ctx.Functions().Get(handle)
	l.builder = l.ctx.Builder(handle)
	l.scopes = []map[string]ir.Value{{}}
	l.breakTargets = nil
	l.continueTargets = nil

	l.setInsertPoint(l.fn.Entry())

	for i, param := range decl.Params {
		paramValue := l.builder.Parameter(i)
		slot := l.builder.StackAlloc(l.fn.ParamTypes[i], 1)
		l.builder.Store(slot, paramValue)
		l.defineLocal(param.Name.Name, slot)
	}

	if err := l.lowerBlockStatements(decl.Body); err != nil {
		return err
	}

	// A block left without an explicit terminator (a void function falling
	// off the end of its body) gets an implicit void return, matching how a
	// source-level "missing return" in a void function is not an error.
	l.terminateFallthroughWithReturn()

	return firstError(l.errs)
}

// terminateFallthroughWithReturn appends a void Return to the current
// insertion block if it has no terminator yet.
func (l *Lowerer) terminateFallthroughWithReturn() {
	block := l.fn.Labels().Get(l.lastBlock)
	if len(block.Instructions) > 0 && block.Instructions[len(block.Instructions)-1].IsTerminator() {
		return
	}
	l.builder.Ret(nil)
}

func (l *Lowerer) setInsertPoint(lbl ir.Label) {
	l.lastBlock = lbl
	l.builder.SetInsertPoint(lbl)
}

func (l *Lowerer) pushScope() {
	l.scopes = append(l.scopes, map[string]ir.Value{})
}

func (l *Lowerer) popScope() {
	l.scopes = l.scopes[:len(l.scopes)-1]
}

func (l *Lowerer) defineLocal(name string, slot ir.Value) {
	l.scopes[len(l.scopes)-1][name] = slot
}

func (l *Lowerer) lookupLocal(name string) (ir.Value, bool) {
	for i := len(l.scopes) - 1; i >= 0; i-- {
		if slot, ok := l.scopes[i][name]; ok {
			return slot, true
		}
	}
	return ir.Value(0), false
}

// irType maps a resolved semantic type to the IR's type model. Arrays,
// strings, function values, and nil are outside the set §4.13 commits to
// (integer/float/bool/pointer/struct-typed expressions only).
func (l *Lowerer) irType(t types.Type) (ir.Type, error) {
	switch tt := t.(type) {
	case *types.IntType:
		return l.ctx.CreateType(ir.Integer(64, true)), nil
	case *types.CharType:
		return l.ctx.CreateType(ir.Integer(8, false)), nil
	case *types.BoolType:
		return l.ctx.CreateType(ir.Integer(1, false)), nil
	case *types.FloatType:
		return l.ctx.CreateType(ir.Float(64)), nil
	case *types.StructType:
		fieldTypes := make([]ir.Type, len(tt.Fields))
		for i, f := range tt.Fields {
			ft, err := l.irType(f.Type)
			if err != nil {
				return 0, fmt.Errorf("struct %s field %s: %w", tt.Name, f.Name, err)
			}
			fieldTypes[i] = ft
		}
		return l.ctx.CreateType(ir.StructOf(fieldTypes...)), nil
	default:
		return 0, fmt.Errorf("type %s has no representation in this instruction set", t.String())
	}
}

// exprType returns the analyzer's resolved type for expr, per §4.13's
// instruction that lowering performs no type inference of its own.
func (l *Lowerer) exprType(expr ast.Expr) types.Type {
	return l.analyzer.GetExprType(expr)
}

// boolType is the 1-bit integer every condition and comparison result is
// typed as.
func (l *Lowerer) boolType() ir.Type {
	return l.ctx.CreateType(ir.Integer(1, false))
}

func firstError(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return errs[0]
}
