package lower

import (
	"fmt"

	"github.com/hassandahiru/irc/internal/ir"
	"github.com/hassandahiru/irc/internal/parser/ast"
	"github.com/hassandahiru/irc/internal/semantic/types"
)

// terminateWithBranch appends a Branch to target on the current insertion
// block unless it already ends in a terminator (e.g. a return or another
// branch reached through an early exit inside the block).
func (l *Lowerer) terminateWithBranch(target ir.Label) {
	block := l.fn.Labels().Get(l.lastBlock)
	if len(block.Instructions) > 0 && block.Instructions[len(block.Instructions)-1].IsTerminator() {
		return
	}
	l.builder.Branch(target)
}

// lowerBlockStatements lowers each statement of block in order, within the
// caller's current scope; callers that want block-local declarations
// discarded on exit wrap this with pushScope/popScope themselves.
func (l *Lowerer) lowerBlockStatements(block *ast.BlockStmt) error {
	for _, stmt := range block.Statements {
		if err := stmt.Accept(l); err != nil {
			return err
		}
	}
	return nil
}

func (l *Lowerer) VisitExprStmt(stmt *ast.ExprStmt) error {
	_, err := stmt.Expression.Accept(l)
	return err
}

func (l *Lowerer) VisitBlockStmt(stmt *ast.BlockStmt) error {
	l.pushScope()
	defer l.popScope()
	return l.lowerBlockStatements(stmt)
}

func (l *Lowerer) VisitIfStmt(stmt *ast.IfStmt) error {
	cond, err := l.lowerExprValue(stmt.Condition)
	if err != nil {
		return err
	}

	thenLabel := l.builder.CreateLabel("if_then")
	elseLabel := l.builder.CreateLabel("if_else")
	mergeLabel := l.builder.CreateLabel("if_merge")

	l.builder.BranchConditional(cond, thenLabel, elseLabel)

	l.setInsertPoint(thenLabel)
	l.pushScope()
	if err := l.lowerBlockStatements(stmt.ThenBranch); err != nil {
		l.popScope()
		return err
	}
	l.popScope()
	l.terminateWithBranch(mergeLabel)

	l.setInsertPoint(elseLabel)
	if stmt.ElseBranch != nil {
		if err := stmt.ElseBranch.Accept(l); err != nil {
			return err
		}
	}
	l.terminateWithBranch(mergeLabel)

	l.setInsertPoint(mergeLabel)
	return nil
}

func (l *Lowerer) VisitWhileStmt(stmt *ast.WhileStmt) error {
	condLabel := l.builder.CreateLabel("while_cond")
	bodyLabel := l.builder.CreateLabel("while_body")
	exitLabel := l.builder.CreateLabel("while_exit")

	l.terminateWithBranch(condLabel)

	l.setInsertPoint(condLabel)
	cond, err := l.lowerExprValue(stmt.Condition)
	if err != nil {
		return err
	}
	l.builder.BranchConditional(cond, bodyLabel, exitLabel)

	l.setInsertPoint(bodyLabel)
	l.breakTargets = append(l.breakTargets, exitLabel)
	l.continueTargets = append(l.continueTargets, condLabel)
	l.pushScope()
	bodyErr := l.lowerBlockStatements(stmt.Body)
	l.popScope()
	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.continueTargets = l.continueTargets[:len(l.continueTargets)-1]
	if bodyErr != nil {
		return bodyErr
	}
	l.terminateWithBranch(condLabel)

	l.setInsertPoint(exitLabel)
	return nil
}

func (l *Lowerer) VisitForStmt(stmt *ast.ForStmt) error {
	l.pushScope()
	defer l.popScope()

	if stmt.Init != nil {
		if err := stmt.Init.Accept(l); err != nil {
			return err
		}
	}

	condLabel := l.builder.CreateLabel("for_cond")
	bodyLabel := l.builder.CreateLabel("for_body")
	postLabel := l.builder.CreateLabel("for_post")
	exitLabel := l.builder.CreateLabel("for_exit")

	l.terminateWithBranch(condLabel)

	l.setInsertPoint(condLabel)
	if stmt.Condition != nil {
		cond, err := l.lowerExprValue(stmt.Condition)
		if err != nil {
			return err
		}
		l.builder.BranchConditional(cond, bodyLabel, exitLabel)
	} else {
		l.builder.Branch(bodyLabel)
	}

	l.setInsertPoint(bodyLabel)
	l.breakTargets = append(l.breakTargets, exitLabel)
	l.continueTargets = append(l.continueTargets, postLabel)
	l.pushScope()
	bodyErr := l.lowerBlockStatements(stmt.Body)
	l.popScope()
	l.breakTargets = l.breakTargets[:len(l.breakTargets)-1]
	l.continueTargets = l.continueTargets[:len(l.continueTargets)-1]
	if bodyErr != nil {
		return bodyErr
	}
	l.terminateWithBranch(postLabel)

	l.setInsertPoint(postLabel)
	if stmt.Post != nil {
		if err := stmt.Post.Accept(l); err != nil {
			return err
		}
	}
	l.terminateWithBranch(condLabel)

	l.setInsertPoint(exitLabel)
	return nil
}

func (l *Lowerer) VisitReturnStmt(stmt *ast.ReturnStmt) error {
	if stmt.Value == nil {
		l.builder.Ret(nil)
		return nil
	}
	v, err := l.lowerExprValue(stmt.Value)
	if err != nil {
		return err
	}
	l.builder.Ret(&v)
	return nil
}

func (l *Lowerer) VisitBreakStmt(stmt *ast.BreakStmt) error {
	if len(l.breakTargets) == 0 {
		return fmt.Errorf("lower: break outside of a loop")
	}
	l.builder.Branch(l.breakTargets[len(l.breakTargets)-1])
	return nil
}

func (l *Lowerer) VisitContinueStmt(stmt *ast.ContinueStmt) error {
	if len(l.continueTargets) == 0 {
		return fmt.Errorf("lower: continue outside of a loop")
	}
	l.builder.Branch(l.continueTargets[len(l.continueTargets)-1])
	return nil
}

func (l *Lowerer) VisitSwitchStmt(stmt *ast.SwitchStmt) error {
	return fmt.Errorf("lower: switch statements are not supported by this lowering")
}

func (l *Lowerer) VisitVarDecl(decl *ast.VarDecl) error {
	var resolved types.Type
	if decl.Type != nil {
		t, err := l.resolveTypeExpr(decl.Type)
		if err != nil {
			return err
		}
		resolved = t
	} else if decl.Initializer != nil {
		resolved = l.exprType(decl.Initializer)
	} else {
		return fmt.Errorf("lower: variable declaration has no type and no initializer")
	}

	irTy, err := l.irType(resolved)
	if err != nil {
		return err
	}

	var initVal ir.Value
	haveInit := false
	if decl.Initializer != nil {
		v, err := l.lowerExprValue(decl.Initializer)
		if err != nil {
			return err
		}
		initVal = v
		haveInit = true
	}

	for _, name := range decl.Names {
		slot := l.builder.StackAlloc(irTy, 1)
		if haveInit {
			l.builder.Store(slot, initVal)
		} else {
			zero, err := l.zeroValue(irTy)
			if err != nil {
				return err
			}
			l.builder.Store(slot, zero)
		}
		l.defineLocal(name.Name, slot)
	}

	return nil
}

func (l *Lowerer) VisitFuncDecl(decl *ast.FuncDecl) error {
	return fmt.Errorf("lower: nested function declarations are not supported")
}

func (l *Lowerer) VisitTypeDecl(decl *ast.TypeDecl) error {
	return nil
}

func (l *Lowerer) VisitStructDecl(decl *ast.StructDecl) error {
	return nil
}

// zeroValue builds the default-initialized constant for ty, used when a
// VarDecl has no initializer.
func (l *Lowerer) zeroValue(ty ir.Type) (ir.Value, error) {
	kind := l.ctx.Types().Get(ty)
	switch {
	case kind.IsInteger():
		return l.builder.AllocConstant(ir.IntegerConstant(ty, 0)), nil
	case kind.IsFloat():
		return l.builder.AllocConstant(ir.FloatConstant(ty, 0)), nil
	default:
		return 0, fmt.Errorf("lower: no default zero value for type %s", l.ctx.Types().String(ty))
	}
}

// resolveTypeExpr resolves a VarDecl's explicit type annotation the same
// way the semantic analyzer does: builtin names map to the predefined
// singletons, anything else is looked up in the global scope.
func (l *Lowerer) resolveTypeExpr(expr ast.Expr) (types.Type, error) {
	ident, ok := expr.(*ast.IdentifierExpr)
	if !ok {
		return nil, fmt.Errorf("lower: unsupported type expression %T", expr)
	}
	switch ident.Name {
	case "int":
		return types.Int, nil
	case "float":
		return types.Float, nil
	case "bool":
		return types.Bool, nil
	case "char":
		return types.Char, nil
	case "string":
		return types.String, nil
	case "void":
		return types.Void, nil
	}

	symbol := l.analyzer.GetScope().LookupLocal(ident.Name)
	if symbol == nil {
		return nil, fmt.Errorf("lower: undefined type %s", ident.Name)
	}
	return symbol.Type, nil
}
