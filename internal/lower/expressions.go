package lower

import (
	"fmt"

	"github.com/hassandahiru/irc/internal/ir"
	"github.com/hassandahiru/irc/internal/lexer"
	"github.com/hassandahiru/irc/internal/parser/ast"
	"github.com/hassandahiru/irc/internal/semantic/types"
)

// lowerExprValue lowers expr and unwraps the ir.Value it must have
// produced; every expression visitor below returns an ir.Value boxed in
// interface{}, matching the shape ast.Visitor requires.
func (l *Lowerer) lowerExprValue(expr ast.Expr) (ir.Value, error) {
	result, err := expr.Accept(l)
	if err != nil {
		return 0, err
	}
	v, ok := result.(ir.Value)
	if !ok {
		return 0, fmt.Errorf("lower: expression produced no value")
	}
	return v, nil
}

func (l *Lowerer) VisitBinaryExpr(expr *ast.BinaryExpr) (interface{}, error) {
	lhs, err := l.lowerExprValue(expr.Left)
	if err != nil {
		return nil, err
	}
	rhs, err := l.lowerExprValue(expr.Right)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Type {
	case lexer.TokenPlus:
		return l.builder.Add(lhs, rhs), nil
	case lexer.TokenMinus:
		return l.builder.Sub(lhs, rhs), nil
	case lexer.TokenStar:
		return l.builder.Mul(lhs, rhs), nil
	case lexer.TokenSlash:
		return l.builder.Div(lhs, rhs), nil
	case lexer.TokenPercent:
		return l.builder.Mod(lhs, rhs), nil
	case lexer.TokenBitAnd:
		return l.builder.BitAnd(lhs, rhs), nil
	case lexer.TokenBitOr:
		return l.builder.BitOr(lhs, rhs), nil
	case lexer.TokenBitXor:
		return l.builder.Xor(lhs, rhs), nil
	case lexer.TokenShl:
		return l.builder.Shl(lhs, rhs), nil
	case lexer.TokenShr:
		return l.builder.Shr(lhs, rhs), nil
	case lexer.TokenEqual:
		return l.builder.CompareEq(lhs, rhs), nil
	case lexer.TokenNotEqual:
		return l.builder.CompareNe(lhs, rhs), nil
	case lexer.TokenLess:
		return l.builder.CompareLt(lhs, rhs), nil
	case lexer.TokenLessEqual:
		return l.builder.CompareLte(lhs, rhs), nil
	case lexer.TokenGreater:
		return l.builder.CompareGt(lhs, rhs), nil
	case lexer.TokenGreaterEqual:
		return l.builder.CompareGte(lhs, rhs), nil
	default:
		return nil, fmt.Errorf("lower: unsupported binary operator %s", expr.Operator.Lexeme)
	}
}

func (l *Lowerer) VisitUnaryExpr(expr *ast.UnaryExpr) (interface{}, error) {
	switch expr.Operator.Type {
	case lexer.TokenMinus:
		v, err := l.lowerExprValue(expr.Operand)
		if err != nil {
			return nil, err
		}
		return l.builder.Neg(v), nil
	case lexer.TokenNot, lexer.TokenBitNot:
		v, err := l.lowerExprValue(expr.Operand)
		if err != nil {
			return nil, err
		}
		return l.builder.Not(v), nil
	case lexer.TokenPlusPlus, lexer.TokenMinusMinus:
		slot, err := l.lowerAssignableSlot(expr.Operand)
		if err != nil {
			return nil, err
		}
		old := l.builder.Load(slot)
		one := l.builder.AllocConstant(ir.IntegerConstant(l.fn.Values().Get(old), 1))
		var updated ir.Value
		if expr.Operator.Type == lexer.TokenPlusPlus {
			updated = l.builder.Add(old, one)
		} else {
			updated = l.builder.Sub(old, one)
		}
		l.builder.Store(slot, updated)
		if expr.IsPostfix {
			return old, nil
		}
		return updated, nil
	default:
		return nil, fmt.Errorf("lower: unsupported unary operator %s", expr.Operator.Lexeme)
	}
}

func (l *Lowerer) VisitLiteralExpr(expr *ast.LiteralExpr) (interface{}, error) {
	ty, err := l.irType(l.exprType(expr))
	if err != nil {
		return nil, err
	}
	switch v := expr.Value.(type) {
	case int64:
		return l.builder.AllocConstant(ir.IntegerConstant(ty, uint64(v))), nil
	case float64:
		return l.builder.AllocConstant(ir.FloatConstant(ty, v)), nil
	case bool:
		bits := uint64(0)
		if v {
			bits = 1
		}
		return l.builder.AllocConstant(ir.IntegerConstant(ty, bits)), nil
	case rune:
		return l.builder.AllocConstant(ir.IntegerConstant(ty, uint64(v))), nil
	default:
		return nil, fmt.Errorf("lower: literal of type %T has no representation in this instruction set", expr.Value)
	}
}

func (l *Lowerer) VisitIdentifierExpr(expr *ast.IdentifierExpr) (interface{}, error) {
	slot, ok := l.lookupLocal(expr.Name)
	if !ok {
		return nil, fmt.Errorf("lower: undefined variable %s", expr.Name)
	}
	return l.builder.Load(slot), nil
}

// lowerCallee lowers a call's callee expression. A named function reference
// has no value representation yet (inter-procedural data flow is reserved,
// SPEC_FULL.md §5), so it lowers to an opaque constant identifying the
// function by its arena index; the Call instruction's structural shape
// (destination, operand list) is still fully exercised.
func (l *Lowerer) lowerCallee(expr ast.Expr) (ir.Value, error) {
	if ident, ok := expr.(*ast.IdentifierExpr); ok {
		if fn, ok := l.funcs[ident.Name]; ok {
			ty := l.ctx.CreateType(ir.Integer(64, false))
			return l.builder.AllocConstant(ir.IntegerConstant(ty, uint64(fn))), nil
		}
	}
	return l.lowerExprValue(expr)
}

func (l *Lowerer) VisitCallExpr(expr *ast.CallExpr) (interface{}, error) {
	callee, err := l.lowerCallee(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]ir.Value, len(expr.Args))
	for i, a := range expr.Args {
		v, err := l.lowerExprValue(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	resultType := l.exprType(expr)
	if resultType == nil || resultType.Equals(types.Void) {
		l.builder.Call(callee, args, nil)
		return ir.Value(0), nil
	}

	irTy, err := l.irType(resultType)
	if err != nil {
		return nil, err
	}
	return l.builder.Call(callee, args, &irTy), nil
}

func (l *Lowerer) VisitIndexExpr(expr *ast.IndexExpr) (interface{}, error) {
	return nil, fmt.Errorf("lower: array indexing is not supported by this instruction set")
}

func (l *Lowerer) VisitMemberExpr(expr *ast.MemberExpr) (interface{}, error) {
	return nil, fmt.Errorf("lower: struct field access requires indexed addressing not yet modeled by get_element_ptr")
}

// lowerAssignableSlot resolves target to the stack slot backing it.
// Index and member targets are not supported, matching VisitIndexExpr and
// VisitMemberExpr above.
func (l *Lowerer) lowerAssignableSlot(target ast.Expr) (ir.Value, error) {
	ident, ok := target.(*ast.IdentifierExpr)
	if !ok {
		return 0, fmt.Errorf("lower: unsupported assignment target %T", target)
	}
	slot, ok := l.lookupLocal(ident.Name)
	if !ok {
		return 0, fmt.Errorf("lower: undefined variable %s", ident.Name)
	}
	return slot, nil
}

func (l *Lowerer) applyCompound(op lexer.TokenType, lhs, rhs ir.Value) (ir.Value, error) {
	switch op {
	case lexer.TokenPlusEq:
		return l.builder.Add(lhs, rhs), nil
	case lexer.TokenMinusEq:
		return l.builder.Sub(lhs, rhs), nil
	case lexer.TokenStarEq:
		return l.builder.Mul(lhs, rhs), nil
	case lexer.TokenSlashEq:
		return l.builder.Div(lhs, rhs), nil
	case lexer.TokenPercentEq:
		return l.builder.Mod(lhs, rhs), nil
	case lexer.TokenAndEq:
		return l.builder.BitAnd(lhs, rhs), nil
	case lexer.TokenOrEq:
		return l.builder.BitOr(lhs, rhs), nil
	case lexer.TokenXorEq:
		return l.builder.Xor(lhs, rhs), nil
	case lexer.TokenShlEq:
		return l.builder.Shl(lhs, rhs), nil
	case lexer.TokenShrEq:
		return l.builder.Shr(lhs, rhs), nil
	default:
		return 0, fmt.Errorf("lower: unsupported assignment operator %v", op)
	}
}

func (l *Lowerer) VisitAssignmentExpr(expr *ast.AssignmentExpr) (interface{}, error) {
	slot, err := l.lowerAssignableSlot(expr.Target)
	if err != nil {
		return nil, err
	}
	rhs, err := l.lowerExprValue(expr.Value)
	if err != nil {
		return nil, err
	}

	result := rhs
	if expr.Operator.Type != lexer.TokenAssign {
		current := l.builder.Load(slot)
		result, err = l.applyCompound(expr.Operator.Type, current, rhs)
		if err != nil {
			return nil, err
		}
	}

	l.builder.Store(slot, result)
	return result, nil
}

// VisitLogicalExpr lowers && and || with true short-circuit control flow:
// the right operand is only evaluated in the block reached when it can
// affect the result, and the two arms rejoin through a stack slot rather
// than a phi node.
func (l *Lowerer) VisitLogicalExpr(expr *ast.LogicalExpr) (interface{}, error) {
	lhs, err := l.lowerExprValue(expr.Left)
	if err != nil {
		return nil, err
	}

	resultTy := l.boolType()
	slot := l.builder.StackAlloc(resultTy, 1)

	rhsLabel := l.builder.CreateLabel("logical_rhs")
	shortLabel := l.builder.CreateLabel("logical_short")
	mergeLabel := l.builder.CreateLabel("logical_merge")

	switch expr.Operator.Type {
	case lexer.TokenAnd:
		l.builder.BranchConditional(lhs, rhsLabel, shortLabel)
	case lexer.TokenOr:
		l.builder.BranchConditional(lhs, shortLabel, rhsLabel)
	default:
		return nil, fmt.Errorf("lower: unsupported logical operator %s", expr.Operator.Lexeme)
	}

	l.setInsertPoint(shortLabel)
	l.builder.Store(slot, lhs)
	l.terminateWithBranch(mergeLabel)

	l.setInsertPoint(rhsLabel)
	rhs, err := l.lowerExprValue(expr.Right)
	if err != nil {
		return nil, err
	}
	l.builder.Store(slot, rhs)
	l.terminateWithBranch(mergeLabel)

	l.setInsertPoint(mergeLabel)
	return l.builder.Load(slot), nil
}

func (l *Lowerer) VisitGroupingExpr(expr *ast.GroupingExpr) (interface{}, error) {
	return expr.Expression.Accept(l)
}

func (l *Lowerer) VisitArrayLiteralExpr(expr *ast.ArrayLiteralExpr) (interface{}, error) {
	return nil, fmt.Errorf("lower: array literals are not supported by this instruction set")
}

func (l *Lowerer) VisitStructLiteralExpr(expr *ast.StructLiteralExpr) (interface{}, error) {
	return nil, fmt.Errorf("lower: struct literals require field addressing not yet modeled by get_element_ptr")
}
