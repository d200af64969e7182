package ir_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/irc/internal/ir"
)

func newFunc(t *testing.T, ctx *ir.Context, paramTypes []ir.Type, returnType *ir.Type) (*ir.FunctionBuilder, *ir.FunctionData) {
	t.Helper()
	fn := ctx.CreateFunction("f", paramTypes, returnType)
	fd := ctx.Functions().Get(fn)
	b := ctx.Builder(fn)
	b.SetInsertPoint(fd.Entry())
	return b, fd
}

func TestBuilder_StackAllocLoadStoreRoundTrips(t *testing.T) {
	ctx := ir.NewContext()
	i64 := ctx.CreateType(ir.Integer(64, true))
	b, fd := newFunc(t, ctx, nil, nil)

	slot := b.StackAlloc(i64, 1)
	require.True(t, ctx.Types().IsPointer(fd.Values().Get(slot)))

	one := b.AllocConstant(ir.IntegerConstant(i64, 1))
	b.Store(slot, one)
	loaded := b.Load(slot)
	require.True(t, ctx.Types().TypesMatch(i64, fd.Values().Get(loaded)))
	b.Ret(nil)
}

func TestBuilder_ArithmeticBinaryPanicsOnTypeMismatch(t *testing.T) {
	ctx := ir.NewContext()
	i32 := ctx.CreateType(ir.Integer(32, true))
	i64 := ctx.CreateType(ir.Integer(64, true))
	b, _ := newFunc(t, ctx, nil, nil)

	a := b.AllocConstant(ir.IntegerConstant(i32, 1))
	bb := b.AllocConstant(ir.IntegerConstant(i64, 2))

	require.Panics(t, func() {
		b.Add(a, bb)
	})
}

func TestBuilder_BranchConditionalRequiresBit1Condition(t *testing.T) {
	ctx := ir.NewContext()
	i64 := ctx.CreateType(ir.Integer(64, true))
	b, _ := newFunc(t, ctx, nil, nil)

	notABool := b.AllocConstant(ir.IntegerConstant(i64, 1))
	onTrue := b.CreateLabel("a")
	onFalse := b.CreateLabel("b")

	require.Panics(t, func() {
		b.BranchConditional(notABool, onTrue, onFalse)
	})
}

func TestBuilder_GetElementPtrRequiresPointerPointee(t *testing.T) {
	ctx := ir.NewContext()
	i64 := ctx.CreateType(ir.Integer(64, true))
	b, _ := newFunc(t, ctx, nil, nil)

	slot := b.StackAlloc(i64, 1) // Pointer(i64): pointee is not itself a pointer
	idx := b.AllocConstant(ir.IntegerConstant(i64, 0))

	require.Panics(t, func() {
		b.GetElementPtr(slot, idx)
	})
}

func TestContext_ValidateCatchesMissingTerminator(t *testing.T) {
	ctx := ir.NewContext()
	fn := ctx.CreateFunction("broken", nil, nil)
	fd := ctx.Functions().Get(fn)
	ctx.Builder(fn).CreateType(ir.Integer(1, false))
	_ = fd

	errs := ctx.Validate()
	require.NotEmpty(t, errs, "entry block with no instructions should fail validation")
}

func TestContext_ValidatePassesOnWellFormedFunction(t *testing.T) {
	ctx := ir.NewContext()
	fn := ctx.CreateFunction("ok", nil, nil)
	fd := ctx.Functions().Get(fn)
	b := ctx.Builder(fn)
	b.SetInsertPoint(fd.Entry())
	b.Ret(nil)

	require.Empty(t, ctx.Validate())
}
