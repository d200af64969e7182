package optimizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/hassandahiru/irc/internal/ir"
	"github.com/hassandahiru/irc/internal/optimizer"
)

// TestOptimize_FoldsConstantAdditionAndDropsTheBinary exercises SPEC_FULL.md
// §8 scenario shape E1: add two integer constants, return the result; after
// optimization the ArithmeticBinary should be gone (folded to Nop, its
// result rewired directly into the Return).
func TestOptimize_FoldsConstantAdditionAndDropsTheBinary(t *testing.T) {
	ctx := ir.NewContext()
	i64 := ctx.CreateType(ir.Integer(64, true))
	fn := ctx.CreateFunction("add_constants", nil, &i64)
	b := ctx.Builder(fn)

	fd := ctx.Functions().Get(fn)
	b.SetInsertPoint(fd.Entry())

	lhs := b.AllocConstant(ir.IntegerConstant(i64, 2))
	rhs := b.AllocConstant(ir.IntegerConstant(i64, 3))
	sum := b.Add(lhs, rhs)
	b.Ret(&sum)

	opt := optimizer.New(zap.NewNop())
	require.NoError(t, opt.Optimize(ctx))
	require.Empty(t, ctx.Validate())

	block := fd.Labels().Get(fd.Entry())
	for _, instr := range block.Instructions {
		require.NotEqual(t, ir.KindArithmeticBinary, instr.Kind, "binary op should have folded away")
	}

	ret := block.Instructions[len(block.Instructions)-1]
	require.Equal(t, ir.KindReturn, ret.Kind)
	require.NotNil(t, ret.ReturnValue)

	constantHandle, ok := fd.ConstantOf(*ret.ReturnValue)
	require.True(t, ok, "returned value should be constant-backed after folding")
	require.Equal(t, uint64(5), fd.Constants().Get(constantHandle).Bits())
}

// TestOptimize_DeadCodeEliminationRemovesUnusedArithmetic exercises §8
// scenario 7: DCE drops an instruction whose result has no user, but never
// touches Store/Call/Return/Branch/BranchConditional.
func TestOptimize_DeadCodeEliminationRemovesUnusedArithmetic(t *testing.T) {
	ctx := ir.NewContext()
	i64 := ctx.CreateType(ir.Integer(64, true))
	fn := ctx.CreateFunction("unused_value", nil, nil)
	b := ctx.Builder(fn)

	fd := ctx.Functions().Get(fn)
	b.SetInsertPoint(fd.Entry())

	slot := b.StackAlloc(i64, 1)
	one := b.AllocConstant(ir.IntegerConstant(i64, 1))
	b.Store(slot, one)

	loaded := b.Load(slot)
	_ = b.Add(loaded, loaded) // dead: result never used
	b.Ret(nil)

	opt := optimizer.New(zap.NewNop())
	require.NoError(t, opt.Optimize(ctx))
	require.Empty(t, ctx.Validate())

	block := fd.Labels().Get(fd.Entry())
	sawStore := false
	for _, instr := range block.Instructions {
		require.NotEqual(t, ir.KindArithmeticBinary, instr.Kind, "the unused add should have been removed")
		if instr.Kind == ir.KindStore {
			sawStore = true
		}
	}
	require.True(t, sawStore, "Store must survive DCE")
}

func TestOptimizer_AddPassRunsCustomPassesAfterTheCanonicalSet(t *testing.T) {
	ctx := ir.NewContext()
	fn := ctx.CreateFunction("empty", nil, nil)
	b := ctx.Builder(fn)
	fd := ctx.Functions().Get(fn)
	b.SetInsertPoint(fd.Entry())
	b.Ret(nil)

	ran := false
	opt := optimizer.New(zap.NewNop())
	opt.AddPass(&recordingPass{ran: &ran})

	require.NoError(t, opt.Optimize(ctx))
	require.True(t, ran)
}

type recordingPass struct{ ran *bool }

func (p *recordingPass) Name() string { return "recording" }
func (p *recordingPass) Run(types *ir.Types, fn *ir.FunctionData) (int, error) {
	*p.ran = true
	return 0, nil
}
