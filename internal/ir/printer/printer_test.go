package printer_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/irc/internal/ir"
	"github.com/hassandahiru/irc/internal/ir/printer"
)

func TestFunction_RendersSignatureAndBlocks(t *testing.T) {
	ctx := ir.NewContext()
	i64 := ctx.CreateType(ir.Integer(64, true))
	fn := ctx.CreateFunction("double", []ir.Type{i64}, &i64)
	b := ctx.Builder(fn)
	fd := ctx.Functions().Get(fn)

	b.SetInsertPoint(fd.Entry())
	two := b.AllocConstant(ir.IntegerConstant(i64, 2))
	param := b.Parameter(0)
	result := b.Mul(param, two)
	b.Ret(&result)

	p := printer.New(ctx.Types())
	out := p.Function(fd)

	require.Contains(t, out, "fn @double")
	require.Contains(t, out, "i64")
	require.Contains(t, out, "mul")
	require.Contains(t, out, "ret")
}

func TestContext_RendersEveryFunction(t *testing.T) {
	ctx := ir.NewContext()
	i64 := ctx.CreateType(ir.Integer(64, true))
	for _, name := range []string{"one", "two"} {
		fn := ctx.CreateFunction(name, nil, &i64)
		b := ctx.Builder(fn)
		fd := ctx.Functions().Get(fn)
		b.SetInsertPoint(fd.Entry())
		c := b.AllocConstant(ir.IntegerConstant(i64, 1))
		b.Ret(&c)
	}

	p := printer.New(ctx.Types())
	out := p.Context(ctx)

	require.Equal(t, 2, strings.Count(out, "fn @"))
}

func TestDot_ProducesGraphvizDigraph(t *testing.T) {
	ctx := ir.NewContext()
	fn := ctx.CreateFunction("noop", nil, nil)
	b := ctx.Builder(fn)
	fd := ctx.Functions().Get(fn)
	b.SetInsertPoint(fd.Entry())
	b.Ret(nil)

	p := printer.New(ctx.Types())
	out := p.Dot(ctx)

	require.True(t, strings.HasPrefix(strings.TrimSpace(out), "digraph"))
}
