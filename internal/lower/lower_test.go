package lower_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hassandahiru/irc/internal/ir"
	"github.com/hassandahiru/irc/internal/lexer"
	"github.com/hassandahiru/irc/internal/lower"
	"github.com/hassandahiru/irc/internal/parser"
	"github.com/hassandahiru/irc/internal/semantic"
)

func lowerSource(t *testing.T, source string) (*ir.Context, *lower.Lowerer) {
	t.Helper()

	lex := lexer.New(source, "test.irc")
	p := parser.New(lex)
	file, parseErrs := p.ParseFile("test.irc")
	require.Empty(t, parseErrs, "parse errors")

	analyzer := semantic.New()
	semErrs := analyzer.Analyze(file)
	require.Empty(t, semErrs, "semantic errors")

	ctx := ir.NewContext()
	lw := lower.New(ctx, analyzer)
	lowerErrs := lw.LowerFile(file)
	require.Empty(t, lowerErrs, "lowering errors")

	return ctx, lw
}

func TestLowerFile_SimpleArithmeticFunction(t *testing.T) {
	source := `package main

func add(a int, b int) int {
	return a + b;
}
`
	ctx, lw := lowerSource(t, source)

	handle, ok := lw.FunctionOf("add")
	require.True(t, ok)

	fn := ctx.Functions().Get(handle)
	require.Equal(t, "add", fn.Name)
	require.Len(t, fn.ParamTypes, 2)

	validationErrs := ctx.Validate()
	require.Empty(t, validationErrs)
}

func TestLowerFile_IfElseMergesThroughStackSlot(t *testing.T) {
	source := `package main

func max(a int, b int) int {
	var result int = a;
	if (a < b) {
		result = b;
	}
	return result;
}
`
	ctx, lw := lowerSource(t, source)

	handle, ok := lw.FunctionOf("max")
	require.True(t, ok)
	fn := ctx.Functions().Get(handle)

	require.Empty(t, ctx.Validate())

	found := false
	for _, l := range fn.Labels().Labels() {
		for _, instr := range fn.Labels().Get(l).Instructions {
			if instr.Kind == ir.KindStackAlloc {
				found = true
			}
		}
	}
	require.True(t, found, "expected at least one stack_alloc instruction")
}

func TestLowerFile_WhileLoopProducesTerminatedBlocks(t *testing.T) {
	source := `package main

func countUp(n int) int {
	var i int = 0;
	while (i < n) {
		i = i + 1;
	}
	return i;
}
`
	ctx, _ := lowerSource(t, source)
	require.Empty(t, ctx.Validate())
}

func TestLowerFile_LogicalAndShortCircuits(t *testing.T) {
	source := `package main

func both(a bool, b bool) bool {
	return a && b;
}
`
	ctx, lw := lowerSource(t, source)
	require.Empty(t, ctx.Validate())

	handle, ok := lw.FunctionOf("both")
	require.True(t, ok)
	fn := ctx.Functions().Get(handle)
	entry := fn.Labels().Get(fn.Entry()).Instructions
	require.Equal(t, ir.KindBranchConditional, entry[len(entry)-1].Kind, "the right operand should sit behind a conditional branch")
}

func TestLowerFile_ForLoopScopesInitToLoop(t *testing.T) {
	source := `package main

func sumTo(n int) int {
	var total int = 0;
	for (var i int = 0; i < n; i = i + 1) {
		total = total + i;
	}
	return total;
}
`
	ctx, _ := lowerSource(t, source)
	require.Empty(t, ctx.Validate())
}

func TestLowerFile_VoidFunctionGetsImplicitReturn(t *testing.T) {
	source := `package main

func noop() {
	var x int = 1;
}
`
	ctx, lw := lowerSource(t, source)
	handle, ok := lw.FunctionOf("noop")
	require.True(t, ok)
	fn := ctx.Functions().Get(handle)

	last := fn.Labels().Get(fn.Entry()).Instructions
	require.NotEmpty(t, last)
	require.True(t, last[len(last)-1].IsTerminator())
	require.Empty(t, ctx.Validate())
}

func TestLowerFile_MemberAccessIsUnsupported(t *testing.T) {
	source := `package main

struct Point {
	x int;
	y int;
}

func getX(p Point) int {
	return p.x;
}
`
	lex := lexer.New(source, "test.irc")
	p := parser.New(lex)
	file, parseErrs := p.ParseFile("test.irc")
	require.Empty(t, parseErrs)

	analyzer := semantic.New()
	semErrs := analyzer.Analyze(file)
	require.Empty(t, semErrs)

	ctx := ir.NewContext()
	lw := lower.New(ctx, analyzer)
	lowerErrs := lw.LowerFile(file)
	require.NotEmpty(t, lowerErrs, "struct field access has no get_element_ptr encoding yet")
}
