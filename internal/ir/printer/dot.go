package printer

import (
	"fmt"
	"strings"

	"github.com/hassandahiru/irc/internal/ir"
)

// Dot renders ctx as a GraphViz DOT digraph: one subgraph per function, one
// node per block (labeled with its rendered instructions), and edges
// labeled with their EdgeKind.
//
// Grounded on original_source/context.rs's dump_ir, generalized from an
// HTML-table node label to a plain newline-joined label (no external
// renderer is exercised by this repository's test suite, so the simpler
// label form is preferred over escaping HTML).
func (p *Printer) Dot(ctx *ir.Context) string {
	var b strings.Builder
	b.WriteString("digraph {\n")
	b.WriteString("graph [fontname = \"helvetica\"];\n")
	b.WriteString("edge [fontname = \"helvetica\", fontsize=10];\n")
	b.WriteString("node [shape=rectangle, fontname=\"helvetica\", fontsize=10];\n\n")

	for _, f := range ctx.Functions().All() {
		fn := ctx.Functions().Get(f)
		cfg := fn.Cfg()
		order := cfg.Bfs()

		for _, l := range order {
			block := fn.Labels().Get(l)
			var lines []string
			for _, instr := range block.Instructions {
				lines = append(lines, p.instruction(fn, instr))
			}
			fmt.Fprintf(&b, "%s_%s [label=\"%s\\l%s\\l\"]\n", fn.Name, l,
				l, strings.Join(lines, "\\l"))
		}

		params := make([]string, len(fn.Parameters()))
		for i, v := range fn.Parameters() {
			params[i] = fmt.Sprintf("%s: %s", v, p.types.String(fn.Values().Get(v)))
		}
		returnType := ""
		if fn.ReturnType != nil {
			returnType = p.types.String(*fn.ReturnType)
		}

		fmt.Fprintf(&b, "subgraph cluster_%s {\n", fn.Name)
		fmt.Fprintf(&b, "label = \"fn @%s(%s) -> %s\";\n", fn.Name, strings.Join(params, ", "), returnType)

		for _, l := range order {
			for _, e := range cfg.Outgoing(l) {
				fmt.Fprintf(&b, "%s_%s -> %s_%s [label=\"%s\"]\n", fn.Name, e.From, fn.Name, e.To, e.Kind)
			}
		}
		b.WriteString("}\n")
	}

	b.WriteString("}\n")
	return b.String()
}
