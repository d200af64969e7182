package optimizer

import "github.com/hassandahiru/irc/internal/ir"

// RemoveNoopsPass strips every Nop tombstone left behind by earlier passes,
// compacting each block's instruction list.
//
// Grounded on original_source/passes/remove_noops.rs.
type RemoveNoopsPass struct{}

func (p *RemoveNoopsPass) Name() string { return "remove-noops" }

func (p *RemoveNoopsPass) Run(types *ir.Types, fn *ir.FunctionData) (int, error) {
	stripped := 0
	for _, l := range fn.Labels().Labels() {
		block := fn.Labels().Get(l)
		compacted := block.Instructions[:0]
		for _, instr := range block.Instructions {
			if instr.Kind == ir.KindNop {
				stripped++
				continue
			}
			compacted = append(compacted, instr)
		}
		block.Instructions = compacted
	}
	return stripped, nil
}
