package optimizer

import "github.com/hassandahiru/irc/internal/ir"

// SimplifyCfgPass simplifies the control-flow graph in two steps: merging a
// block into its sole predecessor when that predecessor reaches it only by
// an unconditional jump (optimizeJumps), then retargeting any branch that
// points at a block consisting of nothing but a jump, to skip it entirely
// (optimizeBranches).
//
// Grounded on original_source/passes/simplify_cfg.rs.
type SimplifyCfgPass struct{}

func (p *SimplifyCfgPass) Name() string { return "simplify-cfg" }

func (p *SimplifyCfgPass) Run(types *ir.Types, fn *ir.FunctionData) (int, error) {
	merges := p.optimizeJumps(fn)
	retargets := p.optimizeBranches(fn)
	return merges + retargets, nil
}

// optimizeJumps repeatedly merges a block into its unique predecessor when
// that predecessor's only way into the block is an unconditional Branch: the
// predecessor's trailing Branch is dropped and the block's instructions are
// appended in its place, then the block itself is removed. Restarts after
// every merge since merging changes the predecessor counts of everything
// downstream of the removed block. Returns the number of blocks merged away.
func (p *SimplifyCfgPass) optimizeJumps(fn *ir.FunctionData) int {
	merged := 0
mergeLoop:
	for {
		for _, target := range fn.Labels().Labels() {
			if target == fn.Entry() {
				continue
			}

			cfg := fn.Cfg()
			predecessors := cfg.Incoming(target)
			if len(predecessors) != 1 {
				continue
			}
			from := predecessors[0].From
			if from == target {
				// Self-loop; nothing to merge.
				continue
			}

			fromBlock := fn.Labels().Get(from)
			if len(fromBlock.Instructions) == 0 {
				continue
			}
			last := fromBlock.Instructions[len(fromBlock.Instructions)-1]
			if last.Kind != ir.KindBranch {
				continue
			}

			mergedInstrs := fn.Labels().Remove(target)
			fromBlock.Instructions = fromBlock.Instructions[:len(fromBlock.Instructions)-1]
			fromBlock.Instructions = append(fromBlock.Instructions, mergedInstrs...)
			merged++

			continue mergeLoop
		}
		return merged
	}
}

// optimizeBranches retargets every Branch/BranchConditional arm that points
// at a block whose entire body is a single unconditional Branch, to jump
// straight to that block's own target, skipping the pass-through block. The
// pass-through block itself is left in place (it may still be reachable
// directly, or become dead and be cleaned up by a future CFG simplification
// pass); only the arms pointing at it are retargeted. Returns the number of
// arms retargeted.
func (p *SimplifyCfgPass) optimizeBranches(fn *ir.FunctionData) int {
	branchTo := make(map[ir.Label]ir.Label)
	for _, l := range fn.Labels().Labels() {
		block := fn.Labels().Get(l)
		if len(block.Instructions) != 1 {
			continue
		}
		instr := block.Instructions[0]
		if instr.Kind != ir.KindBranch {
			continue
		}
		if instr.Target == l {
			continue
		}
		branchTo[l] = instr.Target
	}

	retargeted := 0
	for _, l := range fn.Labels().Labels() {
		if _, isPassThrough := branchTo[l]; isPassThrough {
			continue
		}
		block := fn.Labels().Get(l)
		if len(block.Instructions) == 0 {
			continue
		}
		i := len(block.Instructions) - 1
		switch block.Instructions[i].Kind {
		case ir.KindBranch:
			if newTarget, ok := branchTo[block.Instructions[i].Target]; ok {
				block.Instructions[i].Target = newTarget
				retargeted++
			}
		case ir.KindBranchConditional:
			if newTarget, ok := branchTo[block.Instructions[i].OnTrue]; ok {
				block.Instructions[i].OnTrue = newTarget
				retargeted++
			}
			if newTarget, ok := branchTo[block.Instructions[i].OnFalse]; ok {
				block.Instructions[i].OnFalse = newTarget
				retargeted++
			}
		}
	}
	return retargeted
}
