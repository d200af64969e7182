package ir

// BlockData is a basic block: a named, ordered sequence of instructions.
//
// WHAT IS A BASIC BLOCK?
// A basic block is a straight-line code sequence with one entry point and
// one exit point: a terminator (Branch, BranchConditional, or Return) as its
// final instruction and nowhere else. This mirrors the teacher's BasicBlock
// (internal/ir/basicblock.go), but successors/predecessors are no longer
// stored on the block itself — they are derived on demand from terminators
// by Cfg (cfg.go), which keeps a block a pure instruction container and
// avoids the bookkeeping of keeping bidirectional links in sync across
// CFG-mutating passes.
type BlockData struct {
	Name         string
	Instructions []Instruction
}

// Labels is the per-function collection of basic blocks, keyed by Label
// handle. Unlike Values/Constants/Types, Labels supports removal (CFG
// simplification's jump-merge step deletes a block after splicing its
// instructions into its sole predecessor), so it is backed by a map rather
// than an append-only slice.
type Labels struct {
	blocks  map[Label]*BlockData
	nextID  uint32
	order   []Label // creation order, for deterministic iteration
}

// NewLabels creates an empty label table.
func NewLabels() *Labels {
	return &Labels{blocks: make(map[Label]*BlockData)}
}

// Create allocates a new, empty block named name and returns its handle.
func (ls *Labels) Create(name string) Label {
	id := Label(ls.nextID)
	ls.nextID++
	ls.blocks[id] = &BlockData{Name: name}
	ls.order = append(ls.order, id)
	return id
}

// Get returns the block data for a label. Panics if the label was removed or
// never created, which is a programmer error (a stale handle).
func (ls *Labels) Get(l Label) *BlockData {
	b, ok := ls.blocks[l]
	if !ok {
		panic("ir: use of a removed or unknown label")
	}
	return b
}

// Has reports whether l still names a live block.
func (ls *Labels) Has(l Label) bool {
	_, ok := ls.blocks[l]
	return ok
}

// Remove deletes a block and returns its instructions, for splicing into a
// merging predecessor (SPEC_FULL.md §4.9's jump-merge step).
func (ls *Labels) Remove(l Label) []Instruction {
	b := ls.Get(l)
	delete(ls.blocks, l)
	for i, id := range ls.order {
		if id == l {
			ls.order = append(ls.order[:i], ls.order[i+1:]...)
			break
		}
	}
	return b.Instructions
}

// Labels returns every live label, in creation order.
func (ls *Labels) Labels() []Label {
	out := make([]Label, len(ls.order))
	copy(out, ls.order)
	return out
}

// Len returns the number of live blocks.
func (ls *Labels) Len() int { return len(ls.order) }
