package ir

// Location pinpoints a single instruction: the block it lives in and its
// index within that block's instruction list.
type Location struct {
	Block Label
	Index int
}

// FunctionData is a function: its signature, its value/constant/label
// arenas, and its parameter values.
//
// DESIGN CHOICE: each function owns its own Values/Constants/Labels arenas
// (matching original_source's FunctionData), rather than sharing one global
// value space across the whole module the way the teacher's Function does
// with a module-wide Value.ID counter. This keeps handle arithmetic local to
// a function, which every pass in this repo operates on independently
// (SPEC_FULL.md §5: "passes take exclusive access to one function at a
// time").
type FunctionData struct {
	Name       string
	ReturnType *Type // nil means void
	ParamTypes []Type

	values    *Values
	constants *Constants
	labels    *Labels

	parameters []Value

	valueToConstant map[Value]Constant

	entry Label
}

// NewFunctionData creates a function with the given signature, allocating
// its parameter values up front (SPEC_FULL.md §3: "parameters ... are
// values with the declared parameter types").
func NewFunctionData(name string, paramTypes []Type, returnType *Type) *FunctionData {
	fd := &FunctionData{
		Name:            name,
		ReturnType:      returnType,
		ParamTypes:      append([]Type(nil), paramTypes...),
		values:          NewValues(),
		constants:       NewConstants(),
		labels:          NewLabels(),
		valueToConstant: make(map[Value]Constant),
	}
	for _, pt := range paramTypes {
		fd.parameters = append(fd.parameters, fd.values.Alloc(pt))
	}
	fd.entry = fd.labels.Create("block_0")
	return fd
}

// Values returns the function's value arena.
func (fd *FunctionData) Values() *Values { return fd.values }

// Constants returns the function's constant arena.
func (fd *FunctionData) Constants() *Constants { return fd.constants }

// Labels returns the function's block arena.
func (fd *FunctionData) Labels() *Labels { return fd.labels }

// Entry returns the function's distinguished entry block. It is never
// removed (SPEC_FULL.md §3, invariant 4).
func (fd *FunctionData) Entry() Label { return fd.entry }

// Parameters returns the function's parameter values, in declaration order.
func (fd *FunctionData) Parameters() []Value { return fd.parameters }

// IsParameter reports whether v is one of this function's parameters.
func (fd *FunctionData) IsParameter(v Value) bool {
	for _, p := range fd.parameters {
		if p == v {
			return true
		}
	}
	return false
}

// BindConstant registers v as constant-backed by c.
func (fd *FunctionData) BindConstant(v Value, c Constant) {
	fd.valueToConstant[v] = c
}

// ConstantOf returns the Constant backing v, if v is constant-backed.
func (fd *FunctionData) ConstantOf(v Value) (Constant, bool) {
	c, ok := fd.valueToConstant[v]
	return c, ok
}

// IsConstantBacked reports whether v has a constant binding.
func (fd *FunctionData) IsConstantBacked(v Value) bool {
	_, ok := fd.valueToConstant[v]
	return ok
}

// Instruction returns the instruction at a location.
func (fd *FunctionData) Instruction(loc Location) Instruction {
	return fd.labels.Get(loc.Block).Instructions[loc.Index]
}

// SetInstruction overwrites the instruction at a location in place — used by
// passes that replace an instruction with Nop or with a specialized
// terminator, never changing instruction count or position.
func (fd *FunctionData) SetInstruction(loc Location, instr Instruction) {
	fd.labels.Get(loc.Block).Instructions[loc.Index] = instr
}

// Cfg builds (fresh) the function's control-flow graph.
func (fd *FunctionData) Cfg() *Cfg {
	return BuildCfg(fd.labels, fd.entry)
}

// Creators returns, for every value produced by an instruction, the
// location of its producer. Parameters and constant-backed values have no
// entry (SPEC_FULL.md §4.7, artifact 1).
func (fd *FunctionData) Creators() map[Value]Location {
	creators := make(map[Value]Location)
	cfg := fd.Cfg()
	for _, l := range cfg.Bfs() {
		block := fd.labels.Get(l)
		for i, instr := range block.Instructions {
			if dst, ok := instr.Creates(); ok {
				if _, dup := creators[dst]; dup {
					panic("ir: duplicate producer for a value")
				}
				creators[dst] = Location{Block: l, Index: i}
			}
		}
	}
	return creators
}

// VariableUsers indexes every use site of every value: for value v, the set
// of locations whose instruction reads v.
func (fd *FunctionData) VariableUsers() map[Value][]Location {
	users := make(map[Value][]Location)
	cfg := fd.Cfg()
	for _, l := range cfg.Bfs() {
		block := fd.labels.Get(l)
		for i, instr := range block.Instructions {
			for _, read := range instr.Reads() {
				loc := Location{Block: l, Index: i}
				users[read] = append(users[read], loc)
			}
		}
	}
	return users
}

// TopologicalSort returns every value reachable from this function's
// instructions (parameters, constants, and instruction destinations) in
// Kahn's-algorithm topological order over the def-use graph: a value never
// precedes any value it depends on.
//
// Grounded on original_source/function.rs's topological_sort: parameters and
// constant-backed values seed in-degree 0; each instruction's destination
// has in-degree equal to its number of distinct value reads.
func (fd *FunctionData) TopologicalSort() []Value {
	creators := fd.Creators()

	inDegree := make(map[Value]int)
	dependents := make(map[Value][]Value)

	queue := make([]Value, 0, len(fd.parameters))
	seen := make(map[Value]bool)

	enqueueIfReady := func(v Value, degree int) {
		if degree == 0 && !seen[v] {
			seen[v] = true
			queue = append(queue, v)
		}
	}

	for _, p := range fd.parameters {
		inDegree[p] = 0
		enqueueIfReady(p, 0)
	}
	for v := range fd.valueToConstant {
		inDegree[v] = 0
		enqueueIfReady(v, 0)
	}

	for v, loc := range creators {
		instr := fd.Instruction(loc)
		reads := instr.Reads()
		distinct := map[Value]bool{}
		for _, r := range reads {
			distinct[r] = true
		}
		inDegree[v] = len(distinct)
		for r := range distinct {
			dependents[r] = append(dependents[r], v)
		}
		if len(distinct) == 0 {
			enqueueIfReady(v, 0)
		}
	}

	order := make([]Value, 0, len(inDegree))
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		order = append(order, v)
		for _, dep := range dependents[v] {
			inDegree[dep]--
			if inDegree[dep] == 0 {
				enqueueIfReady(dep, 0)
			}
		}
	}
	return order
}

// Functions is the context-level arena of functions.
type Functions struct {
	data []*FunctionData
}

// NewFunctions creates an empty function arena.
func NewFunctions() *Functions {
	return &Functions{}
}

// Create allocates a new function and returns its handle.
func (fs *Functions) Create(fd *FunctionData) Function {
	fs.data = append(fs.data, fd)
	return Function(len(fs.data) - 1)
}

// Get returns the function data for a handle.
func (fs *Functions) Get(f Function) *FunctionData {
	return fs.data[f.id()]
}

// All returns every function, in creation order.
func (fs *Functions) All() []Function {
	out := make([]Function, len(fs.data))
	for i := range fs.data {
		out[i] = Function(i)
	}
	return out
}
