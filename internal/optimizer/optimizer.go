// Package optimizer hosts the optimization pipeline: constant folding, CFG
// simplification, dead-code elimination, and no-op compaction, run by
// default in that order per function (SPEC_FULL.md §4.8-§4.11, canonical
// order confirmed by original_source/context.rs's optimize()); NewFromNames
// accepts any other order and multiplicity.
package optimizer

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/hassandahiru/irc/internal/diag"
	"github.com/hassandahiru/irc/internal/ir"
)

// Pass represents an optimization pass that can be applied to a function.
//
// DESIGN CHOICE: Interface-based design because:
// - Allows dynamic pass configuration
// - Easy to add new passes
// - Passes can be tested in isolation
type Pass interface {
	// Name returns a human-readable name for this pass.
	Name() string

	// Run executes this optimization pass on the given function, using
	// types to query/construct Type handles where folding needs to. It
	// returns the number of instructions the pass touched (folded, removed,
	// merged, or stripped), for §4.15's pass-level summary logging.
	Run(types *ir.Types, fn *ir.FunctionData) (int, error)
}

// Optimizer coordinates the execution of optimization passes over every
// function of a Context.
//
// DESIGN CHOICE: separate the optimizer from the passes themselves, so the
// optimizer manages pass ordering while each pass focuses on its one
// transformation — the same separation the teacher's optimizer package
// draws between internal/optimizer/optimizer.go and its individual passes.
type Optimizer struct {
	passes  []Pass
	logger  *zap.Logger
}

// canonicalPassNames is the default pipeline order, also the fallback when
// config.OptimizerConfig.Passes is empty.
var canonicalPassNames = []string{"constant_folding", "simplify_cfg", "dead_code_elimination", "remove_noops"}

// passFactories maps a config pass name (SPEC_FULL.md §4.14) to its
// constructor. The key strings are the contract between this package and
// internal/config: config.Default()'s Optimizer.Passes must name exactly
// these.
var passFactories = map[string]func() Pass{
	"constant_folding":      func() Pass { return &ConstantFoldingPass{} },
	"simplify_cfg":          func() Pass { return &SimplifyCfgPass{} },
	"dead_code_elimination": func() Pass { return &DeadCodeEliminationPass{} },
	"remove_noops":          func() Pass { return &RemoveNoopsPass{} },
}

// New creates an Optimizer running the canonical pass sequence: constant
// folding, CFG simplification, dead-code elimination, no-op compaction.
func New(logger *zap.Logger) *Optimizer {
	opt, err := NewFromNames(logger, canonicalPassNames)
	if err != nil {
		// canonicalPassNames only ever names factories defined above.
		panic(err)
	}
	return opt
}

// NewFromNames builds an Optimizer whose pipeline is exactly the named
// passes, run in the given order with repeats honored — so
// config.OptimizerConfig.Passes controls both which passes run and in what
// multiplicity (SPEC_FULL.md §4.14), rather than being read and discarded.
// An empty names slice falls back to the canonical sequence.
func NewFromNames(logger *zap.Logger, names []string) (*Optimizer, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(names) == 0 {
		names = canonicalPassNames
	}
	passes := make([]Pass, 0, len(names))
	for _, name := range names {
		factory, ok := passFactories[name]
		if !ok {
			return nil, errors.Errorf("optimizer: unknown pass %q", name)
		}
		passes = append(passes, factory())
	}
	return &Optimizer{passes: passes, logger: logger}, nil
}

// AddPass appends a custom optimization pass to the end of the pipeline.
func (o *Optimizer) AddPass(pass Pass) {
	o.passes = append(o.passes, pass)
}

// Optimize runs every pass, once each, over every function of ctx.
func (o *Optimizer) Optimize(ctx *ir.Context) error {
	for _, f := range ctx.Functions().All() {
		fn := ctx.Functions().Get(f)
		if err := o.optimizeFunction(ctx.Types(), fn); err != nil {
			return errors.Wrapf(err, "optimizing function %s", fn.Name)
		}
	}
	return nil
}

func (o *Optimizer) optimizeFunction(types *ir.Types, fn *ir.FunctionData) error {
	for _, pass := range o.passes {
		o.logger.Debug("running pass", zap.String("pass", pass.Name()), zap.String("function", fn.Name))
		touched, err := pass.Run(types, fn)
		if err != nil {
			return errors.Wrapf(err, "pass %s", pass.Name())
		}
		diag.PassSummary(o.logger, pass.Name(), fn.Name, touched)
	}
	return nil
}
