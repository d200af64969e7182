// Package main provides the irc compiler driver: a cobra-based CLI wrapping
// the pipeline parse -> semantic analysis -> lower -> validate -> dump
// (pre) -> optimize -> validate -> dump (post).
//
// Future versions will add code generation for target architectures.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hassandahiru/irc/internal/config"
	"github.com/hassandahiru/irc/internal/diag"
	"github.com/hassandahiru/irc/internal/ir"
	"github.com/hassandahiru/irc/internal/ir/printer"
	"github.com/hassandahiru/irc/internal/lexer"
	"github.com/hassandahiru/irc/internal/lower"
	"github.com/hassandahiru/irc/internal/optimizer"
	"github.com/hassandahiru/irc/internal/parser"
	"github.com/hassandahiru/irc/internal/semantic"
)

// version is set at build time via -ldflags; "dev" otherwise.
var version = "dev"

var (
	flagConfig      string
	flagDumpFormat  string
	flagColor       bool
	flagMaxIters    int
	flagLogLevel    string
	flagColorIsSet  bool
	flagFormatIsSet bool
)

func main() {
	root := &cobra.Command{
		Use:   "irc",
		Short: "A compiler intermediate-representation toolkit",
	}

	compile := &cobra.Command{
		Use:   "compile <source-file>",
		Short: "Run the full pipeline over a source file and print before/after dumps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flagColorIsSet = cmd.Flags().Changed("color")
			flagFormatIsSet = cmd.Flags().Changed("dump-format")
			return runCompile(args[0])
		},
	}
	compile.Flags().StringVar(&flagConfig, "config", "", "path to compiler.toml (default: ./compiler.toml if present)")
	compile.Flags().StringVar(&flagDumpFormat, "dump-format", "", "text or dot")
	compile.Flags().BoolVar(&flagColor, "color", false, "colorize the textual dump")
	compile.Flags().IntVar(&flagMaxIters, "max-iterations", 0, "optimizer pass iterations (0: use config/default)")
	compile.Flags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn, or error")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the irc version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version)
			return nil
		},
	}

	root.AddCommand(compile, versionCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	path := flagConfig
	if path == "" {
		path = config.DefaultFileName
	}
	return config.Load(path)
}

func runCompile(filename string) error {
	cfg, err := loadConfig()
	if err != nil {
		return errors.Wrap(err, "loading configuration")
	}

	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}
	if flagFormatIsSet {
		cfg.Dump.Format = flagDumpFormat
	}
	if flagColorIsSet {
		cfg.Dump.Color = flagColor
	}
	if flagMaxIters > 0 {
		cfg.Optimizer.MaxIterations = flagMaxIters
	}

	logger := diag.NewLogger(cfg.Log.Level)
	defer logger.Sync()

	source, err := os.ReadFile(filename)
	if err != nil {
		return errors.Wrapf(err, "reading %s", filename)
	}

	diag.Stage(logger, "parse")
	lex := lexer.New(string(source), filename)
	p := parser.New(lex)
	file, parseErrs := p.ParseFile(filename)
	if len(parseErrs) > 0 {
		return reportErrors("parsing", parseErrs)
	}

	diag.Stage(logger, "semantic_analysis")
	analyzer := semantic.New()
	if semErrs := analyzer.Analyze(file); len(semErrs) > 0 {
		return reportErrors("semantic analysis", semErrs)
	}

	diag.Stage(logger, "ir_build")
	ctx := ir.NewContext()
	lw := lower.New(ctx, analyzer)
	if lowerErrs := lw.LowerFile(file); len(lowerErrs) > 0 {
		return reportErrors("lowering", lowerErrs)
	}

	diag.Stage(logger, "validate")
	if validationErrs := ctx.Validate(); len(validationErrs) > 0 {
		for _, e := range validationErrs {
			logger.Error("validation failure", zap.String("function", e.Function), zap.String("detail", e.Error()))
		}
		return fmt.Errorf("IR failed validation with %d error(s)", len(validationErrs))
	}

	p2 := printer.New(ctx.Types())
	p2.Color = cfg.Dump.Color
	fmt.Println(heading("Unoptimized IR", cfg.Dump.Color))
	fmt.Println(dump(p2, ctx, cfg.Dump.Format))

	diag.Stage(logger, "optimize")
	opt, err := optimizer.NewFromNames(logger, cfg.Optimizer.Passes)
	if err != nil {
		return errors.Wrap(err, "building optimizer pipeline")
	}
	iterations := cfg.Optimizer.MaxIterations
	if iterations < 1 {
		iterations = 1
	}
	for i := 0; i < iterations; i++ {
		if err := opt.Optimize(ctx); err != nil {
			return errors.Wrap(err, "optimizing")
		}
	}

	if validationErrs := ctx.Validate(); len(validationErrs) > 0 {
		for _, e := range validationErrs {
			logger.Error("post-optimization validation failure", zap.String("function", e.Function), zap.String("detail", e.Error()))
		}
		return fmt.Errorf("optimized IR failed validation with %d error(s)", len(validationErrs))
	}

	fmt.Println(heading("Optimized IR", cfg.Dump.Color))
	fmt.Println(dump(p2, ctx, cfg.Dump.Format))
	return nil
}

func dump(p *printer.Printer, ctx *ir.Context, format string) string {
	if format == "dot" {
		return p.Dot(ctx)
	}
	return p.Context(ctx)
}

func heading(title string, useColor bool) string {
	text := fmt.Sprintf("=== %s ===", title)
	if !useColor {
		return text
	}
	return color.New(color.FgHiCyan, color.Bold).Sprint(text)
}

func reportErrors(stage string, errs []error) error {
	fmt.Fprintf(os.Stderr, "%s errors:\n", stage)
	for _, e := range errs {
		fmt.Fprintf(os.Stderr, "  %v\n", e)
	}
	return fmt.Errorf("%s failed with %d error(s)", stage, len(errs))
}
