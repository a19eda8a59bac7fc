package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"github.com/spf13/cobra"

	"github.com/capy-lang/capyc/internal/comptime"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/hirty"
	"github.com/capy-lang/capyc/internal/interner"
	"github.com/capy-lang/capyc/internal/parser"
	"github.com/capy-lang/capyc/internal/types"
)

// newReplCmd implements the `repl` subcommand: an interactive line editor
// (github.com/peterh/liner, the same dependency the teacher's own
// internal/repl uses) that evaluates one comptime expression per line
// against a fresh module graph, printing the raw evaluated Value — useful
// for exploring §4.4's comptime engine without a full build.
//
// Each line is wrapped as a single comptime const binding
// (`__repl__ :: comptime { <line> }`) and run through lowering, HIR-Ty and
// the comptime engine directly; the REPL is intentionally stateless across
// lines (no accumulated environment) since the engine's top-level binding
// lookup already re-resolves named declarations per evaluation.
func newReplCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactively evaluate comptime expressions",
		RunE: func(cmd *cobra.Command, args []string) error {
			runRepl()
			return nil
		},
	}
}

func runRepl() {
	fmt.Println(colorBold("capyc repl") + colorDim(" — evaluate a comptime expression per line, Ctrl-D to exit"))

	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	histPath := filepath.Join(os.TempDir(), ".capyc_repl_history")
	if f, err := os.Open(histPath); err == nil {
		line.ReadHistory(f)
		f.Close()
	}
	defer func() {
		if f, err := os.Create(histPath); err == nil {
			line.WriteHistory(f)
			f.Close()
		}
	}()

	for {
		input, err := line.Prompt("capy> ")
		if err != nil {
			fmt.Println()
			return
		}
		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		line.AppendHistory(input)
		if input == ":quit" || input == ":q" {
			return
		}
		evalReplLine(input)
	}
}

func evalReplLine(src string) {
	wrapped := fmt.Sprintf("__repl__ :: comptime { %s }", src)
	p := parser.New(wrapped, "<repl>")
	f := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Println(colorRed("parse error:"), e)
		}
		return
	}

	interns := interner.New()
	table := types.NewTable()
	lowerer := hir.NewLowerer(interns, hir.ModuleID(0), f.Path)
	mod := lowerer.LowerFile(f)
	if diags := lowerer.Diagnostics(); diags.HasErrors() {
		printReplDiagnostics(diags)
		return
	}

	checker := hirty.NewChecker(table, nil)
	engine := comptime.NewEngine(checker, interns)
	checker.SetComptime(engine)
	checker.Check(mod)
	if checker.Diagnostics().HasErrors() {
		printReplDiagnostics(checker.Diagnostics())
		return
	}

	for _, b := range mod.Decls {
		block, ok := b.Init.(*hir.ComptimeExpr)
		if !ok {
			continue
		}
		v, diag := engine.EvalForCodegen(block, 0)
		if diag != nil {
			fmt.Println(colorRed("error:"), diag.Message)
			return
		}
		fmt.Println(colorCyan("=>"), v.String())
		return
	}
}

func printReplDiagnostics(d *diagnostics.Bag) {
	for _, diag := range d.All() {
		fmt.Println(colorRed("error:"), diag.Message)
	}
}
