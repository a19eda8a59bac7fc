package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/capy-lang/capyc/internal/ast"
	"github.com/capy-lang/capyc/internal/cache"
	"github.com/capy-lang/capyc/internal/diagnostics"
	"github.com/capy-lang/capyc/internal/driver"
	"github.com/capy-lang/capyc/internal/hir"
	"github.com/capy-lang/capyc/internal/module"
	"github.com/capy-lang/capyc/internal/parser"
	"github.com/capy-lang/capyc/internal/schema"
)

// parseEntry reads and parses path, surfacing parser errors the same way a
// PAR-coded Diagnostic would read, even though internal/parser keeps its
// own plain []error accumulator rather than a diagnostics.Bag (§7's
// taxonomy only covers re-validating already-parsed output).
func parseEntry(path string) (*ast.File, []byte, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading %s: %w", path, err)
	}
	p := parser.New(string(src), path)
	f := p.ParseFile()
	if errs := p.Errors(); len(errs) > 0 {
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "%s %v\n", colorRed("parse error:"), e)
		}
		return nil, nil, fmt.Errorf("%d parse error(s) in %s", len(errs), path)
	}
	return f, src, nil
}

// checkImports resolves (but does not fetch or compile) every #mod/#import
// directive the entry file declares, so a missing dependency is reported
// up front instead of surfacing as a confusing downstream NAM001. Only
// "core" is ever auto-fetched (§6); every other missing registry module is
// reported here as a plain resolution failure.
func checkImports(f *ast.File, modDir string) []error {
	r := module.NewResolver(modDir)
	var errs []error
	for _, imp := range f.Imports {
		switch imp.Kind {
		case ast.ImportFile:
			if _, err := r.ResolveFileImport(imp.Path, f.Path); err != nil {
				errs = append(errs, err)
			}
		case ast.ImportMod:
			if err := r.EnsureFetched(imp.Path, nil); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errs
}

// compile runs an entry file all the way through codegen, honoring the
// root command's --mod-dir/--cache-dir/--no-cache flags.
func compile(cmd *cobra.Command, path string) (*driver.Result, error) {
	f, src, err := parseEntry(path)
	if err != nil {
		return nil, err
	}

	modDir, _ := cmd.Flags().GetString("mod-dir")
	if importErrs := checkImports(f, modDir); len(importErrs) > 0 {
		for _, e := range importErrs {
			fmt.Fprintf(os.Stderr, "%s %v\n", colorRed("module error:"), e)
		}
		return nil, fmt.Errorf("%d unresolved import(s) in %s", len(importErrs), path)
	}

	opts := driver.Options{}
	noCache, _ := cmd.Flags().GetBool("no-cache")
	if !noCache {
		cacheDir, _ := cmd.Flags().GetString("cache-dir")
		opts.Source = src
		opts.Cache = cache.New(cacheDir)
	}

	res := driver.CompileFile(f, hir.ModuleID(0), opts)
	return res, nil
}

// renderDiagnostics prints every diagnostic to stderr, and reports whether
// any were errors (as opposed to warnings, which never block the caller,
// §7 "warnings never block codegen"). With --json it renders each
// diagnostic through schema.MarshalDeterministic/FormatJSON instead of the
// colored, span-anchored text a human reads at a terminal; --json-compact
// additionally drops FormatJSON's indentation via schema.SetCompactMode,
// for piping into a log collector that expects one line per record.
func renderDiagnostics(cmd *cobra.Command, diags *diagnostics.Bag) (hasErrors bool) {
	asJSON, _ := cmd.Flags().GetBool("json")
	compact, _ := cmd.Flags().GetBool("json-compact")
	schema.SetCompactMode(compact)

	for _, d := range diags.All() {
		if d.Severity == diagnostics.SevError {
			hasErrors = true
		}
		if asJSON {
			out, err := d.ToJSON()
			if err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", colorRed("diagnostic encoding error:"), err)
				continue
			}
			fmt.Fprintln(os.Stderr, out)
			continue
		}
		label := colorYellow("warning")
		if d.Severity == diagnostics.SevError {
			label = colorRed("error")
		}
		loc := ""
		if d.Span != nil {
			loc = d.Span.Start.String() + ": "
		}
		fmt.Fprintf(os.Stderr, "%s%s[%s]: %s\n", loc, label, d.Code, d.Message)
		if d.Fix != nil {
			fmt.Fprintf(os.Stderr, "  %s %s\n", colorCyan("help:"), d.Fix.Suggestion)
		}
	}
	return hasErrors
}
