// Command capyc is the compiler driver for the Language (§6 "CLI surface").
// It wires together internal/parser, internal/driver and internal/linker
// behind a cobra root command, the same way the teacher's cmd/ailang wires
// its own lexer/parser/eval trio behind a flag-based dispatcher — rebuilt
// here on github.com/spf13/cobra + github.com/spf13/pflag per SPEC_FULL's
// ambient-stack CLI dependency.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// Version info, overridable by -ldflags the way cmd/ailang's main.go does.
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

var (
	colorGreen  = color.New(color.FgGreen).SprintFunc()
	colorRed    = color.New(color.FgRed).SprintFunc()
	colorYellow = color.New(color.FgYellow).SprintFunc()
	colorCyan   = color.New(color.FgCyan).SprintFunc()
	colorBold   = color.New(color.Bold).SprintFunc()
	colorDim    = color.New(color.Faint).SprintFunc()
)

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		os.Exit(2)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "capyc",
		Short:         "Compiler driver for the Language",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime),
	}

	root.PersistentFlags().String("mod-dir", "", "override the registry modules directory (§6)")
	root.PersistentFlags().String("cache-dir", "", "override the on-disk comptime cache directory")
	root.PersistentFlags().String("cc", "", "override the external C toolchain driver (default cc)")
	root.PersistentFlags().String("target", "", "override host triple, passed to the C toolchain as -target")
	root.PersistentFlags().Bool("no-cache", false, "disable the on-disk comptime cache")
	root.PersistentFlags().Bool("json", false, "emit diagnostics as schema-versioned JSON instead of colored text")
	root.PersistentFlags().Bool("json-compact", false, "when --json is set, omit indentation from the rendered documents")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newTypecheckCmd())
	root.AddCommand(newReplCmd())

	return root
}
