package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/capy-lang/capyc/internal/linker"
)

// newBuildCmd implements the `build` subcommand (§6 "build <entry>
// produces an executable"): compile the entry file all the way through
// codegen, then hand the emitted translation unit to the external C
// toolchain. Exit codes follow §6 exactly: 0 success, 1 diagnostics
// emitted, 2 driver/internal error.
func newBuildCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "build <entry>",
		Short: "Compile an entry file to a native executable",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := compile(cmd, args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			hasErrors := renderDiagnostics(cmd, res.Diags)
			if hasErrors || res.Program == nil {
				os.Exit(1)
			}

			out := output
			if out == "" {
				out = linker.DefaultOutputPath(args[0])
			}
			cc, _ := cmd.Flags().GetString("cc")
			target, _ := cmd.Flags().GetString("target")

			result, diag := linker.Link(res.Program, linker.Options{CC: cc, Target: target, OutputPath: out})
			if diag != nil {
				fmt.Fprintf(os.Stderr, "%s %s\n", colorRed("link error:"), diag.Message)
				os.Exit(2)
			}
			fmt.Println(colorGreen("built") + " " + result.ExecutablePath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output executable path (default: derived from entry)")
	return cmd
}
