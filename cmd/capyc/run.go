package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"

	"github.com/capy-lang/capyc/internal/linker"
)

// newRunCmd implements the `run` subcommand (§6 "run <entry> — build then
// execute"): identical to build, plus invoking the freshly linked
// executable and propagating its exit status.
func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <entry>",
		Short: "Compile an entry file and execute it",
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

			tmp, err := os.CreateTemp("", "capyc-run-*")
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			out := tmp.Name()
			tmp.Close()
			os.Remove(out)
			defer os.Remove(out)

			cc, _ := cmd.Flags().GetString("cc")
			target, _ := cmd.Flags().GetString("target")
			_, diag := linker.Link(res.Program, linker.Options{CC: cc, Target: target, OutputPath: out})
			if diag != nil {
				fmt.Fprintf(os.Stderr, "%s %s\n", colorRed("link error:"), diag.Message)
				os.Exit(2)
			}

			run := exec.Command(out)
			run.Stdout = os.Stdout
			run.Stderr = os.Stderr
			run.Stdin = os.Stdin
			if err := run.Run(); err != nil {
				if exitErr, ok := err.(*exec.ExitError); ok {
					os.Exit(exitErr.ExitCode())
				}
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			return nil
		},
	}
	return cmd
}
