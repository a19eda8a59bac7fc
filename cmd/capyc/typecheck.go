package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/capy-lang/capyc/internal/driver"
	"github.com/capy-lang/capyc/internal/hir"
)

// newTypecheckCmd implements the `typecheck` subcommand: runs the pipeline
// through HIR-Ty only (§4.3), reporting diagnostics without ever touching
// codegen or the linker — useful for editor tooling that wants fast
// feedback without paying for (or risking a spurious CDG### from) C
// emission.
func newTypecheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "typecheck <entry>",
		Short: "Type-check an entry file without generating code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, _, err := parseEntry(args[0])
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}

			res := driver.CheckFile(f, hir.ModuleID(0))
			hasErrors := renderDiagnostics(cmd, res.Diags)
			if hasErrors {
				os.Exit(1)
			}
			fmt.Println(colorGreen("ok") + " " + args[0])
			return nil
		},
	}
}
