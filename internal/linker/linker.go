// Package linker invokes the external C toolchain that turns codegen's
// emitted translation unit into a native executable (§4.5 "Linking", §1
// "linker driver invoking an external C toolchain" — a named external
// collaborator, not reimplemented here). Grounded on the teacher's own
// pattern of shelling out to an external binary and treating its exit code
// as the source of truth (internal/eval_analysis/validate.go's
// exec.Command("bin/ailang", ...) plus result-file collection), adapted
// from "run a sibling tool and load its JSON output" to "run a host cc and
// surface its stderr".
package linker

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/capy-lang/capyc/internal/codegen"
	"github.com/capy-lang/capyc/internal/diagnostics"
)

// Toolchain names the external C compiler driver to invoke. cc is the
// POSIX-mandated alias most host systems provide; Options.CC overrides it.
const Toolchain = "cc"

// Options configures one link invocation.
type Options struct {
	// CC overrides the compiler driver binary (default Toolchain).
	CC string
	// Target overrides the host triple the C toolchain builds for (§6
	// "--target <triple>"), passed through as cc's own -target flag.
	// Empty means "let cc pick its native default".
	Target string
	// OutputPath is the path of the produced executable.
	OutputPath string
	// ExtraLibs are additional -l flags beyond the mandatory libc link
	// (§4.5 "Object is handed to the external linker driver with a
	// mandatory libc dependency").
	ExtraLibs []string
	// KeepObject, if true, leaves the intermediate .c file next to
	// OutputPath instead of deleting it after a successful link.
	KeepObject bool
}

// Result carries the toolchain's own diagnostic output back to the driver
// even on success, mirroring §7 "Linker failure — surfaced verbatim".
type Result struct {
	ExecutablePath string
	SourcePath     string
	Stderr         string
}

// Link writes prog's C source to a temporary translation unit and invokes
// the external C compiler to produce an executable at opts.OutputPath.
// Failure of the driver is a fatal, non-recoverable LNK### diagnostic per
// §7: unlike every earlier phase, the caller is expected to stop rather
// than collect this alongside other diagnostics.
func Link(prog *codegen.Program, opts Options) (*Result, *diagnostics.Diagnostic) {
	cc := opts.CC
	if cc == "" {
		cc = Toolchain
	}
	if opts.OutputPath == "" {
		return nil, diagnostics.New(diagnostics.PhaseLink, diagnostics.INT001,
			"linker: Options.OutputPath must not be empty")
	}

	if _, err := exec.LookPath(cc); err != nil {
		return nil, diagnostics.New(diagnostics.PhaseLink, diagnostics.LNK001,
			fmt.Sprintf("external C toolchain %q not found on PATH", cc)).
			WithFix(fmt.Sprintf("install a C toolchain providing %q, or pass --cc", cc), 0.6)
	}

	srcPath := opts.OutputPath + ".capyobj.c"
	if err := os.WriteFile(srcPath, []byte(prog.Source), 0o644); err != nil {
		return nil, diagnostics.New(diagnostics.PhaseLink, diagnostics.INT001,
			fmt.Sprintf("failed to write intermediate translation unit: %s", err))
	}
	if !opts.KeepObject {
		defer os.Remove(srcPath)
	}

	args := ccArgs(srcPath, opts)

	cmd := exec.Command(cc, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, diagnostics.New(diagnostics.PhaseLink, diagnostics.LNK002,
			fmt.Sprintf("%s exited with error: %s", cc, err)).
			WithData("stderr", stderr.String()).
			WithData("args", args)
	}

	return &Result{
		ExecutablePath: opts.OutputPath,
		SourcePath:     srcPath,
		Stderr:         stderr.String(),
	}, nil
}

// ccArgs builds the argument list passed to the external C toolchain for
// srcPath under opts, split out from Link so the flag-threading logic is
// testable without actually shelling out to a compiler.
func ccArgs(srcPath string, opts Options) []string {
	args := []string{srcPath, "-o", opts.OutputPath, "-lc"}
	if opts.Target != "" {
		args = append(args, "-target", opts.Target)
	}
	for _, lib := range opts.ExtraLibs {
		args = append(args, "-l"+lib)
	}
	return args
}

// DefaultOutputPath derives an executable path from the entry source file,
// stripping its extension and placing the binary alongside it — the same
// "derive from the input, override with a flag" shape cmd/capyc's build
// command uses for --mod-dir (§6 CLI surface).
func DefaultOutputPath(entryPath string) string {
	base := filepath.Base(entryPath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	if name == "" {
		name = "a.out"
	}
	return filepath.Join(filepath.Dir(entryPath), name)
}
