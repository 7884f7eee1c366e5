package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"spoke/internal/diag"
	"spoke/internal/diagfmt"
	"spoke/internal/driver"
)

// targetArg returns the single path argument or "." when none was given.
func targetArg(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return "."
	}
	return args[0]
}

// runTarget generates a file, stdin or every input file of a directory.
func runTarget(cmd *cobra.Command, s *settings, target, title string, mode uiMode) ([]*driver.Result, error) {
	ctx := cmd.Context()
	if target != driver.StdinPath && isDir(target) {
		if !s.quiet && mode.wantsTUI() {
			files, err := driver.ListFiles(target, s.opts.Extension)
			if err != nil {
				return nil, err
			}
			if len(files) > 0 {
				return runGenerateDirWithUI(ctx, title, target, files, s.opts)
			}
		}
		return driver.GenerateDir(ctx, target, s.opts, nil)
	}
	res, err := driver.Generate(ctx, target, s.opts)
	if err != nil {
		return nil, err
	}
	return []*driver.Result{res}, nil
}

// printDiagnostics prints the bag of res in the pretty format.
func printDiagnostics(w io.Writer, res *driver.Result, s *settings, opts diagfmt.PrettyOpts) {
	if res.Bag == nil || res.Bag.Len() == 0 {
		return
	}
	opts.Color = s.color
	diagfmt.Pretty(w, res.Bag, res.FileSet, opts)
}

// countFailures returns how many results have errors (or warnings when
// warningsAsErrors is set).
func countFailures(results []*driver.Result, warningsAsErrors bool) int {
	n := 0
	for _, res := range results {
		if res.HasErrors() || (warningsAsErrors && res.Bag.Count(diag.SevWarning) > 0) {
			n++
		}
	}
	return n
}

// printStageTimings prints the per-stage table of one file.
func printStageTimings(out io.Writer, res *driver.Result) {
	if out == nil || res == nil {
		return
	}
	fmt.Fprintf(out, "%s ", res.Path)
	fmt.Fprint(out, res.Timings.Summary())
}

func defaultPrettyOpts() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{Context: 1, ShowNotes: true, ShowFixes: true}
}
