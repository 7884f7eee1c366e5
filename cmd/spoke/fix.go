package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"spoke/internal/diag"
	"spoke/internal/driver"
	"spoke/internal/fix"
)

func newFixCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fix [flags] [file.spoke|dir]",
		Short: "Apply suggested fixes to spoke files in place",
		Long: `Fix regenerates diagnostics for each file and rewrites the source with the
suggestions they carry (for example lowercasing a mis-cased assertion type).
Without --all only the first fix of every file is applied.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runFix,
	}
	cmd.Flags().Bool("all", false, "apply every non-conflicting fix")
	return cmd
}

func runFix(cmd *cobra.Command, args []string) error {
	target := targetArg(args)
	if target == driver.StdinPath {
		return errors.New("fix rewrites files in place and cannot read stdin")
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return fmt.Errorf("failed to get all flag: %w", err)
	}
	mode := fix.ModeOnce
	if all {
		mode = fix.ModeAll
	}

	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	// кэш не хранит правки, поэтому диагностики всегда строятся заново
	s.opts.Cache = nil
	s.opts.Write = false
	results, err := runTarget(cmd, s, target, "spoke fix", uiModeOff)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	applied := 0
	for _, res := range results {
		if res.FileSet == nil || res.Bag == nil {
			continue
		}
		fixed, err := fix.Apply(res.FileSet, res.Bag.Items(), mode)
		if errors.Is(err, fix.ErrNoFixes) {
			continue
		}
		if err != nil {
			return fmt.Errorf("%s %s: %w", diag.IOWriteError.ID(), res.Path, err)
		}
		for _, a := range fixed.Applied {
			applied++
			if !s.quiet {
				fmt.Fprintf(out, "fixed %s: %s [%s]\n", a.Path, a.Title, a.Code.ID())
			}
		}
		for _, sk := range fixed.Skipped {
			if !s.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "skipped %s: %s\n", sk.ID, sk.Reason)
			}
		}
	}
	if !s.quiet {
		fmt.Fprintf(out, "%d fix(es) applied\n", applied)
	}
	return nil
}
