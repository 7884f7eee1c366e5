package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spoke/internal/driver"
)

func newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [flags] [file.spoke|dir|-]",
		Short: "Generate flat tests from spoke files",
		Long: `Gen expands every spoke file into a test module written next to it
(or into --out-dir). With "-" the suite is read from stdin and the module is
printed to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runGen,
	}
	cmd.Flags().String("out-dir", "", "directory for generated files (default: next to each input)")
	cmd.Flags().Bool("stdout", false, "print generated code instead of writing files")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().String("ui", "auto", "progress UI for directories (auto|on|off)")
	cmd.Flags().Bool("disk-cache", false, "reuse generated output from the persistent cache")
	cmd.Flags().String("module", "", "name of the generated test module (overrides spoke.toml)")
	cmd.Flags().Bool("tabs", false, "indent generated code with tabs")
	cmd.Flags().Int("indent", 0, "spaces per indentation level (0 = 4)")
	return cmd
}

func runGen(cmd *cobra.Command, args []string) error {
	target := targetArg(args)
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}

	outDir, err := cmd.Flags().GetString("out-dir")
	if err != nil {
		return fmt.Errorf("failed to get out-dir flag: %w", err)
	}
	toStdout, err := cmd.Flags().GetBool("stdout")
	if err != nil {
		return fmt.Errorf("failed to get stdout flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	uiFlag, err := cmd.Flags().GetString("ui")
	if err != nil {
		return fmt.Errorf("failed to get ui flag: %w", err)
	}
	mode, err := readUIMode(uiFlag)
	if err != nil {
		return err
	}
	useCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}
	module, err := cmd.Flags().GetString("module")
	if err != nil {
		return fmt.Errorf("failed to get module flag: %w", err)
	}
	tabs, err := cmd.Flags().GetBool("tabs")
	if err != nil {
		return fmt.Errorf("failed to get tabs flag: %w", err)
	}
	indent, err := cmd.Flags().GetInt("indent")
	if err != nil {
		return fmt.Errorf("failed to get indent flag: %w", err)
	}

	if module != "" {
		s.opts.Render.Module = module
	}
	s.opts.Render.UseTabs = tabs
	s.opts.Render.IndentWidth = indent
	s.opts.OutDir = outDir
	s.opts.Jobs = jobs
	s.opts.Write = !toStdout && target != driver.StdinPath
	if useCache {
		openCache(cmd, s)
	}
	if toStdout {
		mode = uiModeOff
	}

	results, err := runTarget(cmd, s, target, "spoke gen", mode)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	for _, res := range results {
		printDiagnostics(errOut, res, s, defaultPrettyOpts())
		if !s.opts.Write {
			if _, err := out.Write(res.Rendered); err != nil {
				return err
			}
		} else if !s.quiet && res.OutPath != "" {
			suffix := ""
			if res.Cached {
				suffix = ", cached"
			}
			fmt.Fprintf(out, "generated %s (%d tests%s)\n", res.OutPath, len(res.Output.Tests), suffix)
		}
		if s.timings {
			printStageTimings(errOut, res)
		}
	}

	if failed := countFailures(results, false); failed > 0 {
		return fmt.Errorf("generation finished with errors in %d of %d file(s)", failed, len(results))
	}
	return nil
}
