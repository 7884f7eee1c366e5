package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spoke/internal/diag"
	"spoke/internal/diagfmt"
	"spoke/internal/pipeline"
)

func newCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [flags] [file.spoke|dir|-]",
		Short: "Report diagnostics without writing generated files",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().Bool("no-warnings", false, "ignore warnings in diagnostics")
	cmd.Flags().Bool("warnings-as-errors", false, "treat warnings as errors")
	cmd.Flags().Int("jobs", 0, "max parallel workers for directory processing (0=auto)")
	cmd.Flags().Bool("with-notes", false, "include diagnostic notes in output")
	cmd.Flags().Bool("suggest", false, "include fix suggestions in output")
	cmd.Flags().Bool("preview", false, "show fix suggestions applied to the source line")
	cmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	cmd.Flags().Bool("disk-cache", false, "reuse results from the persistent cache")
	return cmd
}

// checkReport is the json output of `spoke check`.
type checkReport struct {
	Files []checkFile `json:"files"`
	Count int         `json:"count"`
}

type checkFile struct {
	Path        string           `json:"path"`
	Tests       int              `json:"tests"`
	Cached      bool             `json:"cached,omitempty"`
	Diagnostics diagfmt.Report   `json:"diagnostics"`
	Timings     *pipeline.Report `json:"timings,omitempty"`
}

func runCheck(cmd *cobra.Command, args []string) error {
	target := targetArg(args)
	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "pretty", "json", "short":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	noWarnings, err := cmd.Flags().GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	warningsAsErrors, err := cmd.Flags().GetBool("warnings-as-errors")
	if err != nil {
		return fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	useCache, err := cmd.Flags().GetBool("disk-cache")
	if err != nil {
		return fmt.Errorf("failed to get disk-cache flag: %w", err)
	}

	s.opts.Jobs = jobs
	s.opts.EmitTimings = s.timings && format == "json"
	if useCache {
		openCache(cmd, s)
	}

	results, err := runTarget(cmd, s, target, "spoke check", uiModeOff)
	if err != nil {
		return err
	}
	if noWarnings {
		for _, res := range results {
			res.Bag = dropWarnings(res.Bag)
		}
	}

	pathMode := diagfmt.PathModeRelative
	if fullPath {
		pathMode = diagfmt.PathModeAbsolute
	}

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		report := checkReport{Files: make([]checkFile, 0, len(results))}
		for _, res := range results {
			file := checkFile{
				Path:   res.Path,
				Tests:  len(res.Output.Tests),
				Cached: res.Cached,
				Diagnostics: diagfmt.BuildReport(res.Bag, res.FileSet, diagfmt.JSONOpts{
					IncludePositions: true,
					PathMode:         pathMode,
					IncludeNotes:     withNotes,
					IncludeFixes:     suggest,
					IncludePreviews:  preview,
				}),
			}
			if s.timings {
				rep := res.Timings.Report()
				file.Timings = &rep
			}
			report.Count += file.Diagnostics.Count
			report.Files = append(report.Files, file)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	case "short":
		for _, res := range results {
			diagfmt.Short(out, res.Bag, res.FileSet, withNotes)
		}
	default:
		for _, res := range results {
			printDiagnostics(out, res, s, diagfmt.PrettyOpts{
				Context:     1,
				PathMode:    pathMode,
				ShowNotes:   withNotes,
				ShowFixes:   suggest || preview,
				ShowPreview: preview,
			})
			if s.timings {
				printStageTimings(cmd.ErrOrStderr(), res)
			}
		}
	}

	failed := countFailures(results, warningsAsErrors)
	if failed > 0 {
		return fmt.Errorf("check failed for %d of %d file(s)", failed, len(results))
	}
	if format == "pretty" && !s.quiet {
		tests := 0
		for _, res := range results {
			tests += len(res.Output.Tests)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "ok: %d file(s), %d test(s)\n", len(results), tests)
	}
	return nil
}

// dropWarnings returns a copy of bag without warnings.
func dropWarnings(bag *diag.Bag) *diag.Bag {
	if bag == nil {
		return nil
	}
	filtered := diag.NewBag(bag.Cap())
	for _, d := range bag.Items() {
		if d.Severity != diag.SevWarning {
			filtered.Add(d)
		}
	}
	return filtered
}
