package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"spoke/internal/driver"
)

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [flags] [file.spoke|dir|-]",
		Short: "List the tests a spoke suite expands to",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runList,
	}
	cmd.Flags().String("format", "text", "output format (text|json|yaml)")
	return cmd
}

type listedFile struct {
	Path  string       `json:"path" yaml:"path"`
	Tests []listedTest `json:"tests" yaml:"tests"`
}

type listedTest struct {
	Name  string `json:"name" yaml:"name"`
	Title string `json:"title" yaml:"title"`
	Line  uint32 `json:"line" yaml:"line"`
	Col   uint32 `json:"col" yaml:"col"`
}

func runList(cmd *cobra.Command, args []string) error {
	target := targetArg(args)
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	s, err := loadSettings(cmd, target)
	if err != nil {
		return err
	}
	s.opts.Write = false
	results, err := runTarget(cmd, s, target, "spoke list", uiModeOff)
	if err != nil {
		return err
	}

	files := collectListing(results)
	out := cmd.OutOrStdout()
	switch format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		err = enc.Encode(files)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err = enc.Encode(files); err == nil {
			err = enc.Close()
		}
	default:
		writeListing(out, files)
	}
	if err != nil {
		return err
	}

	if failed := countFailures(results, false); failed > 0 {
		for _, res := range results {
			printDiagnostics(cmd.ErrOrStderr(), res, s, defaultPrettyOpts())
		}
		return fmt.Errorf("listing finished with errors in %d of %d file(s)", failed, len(results))
	}
	return nil
}

func collectListing(results []*driver.Result) []listedFile {
	files := make([]listedFile, 0, len(results))
	for _, res := range results {
		lf := listedFile{Path: res.Path, Tests: make([]listedTest, 0, len(res.Output.Tests))}
		for _, tc := range res.Output.Tests {
			lt := listedTest{Name: tc.Name, Title: tc.Full}
			if res.FileSet != nil && int(tc.Anchor.File) < res.FileSet.Len() {
				start, _ := res.FileSet.Resolve(tc.Anchor)
				lt.Line, lt.Col = start.Line, start.Col
			}
			lf.Tests = append(lf.Tests, lt)
		}
		files = append(files, lf)
	}
	return files
}

func writeListing(w io.Writer, files []listedFile) {
	for _, f := range files {
		fmt.Fprintf(w, "%s (%d tests)\n", f.Path, len(f.Tests))
		for _, t := range f.Tests {
			fmt.Fprintf(w, "  %d:%d %s  %s\n", t.Line, t.Col, t.Name, t.Title)
		}
	}
}
