package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"spoke/internal/project"
)

const exampleSuite = `use std::collections::HashMap;

$"a map" {
    let mut m = HashMap::new();
    $"starts empty" m.is_empty();
    $"after insert" {
        m.insert("k", 1);
        $"has the value" m.get("k") $eq Some(&1);
        $"is not empty" m.len() $ne 0;
    }
}
`

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init [path]",
		Short: "Initialize a spoke project",
		Long: `Initialize a spoke project by creating spoke.toml and an example suite.
If [path] is omitted, the current directory is initialized; a missing
directory is created.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runInit,
	}
}

func runInit(cmd *cobra.Command, args []string) error {
	target := targetArg(args)
	abs, err := filepath.Abs(target)
	if err != nil {
		return err
	}

	if st, err := os.Stat(abs); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(abs, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", abs, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", abs)
	}

	if _, err := project.WriteDefault(abs); err != nil {
		return err
	}

	examplePath := filepath.Join(abs, "example"+project.DefaultExtension)
	createdExample := false
	if _, err := os.Stat(examplePath); errors.Is(err, os.ErrNotExist) {
		if err := os.WriteFile(examplePath, []byte(exampleSuite), 0o600); err != nil {
			return fmt.Errorf("failed to write example suite: %w", err)
		}
		createdExample = true
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Initialized spoke project in %s\n", target)
	fmt.Fprintf(out, "  - %s\n", project.ManifestName)
	if createdExample {
		fmt.Fprintf(out, "  - %s\n", filepath.Base(examplePath))
	} else {
		fmt.Fprintf(out, "  - %s (existing)\n", filepath.Base(examplePath))
	}
	return nil
}
