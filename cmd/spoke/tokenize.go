package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"spoke/internal/diagfmt"
	"spoke/internal/driver"
)

func newTokenizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tokenize [flags] file.spoke|-",
		Short: "Tokenize a spoke source file",
		Long:  `Tokenize prints the tokens of a spoke file, flat or as the delimiter tree the parser consumes`,
		Args:  cobra.ExactArgs(1),
		RunE:  runTokenize,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("tree", false, "group tokens by delimiters")
	return cmd
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	tree, err := cmd.Flags().GetBool("tree")
	if err != nil {
		return fmt.Errorf("failed to get tree flag: %w", err)
	}
	s, err := loadSettings(cmd, filePath)
	if err != nil {
		return err
	}

	fs, id, err := driver.LoadFile(filePath, cmd.InOrStdin())
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	var result *driver.TokenizeResult
	if tree {
		result = driver.TokenizeTree(fs, id, s.opts.MaxDiagnostics)
	} else {
		result = driver.Tokenize(fs, id, s.opts.MaxDiagnostics)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		diagfmt.Pretty(cmd.ErrOrStderr(), result.Bag, result.FileSet, diagfmt.PrettyOpts{
			Color:   s.color,
			Context: 2,
		})
	}

	switch format {
	case "pretty":
		return diagfmt.FormatTokensPretty(cmd.OutOrStdout(), result.Tokens, result.FileSet)
	case "json":
		return diagfmt.FormatTokensJSON(cmd.OutOrStdout(), result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
