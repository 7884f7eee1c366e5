package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"spoke/internal/version"
)

const versionTagline = "flatten the suite, keep the story"

// versionPayload is the json output of `spoke version`.
type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Tagline   string `json:"tagline"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
}

func newVersionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show spoke build fingerprints",
		Args:  cobra.NoArgs,
		RunE:  runVersion,
	}
	cmd.Flags().Bool("hash", false, "include git commit hash")
	cmd.Flags().Bool("date", false, "include build timestamp")
	cmd.Flags().Bool("full", false, "show every recorded bit of build metadata")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func runVersion(cmd *cobra.Command, _ []string) error {
	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	format = strings.ToLower(format)
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
	var showHash, showDate, showFull bool
	for name, dst := range map[string]*bool{"hash": &showHash, "date": &showDate, "full": &showFull} {
		if *dst, err = flags.GetBool(name); err != nil {
			return fmt.Errorf("failed to get %s flag: %w", name, err)
		}
	}
	showHash = showHash || showFull
	showDate = showDate || showFull

	info := version.Current()
	payload := versionPayload{Tool: "spoke", Version: info.Version, Tagline: versionTagline}
	if showHash {
		payload.GitCommit = orUnknown(info.GitCommit)
	}
	if showDate {
		payload.BuildDate = orUnknown(info.BuildDate)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	}

	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColor(colorFlag, stdoutFile(cmd))
	if err != nil {
		return err
	}
	v := payload.Version
	if useColor {
		v = version.Colored(v)
	}
	fmt.Fprintf(out, "spoke %s: %s\n", v, payload.Tagline)
	if payload.GitCommit != "" {
		fmt.Fprintf(out, "commit: %s\n", payload.GitCommit)
	}
	if payload.BuildDate != "" {
		fmt.Fprintf(out, "built:  %s\n", payload.BuildDate)
	}
	if !showHash && !showDate {
		fmt.Fprintln(out, "set --hash, --date, or --full for more build trivia")
	}
	return nil
}

func orUnknown(s string) string {
	if s == "" {
		return "unknown"
	}
	return s
}
