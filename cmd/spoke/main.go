package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"spoke/internal/prof"
	"spoke/internal/version"
)

// newRootCmd builds the command tree with every subcommand and the global flags.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "spoke",
		Short:         "Expand nested spoke test suites into flat unit tests",
		Long:          `spoke turns the nested $"name" test notation into flat #[test] functions`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(newGenCmd())
	rootCmd.AddCommand(newCheckCmd())
	rootCmd.AddCommand(newFixCmd())
	rootCmd.AddCommand(newTokenizeCmd())
	rootCmd.AddCommand(newListCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newCacheCmd())
	rootCmd.AddCommand(newVersionCmd())

	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.Bool("quiet", false, "suppress non-essential output")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	flags.String("config", "", "path to spoke.toml (default: search upwards from the input)")
	flags.String("trace", "", "write trace events to a file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "ring", "trace storage mode (stream|ring|both)")
	flags.String("trace-format", "auto", "trace output format (auto|text|ndjson)")
	flags.Int("trace-ring-size", 4096, "number of events kept in ring mode")
	flags.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0 = off)")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	var run session
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		return run.open(cmd)
	}
	closeAfterRun(rootCmd, run.close)
	return rootCmd
}

// session holds what a command run opens before RunE and must release
// after it, whether RunE fails or not.
type session struct {
	profiler *prof.Session
	tracing  *traceSession
	errOut   io.Writer
}

func (s *session) open(cmd *cobra.Command) error {
	s.errOut = cmd.ErrOrStderr()
	var err error
	if s.profiler, err = startProfiling(cmd); err != nil {
		return err
	}
	if s.tracing, err = startTracing(cmd); err != nil {
		s.close()
		return err
	}
	return nil
}

func (s *session) close() {
	s.tracing.close()
	if err := s.profiler.Stop(); err != nil {
		fmt.Fprintln(s.errOut, "profile:", err)
	}
	*s = session{}
}

// closeAfterRun wraps every RunE below cmd so that release runs after it.
func closeAfterRun(cmd *cobra.Command, release func()) {
	for _, sub := range cmd.Commands() {
		closeAfterRun(sub, release)
		if sub.RunE == nil {
			continue
		}
		run := sub.RunE
		sub.RunE = func(c *cobra.Command, args []string) error {
			defer release()
			return run(c, args)
		}
	}
}

func startProfiling(cmd *cobra.Command) (*prof.Session, error) {
	flags := cmd.Root().PersistentFlags()
	var cfg prof.Config
	var err error
	if cfg.CPU, err = flags.GetString("cpu-profile"); err != nil {
		return nil, fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if cfg.Mem, err = flags.GetString("mem-profile"); err != nil {
		return nil, fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if cfg.Runtime, err = flags.GetString("runtime-trace"); err != nil {
		return nil, fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !cfg.Enabled() {
		return nil, nil
	}
	return prof.Start(cfg)
}

// main executes the root command; any error exits with status 1.
func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		rootCmd.PrintErrln("error:", err)
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

// stdoutFile returns the command output when it is a real file.
func stdoutFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.OutOrStdout().(*os.File)
	return f
}
