package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"spoke/internal/diag"
	"spoke/internal/driver"
	"spoke/internal/project"
)

// settings are the resolved global flags and project configuration of a run.
type settings struct {
	manifest *project.Manifest // nil без spoke.toml
	opts     driver.Options
	color    bool
	quiet    bool
	timings  bool
}

// loadSettings resolves spoke.toml for target (a file, a directory or "-")
// and applies the global flags on top of it.
func loadSettings(cmd *cobra.Command, target string) (*settings, error) {
	root := cmd.Root().PersistentFlags()
	colorFlag, err := root.GetString("color")
	if err != nil {
		return nil, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := resolveColor(colorFlag, os.Stderr)
	if err != nil {
		return nil, err
	}
	quiet, err := root.GetBool("quiet")
	if err != nil {
		return nil, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	timings, err := root.GetBool("timings")
	if err != nil {
		return nil, fmt.Errorf("failed to get timings flag: %w", err)
	}
	configPath, err := root.GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to get config flag: %w", err)
	}

	s := &settings{color: useColor, quiet: quiet, timings: timings}
	cfg := project.DefaultConfig()
	if configPath != "" {
		loaded, err := project.LoadConfig(configPath)
		if err != nil {
			return nil, badManifest(err)
		}
		cfg = loaded
		s.manifest = &project.Manifest{Path: configPath, Root: filepath.Dir(configPath), Config: loaded}
	} else {
		manifest, ok, err := project.LoadManifest(startDir(target))
		if err != nil {
			return nil, badManifest(err)
		}
		if ok {
			cfg = manifest.Config
			s.manifest = manifest
		}
	}

	if root.Changed("max-diagnostics") {
		cfg.Diagnostics.Max, err = root.GetInt("max-diagnostics")
		if err != nil {
			return nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
		}
	}
	s.opts = driver.FromConfig(cfg)
	s.opts.Stdin = cmd.InOrStdin()
	return s, nil
}

func badManifest(err error) error {
	return fmt.Errorf("%s %w", diag.IOBadManifest.ID(), err)
}

func startDir(target string) string {
	if target == "" || target == driver.StdinPath {
		return "."
	}
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		return target
	}
	return filepath.Dir(target)
}

// resolveColor maps --color to a decision for f and applies it to fatih/color.
func resolveColor(value string, f *os.File) (bool, error) {
	var enabled bool
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "auto":
		enabled = isTerminal(f) && os.Getenv("NO_COLOR") == ""
	case "on", "always":
		enabled = true
	case "off", "never":
		enabled = false
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
	color.NoColor = !enabled
	return enabled, nil
}

// openCache opens the disk cache; failures only disable caching.
func openCache(cmd *cobra.Command, s *settings) {
	cache, err := driver.OpenDiskCache("spoke")
	if err != nil {
		if !s.quiet {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s cache disabled: %v\n", diag.IOCacheError.ID(), err)
		}
		return
	}
	s.opts.Cache = cache
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
