package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
)

// Defaults used when spoke.toml is absent or leaves a key out.
const (
	DefaultModule         = "spoketest"
	DefaultExtension      = ".spoke"
	DefaultSuffix         = "_spoke.rs"
	DefaultMaxDiagnostics = 100
)

// Config is the decoded content of spoke.toml.
type Config struct {
	Generate    GenerateConfig    `toml:"generate"`
	Modifiers   []ModifierConfig  `toml:"modifier"`
	Diagnostics DiagnosticsConfig `toml:"diagnostics"`
}

// GenerateConfig controls the rendered output.
type GenerateConfig struct {
	Module    string   `toml:"module"`
	Allow     []string `toml:"allow"`
	Extension string   `toml:"extension"`
	Suffix    string   `toml:"suffix"`
}

// ModifierConfig binds an assertion keyword to a macro name.
type ModifierConfig struct {
	Keyword string `toml:"keyword"`
	Macro   string `toml:"macro"`
}

// DiagnosticsConfig limits diagnostic output.
type DiagnosticsConfig struct {
	Max int `toml:"max"`
}

// Manifest is a located and validated spoke.toml.
type Manifest struct {
	Path   string
	Root   string
	Config Config
}

// DefaultConfig returns the configuration used without a spoke.toml.
func DefaultConfig() Config {
	return Config{
		Generate: GenerateConfig{
			Module:    DefaultModule,
			Allow:     []string{"unused_mut", "unused_variables"},
			Extension: DefaultExtension,
			Suffix:    DefaultSuffix,
		},
		Modifiers: []ModifierConfig{
			{Keyword: "eq", Macro: "assert_eq"},
			{Keyword: "ne", Macro: "assert_ne"},
		},
		Diagnostics: DiagnosticsConfig{Max: DefaultMaxDiagnostics},
	}
}

// LoadManifest finds spoke.toml starting at startDir and decodes it.
// ok is false when no manifest exists; the caller then uses DefaultConfig.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindManifest(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig decodes and validates a spoke.toml file. Keys absent from the
// file keep their default values.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	cfg, err := ParseConfig(string(data))
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseConfig decodes spoke.toml content.
func ParseConfig(data string) (Config, error) {
	var raw Config
	meta, err := toml.Decode(data, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("failed to parse TOML: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
	}

	cfg := DefaultConfig()
	if meta.IsDefined("generate", "module") {
		cfg.Generate.Module = strings.TrimSpace(raw.Generate.Module)
		if !isIdent(cfg.Generate.Module) {
			return Config{}, fmt.Errorf("[generate].module %q is not an identifier", raw.Generate.Module)
		}
	}
	if meta.IsDefined("generate", "allow") {
		for _, lint := range raw.Generate.Allow {
			if strings.TrimSpace(lint) == "" {
				return Config{}, errors.New("[generate].allow contains an empty lint name")
			}
		}
		cfg.Generate.Allow = slices.Clone(raw.Generate.Allow)
		if cfg.Generate.Allow == nil {
			cfg.Generate.Allow = []string{}
		}
	}
	if meta.IsDefined("generate", "extension") {
		ext := strings.TrimSpace(raw.Generate.Extension)
		if !strings.HasPrefix(ext, ".") || len(ext) < 2 {
			return Config{}, fmt.Errorf("[generate].extension %q must start with a dot", raw.Generate.Extension)
		}
		cfg.Generate.Extension = ext
	}
	if meta.IsDefined("generate", "suffix") {
		if strings.TrimSpace(raw.Generate.Suffix) == "" {
			return Config{}, errors.New("[generate].suffix must not be empty")
		}
		cfg.Generate.Suffix = raw.Generate.Suffix
	}
	if meta.IsDefined("modifier") {
		if len(raw.Modifiers) == 0 {
			return Config{}, errors.New("[[modifier]] requires at least one entry")
		}
		seen := make(map[string]struct{}, len(raw.Modifiers))
		for i, m := range raw.Modifiers {
			if !isIdent(m.Keyword) || strings.ToLower(m.Keyword) != m.Keyword {
				return Config{}, fmt.Errorf("[[modifier]] #%d: keyword %q must be a lowercase identifier", i+1, m.Keyword)
			}
			if !isIdent(m.Macro) {
				return Config{}, fmt.Errorf("[[modifier]] #%d: macro %q is not an identifier", i+1, m.Macro)
			}
			if _, dup := seen[m.Keyword]; dup {
				return Config{}, fmt.Errorf("[[modifier]] #%d: keyword %q defined twice", i+1, m.Keyword)
			}
			seen[m.Keyword] = struct{}{}
		}
		cfg.Modifiers = slices.Clone(raw.Modifiers)
	}
	if meta.IsDefined("diagnostics", "max") {
		if raw.Diagnostics.Max < 0 {
			return Config{}, fmt.Errorf("[diagnostics].max must be >= 0, got %d", raw.Diagnostics.Max)
		}
		cfg.Diagnostics.Max = raw.Diagnostics.Max
	}
	return cfg, nil
}

// DefaultManifest returns the spoke.toml written by `spoke init`.
func DefaultManifest() string {
	return `# spoke project configuration
[generate]
module = "spoketest"
allow = ["unused_mut", "unused_variables"]
extension = ".spoke"
suffix = "_spoke.rs"

[[modifier]]
keyword = "eq"
macro = "assert_eq"

[[modifier]]
keyword = "ne"
macro = "assert_ne"

[diagnostics]
max = 100
`
}

// WriteDefault creates dir/spoke.toml. It refuses to overwrite an existing file.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ManifestName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("project already initialized: %s exists", path)
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}
	if err := os.WriteFile(path, []byte(DefaultManifest()), 0o600); err != nil {
		return "", fmt.Errorf("failed to write manifest: %w", err)
	}
	return path, nil
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
