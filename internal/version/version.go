// Package version carries the build stamp of the spoke binary. The
// variables are set with -ldflags "-X spoke/internal/version.Version=...".
package version

import (
	"strings"

	"github.com/fatih/color"
)

var (
	Version   = "0.1.0-dev"
	GitCommit = ""
	BuildDate = "" // ISO-8601
)

var partColors = [3]*color.Color{
	color.New(color.FgYellow, color.Bold),
	color.New(color.FgGreen, color.Bold),
	color.New(color.FgBlue, color.Bold),
}

// Info is the build stamp with blanks normalized.
type Info struct {
	Version   string
	GitCommit string // "" when not stamped
	BuildDate string
}

// Current reads the stamp; an empty Version reads as "dev".
func Current() Info {
	info := Info{
		Version:   strings.TrimSpace(Version),
		GitCommit: strings.TrimSpace(GitCommit),
		BuildDate: strings.TrimSpace(BuildDate),
	}
	if info.Version == "" {
		info.Version = "dev"
	}
	return info
}

// Colored highlights the major, minor and patch numbers of v. A pre-release
// or build suffix stays plain. Anything but a dotted triple comes back as is.
func Colored(v string) string {
	core, suffix := v, ""
	if i := strings.IndexAny(v, "-+"); i >= 0 {
		core, suffix = v[:i], v[i:]
	}
	parts := strings.Split(core, ".")
	if len(parts) != 3 {
		return v
	}
	for i, p := range parts {
		if p == "" {
			return v
		}
		parts[i] = partColors[i].Sprint(p)
	}
	return strings.Join(parts, ".") + suffix
}
