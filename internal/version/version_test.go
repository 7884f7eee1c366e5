package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestCurrentNormalizesStamp(t *testing.T) {
	v, c, d := Version, GitCommit, BuildDate
	defer func() { Version, GitCommit, BuildDate = v, c, d }()

	Version, GitCommit, BuildDate = "  ", " abc123 ", "2026-01-15T10:30:00Z\n"
	got := Current()
	want := Info{Version: "dev", GitCommit: "abc123", BuildDate: "2026-01-15T10:30:00Z"}
	if got != want {
		t.Errorf("Current() = %+v, want %+v", got, want)
	}
}

func TestColored(t *testing.T) {
	prev := color.NoColor
	defer func() { color.NoColor = prev }()

	color.NoColor = true
	for _, v := range []string{"0.1.0", "0.1.0-dev", "1.2.3-rc.1+build.123", "dev", "1..2", ""} {
		if got := Colored(v); got != v {
			t.Errorf("Colored(%q) = %q without color", v, got)
		}
	}

	color.NoColor = false
	got := Colored("1.2.3-rc.1")
	if !strings.Contains(got, "\x1b[") || !strings.HasSuffix(got, "-rc.1") {
		t.Errorf("Colored(1.2.3-rc.1) = %q", got)
	}
	if got := Colored("1..2"); got != "1..2" {
		t.Errorf("malformed version was colored: %q", got)
	}
}

func BenchmarkColored(b *testing.B) {
	for b.Loop() {
		_ = Colored("1.2.3-rc.1")
	}
}
