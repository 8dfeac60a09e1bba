package version

import (
	"strings"
	"testing"

	"github.com/fatih/color"
)

func TestVersion_DefaultValues(t *testing.T) {
	if Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestColoredPlain(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = true

	Version = "1.2.3-rc1"
	if got := Colored(); got != "1.2.3-rc1" {
		t.Errorf("Colored() = %q, want %q", got, "1.2.3-rc1")
	}
	Version = "custom"
	if got := Colored(); got != "custom" {
		t.Errorf("Colored() = %q, want %q", got, "custom")
	}
}

func TestColoredAddsEscapes(t *testing.T) {
	orig, origNoColor := Version, color.NoColor
	defer func() { Version, color.NoColor = orig, origNoColor }()
	color.NoColor = false

	Version = "1.2.3"
	if got := Colored(); !strings.Contains(got, "\x1b[") {
		t.Errorf("Colored() = %q, want ANSI escapes", got)
	}
}

func TestBanner(t *testing.T) {
	orig, origCommit, origDate, origNoColor := Version, GitCommit, BuildDate, color.NoColor
	defer func() { Version, GitCommit, BuildDate, color.NoColor = orig, origCommit, origDate, origNoColor }()
	color.NoColor = true

	Version = "0.2.0"
	GitCommit = ""
	BuildDate = ""
	if got, want := Banner(), "leanrt 0.2.0 (runtime interface 4.0.0, 64-bit)\n"; got != want {
		t.Errorf("Banner() = %q, want %q", got, want)
	}

	GitCommit = "abc123"
	BuildDate = "2024-01-15T10:30:00Z"
	got := Banner()
	if !strings.Contains(got, "commit: abc123\n") || !strings.Contains(got, "built:  2024-01-15T10:30:00Z\n") {
		t.Errorf("Banner() = %q, want commit and build date lines", got)
	}
}
