package version

import (
	"strings"
	"testing"
)

func override(t *testing.T, v, commit, date string) {
	t.Helper()
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	Version, GitCommit, BuildDate = v, commit, date
	t.Cleanup(func() {
		Version, GitCommit, BuildDate = origVersion, origCommit, origDate
	})
}

func TestVersionDefault(t *testing.T) {
	if Version == "" {
		t.Fatal("Version should have a default value")
	}
	if strings.Contains(Version, "\x1b[") {
		t.Fatalf("default Version carries escape codes: %q", Version)
	}
}

func TestColored(t *testing.T) {
	tests := []struct {
		version string
		enabled bool
		plain   bool
	}{
		{"1.2.3", false, true},
		{"1.2.3", true, false},
		{"1.2.3-rc.1+build.123", true, false},
		{"nightly", true, true},
		{"1.2", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			override(t, tt.version, "", "")
			got := Colored(tt.enabled)
			if tt.plain {
				if got != tt.version {
					t.Fatalf("Colored = %q, want %q", got, tt.version)
				}
				return
			}
			if !strings.Contains(got, "\x1b[") {
				t.Fatalf("Colored = %q, want escape codes", got)
			}
			if i := strings.IndexAny(tt.version, "-+"); i >= 0 && !strings.HasSuffix(got, tt.version[i:]) {
				t.Fatalf("Colored = %q lost suffix", got)
			}
		})
	}
}

func TestInfo(t *testing.T) {
	override(t, "1.2.3", "abc123", "2024-01-15T10:30:00Z")
	got := Info(false)
	want := "tsbind 1.2.3 (TypeScript 1.6 binding rules)\ncommit: abc123\nbuilt:  2024-01-15T10:30:00Z\n"
	if got != want {
		t.Fatalf("Info = %q, want %q", got, want)
	}

	override(t, "1.2.3", "", "")
	if got := Info(false); strings.Contains(got, "commit") || strings.Contains(got, "built") {
		t.Fatalf("Info printed empty optional fields: %q", got)
	}
}
