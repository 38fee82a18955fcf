package buildinfo

import "testing"

func TestShort(t *testing.T) {
	v, c := Version, Commit
	defer func() { Version, Commit = v, c }()

	Version, Commit = "dev", "unknown"
	if got := Short(); got != "dev" {
		t.Fatalf("expected dev, got %q", got)
	}
	Commit = "abc123"
	if got := Short(); got != "abc123" {
		t.Fatalf("expected commit, got %q", got)
	}
	Version = "v1.2.0"
	if got := Short(); got != "v1.2.0" {
		t.Fatalf("expected version, got %q", got)
	}
}
