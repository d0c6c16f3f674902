package instance

import "testing"

func TestIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.1")
	if got := ID(); got != "web.1" {
		t.Fatalf("expected dyno id, got %q", got)
	}
}

func TestIDFallsBackWithoutDyno(t *testing.T) {
	t.Setenv("DYNO", "")
	if got := ID(); got == "" {
		t.Fatal("expected a non-empty instance id")
	}
}
