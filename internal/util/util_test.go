package util

import (
	"path/filepath"
	"testing"
)

func TestValidateOptionalPort(t *testing.T) {
	if err := ValidateOptionalPort(0); err != nil {
		t.Fatalf("zero should mean unset: %v", err)
	}
	if err := ValidateOptionalPort(22); err != nil {
		t.Fatalf("22: %v", err)
	}
	if err := ValidateOptionalPort(70000); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	if got := ExpandHome("~/frag.yaml"); got != filepath.Join(home, "frag.yaml") {
		t.Fatalf("unexpected expansion: %s", got)
	}
	if got := ExpandHome("/etc/frag.yaml"); got != "/etc/frag.yaml" {
		t.Fatalf("absolute path changed: %s", got)
	}
}

func TestEmptyDash(t *testing.T) {
	if EmptyDash("  ") != "-" || EmptyDash("deploy") != "deploy" {
		t.Fatal("unexpected EmptyDash result")
	}
}
