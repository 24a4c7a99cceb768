package history

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/treykane/remotec/internal/model"
)

func TestTouchAndLastUsed(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	if err := Touch(model.KindSSH, "api"); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, err := LastUsed()
	if err != nil {
		t.Fatalf("last used: %v", err)
	}
	if got["SSH/api"] <= 0 {
		t.Fatalf("expected timestamp for SSH/api, got %+v", got)
	}
}

func TestLastUsedToleratesCorruptFile(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	dir := filepath.Join(xdg, "remotec")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "history.json"), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}
	got, err := LastUsed()
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty history, got %v %v", got, err)
	}
}

func TestSortRecent(t *testing.T) {
	keys := []string{"SSH/db", "SSH/api", "RDP/desk"}
	now := time.Now().Unix()
	sorted := SortRecent(keys, func(k string) string { return k }, map[string]int64{
		"SSH/api": now,
		"SSH/db":  now - 60,
	})
	want := []string{"SSH/api", "SSH/db", "RDP/desk"}
	for i := range want {
		if sorted[i] != want[i] {
			t.Fatalf("want %v, got %v", want, sorted)
		}
	}
	if keys[0] != "SSH/db" {
		t.Fatal("input slice must not be reordered")
	}
}
