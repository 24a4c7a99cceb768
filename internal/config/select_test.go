package config

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/treykane/remotec/internal/model"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	orig := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { slog.SetDefault(orig) })
	return &buf
}

func TestSelectDuplicateReturnsFirst(t *testing.T) {
	logs := captureLogs(t)
	items := []model.SSHProfile{
		{Name: "a", Address: model.Address{Hostname: "first"}},
		{Name: "b", Address: model.Address{Hostname: "other"}},
		{Name: "a", Address: model.Address{Hostname: "second"}},
	}
	got, err := Select(items, model.KindSSH, "a")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if got.Hostname != "first" {
		t.Fatalf("expected first match, got %s", got.Hostname)
	}
	if !strings.Contains(logs.String(), "multiple profiles found") {
		t.Fatalf("expected duplicate warning, got %q", logs.String())
	}
}

func TestSelectNotFound(t *testing.T) {
	items := []model.RDPProfile{{Name: "a"}}
	_, err := Select(items, model.KindRDP, "x")
	var nf *ProfileNotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected ProfileNotFoundError, got %v", err)
	}
	if nf.Kind != model.KindRDP || nf.Name != "x" {
		t.Fatalf("unexpected error fields: %+v", nf)
	}
}

func TestSelectIsCaseSensitive(t *testing.T) {
	logs := captureLogs(t)
	items := []model.CommandProfile{{Name: "Deploy"}}
	if _, err := Select(items, model.KindCommand, "deploy"); err == nil {
		t.Fatal("expected no match for different case")
	}
	if logs.Len() != 0 {
		t.Fatalf("unexpected log output: %s", logs.String())
	}
}

func TestCatalogNames(t *testing.T) {
	cat := &Catalog{Tunnels: []model.TunnelProfile{{Name: "db"}, {Name: "web"}}}
	if got := strings.Join(cat.Names(model.KindTunnel), ","); got != "db,web" {
		t.Fatalf("unexpected names: %s", got)
	}
	if got := cat.Names(model.KindRDP); len(got) != 0 {
		t.Fatalf("expected no rdp names, got %v", got)
	}
}
