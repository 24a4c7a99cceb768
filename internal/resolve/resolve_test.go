package resolve

import (
	"errors"
	"testing"

	"github.com/treykane/remotec/internal/model"
)

func TestAddressPriority(t *testing.T) {
	cases := []struct {
		name string
		addr model.Address
		want string
	}{
		{"hostname wins", model.Address{Hostname: "h", IPv6: "6", IPv4: "4"}, "h"},
		{"ipv6 before ipv4", model.Address{IPv6: "6", IPv4: "4"}, "6"},
		{"ipv4 last", model.Address{IPv4: "4"}, "4"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Address(tc.addr, false, false)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("want %q, got %q", tc.want, got)
			}
		})
	}
}

func TestAddressNothingConfigured(t *testing.T) {
	_, err := Address(model.Address{Port: 22}, false, false)
	if !errors.Is(err, ErrNoAddressConfigured) {
		t.Fatalf("expected ErrNoAddressConfigured, got %v", err)
	}
}

func TestAddressHostnameOnly(t *testing.T) {
	addr := model.Address{Hostname: "box.example.net"}
	got, err := Address(addr, false, false)
	if err != nil || got != "box.example.net" {
		t.Fatalf("got %q, %v", got, err)
	}

	for _, tc := range []struct {
		v4, v6 bool
		family Family
	}{
		{true, false, IPv4},
		{false, true, IPv6},
	} {
		_, err := Address(addr, tc.v4, tc.v6)
		var missing *MissingAddressFamilyError
		if !errors.As(err, &missing) {
			t.Fatalf("expected MissingAddressFamilyError, got %v", err)
		}
		if missing.Family != tc.family {
			t.Fatalf("want family %s, got %s", tc.family, missing.Family)
		}
	}
}

func TestAddressExplicitFamily(t *testing.T) {
	addr := model.Address{Hostname: "h", IPv4: "10.0.0.1", IPv6: "fd00::1"}
	if got, _ := Address(addr, true, false); got != "10.0.0.1" {
		t.Fatalf("ipv4: got %q", got)
	}
	if got, _ := Address(addr, false, true); got != "fd00::1" {
		t.Fatalf("ipv6: got %q", got)
	}
	if got, _ := Address(addr, true, true); got != "10.0.0.1" {
		t.Fatalf("both flags should prefer ipv4, got %q", got)
	}
}

func TestUsernameFallback(t *testing.T) {
	orig := CurrentUser
	CurrentUser = func() string { return "local" }
	t.Cleanup(func() { CurrentUser = orig })

	if got := Username("p", "d"); got != "p" {
		t.Fatalf("profile user: got %q", got)
	}
	if got := Username("", "d"); got != "d" {
		t.Fatalf("defaults user: got %q", got)
	}
	if got := Username("", ""); got != "local" {
		t.Fatalf("os user: got %q", got)
	}
}
