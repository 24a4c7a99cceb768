// Package resolve picks the address and username a launcher connects with.
// Both helpers are pure functions of a profile, its defaults bucket and the
// CLI flags.
package resolve

import (
	"errors"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/treykane/remotec/internal/model"
)

// Family is an IP address family.
type Family string

const (
	IPv4 Family = "IPv4"
	IPv6 Family = "IPv6"
)

// ErrNoAddressConfigured is returned when a profile has no hostname, IPv6 or
// IPv4 address.
var ErrNoAddressConfigured = errors.New("no addresses configured for this profile")

// MissingAddressFamilyError is returned when a family was requested explicitly
// but the profile has no literal of that family.
type MissingAddressFamilyError struct {
	Family Family
}

func (e *MissingAddressFamilyError) Error() string {
	return fmt.Sprintf("an %s address is not configured for this profile", e.Family)
}

// Address returns the address to connect to. An explicit family preference
// selects that literal (IPv4 is checked first); otherwise the hostname wins,
// then IPv6, then IPv4.
func Address(addr model.Address, preferIPv4, preferIPv6 bool) (string, error) {
	if preferIPv4 {
		if addr.IPv4 == "" {
			return "", &MissingAddressFamilyError{Family: IPv4}
		}
		return addr.IPv4, nil
	}
	if preferIPv6 {
		if addr.IPv6 == "" {
			return "", &MissingAddressFamilyError{Family: IPv6}
		}
		return addr.IPv6, nil
	}
	for _, candidate := range []string{addr.Hostname, addr.IPv6, addr.IPv4} {
		if candidate != "" {
			return candidate, nil
		}
	}
	return "", ErrNoAddressConfigured
}

// CurrentUser returns the local account name. Tests replace it.
var CurrentUser = localUsername

// Username returns the profile's username, then the defaults username, then
// the local account name.
func Username(profileUser, defaultUser string) string {
	if profileUser != "" {
		return profileUser
	}
	if defaultUser != "" {
		return defaultUser
	}
	return CurrentUser()
}

func localUsername() string {
	if u, err := user.Current(); err == nil && u.Username != "" {
		name := u.Username
		// Windows reports DOMAIN\user.
		if i := strings.LastIndex(name, `\`); i >= 0 {
			name = name[i+1:]
		}
		return name
	}
	for _, key := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(key); v != "" {
			return v
		}
	}
	return ""
}
