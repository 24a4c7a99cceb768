package rdp

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
)

// Backend names an external RDP client.
type Backend string

const (
	// Mstsc is the Microsoft Remote Desktop client shipped with Windows.
	Mstsc Backend = "mstsc"
	// FreeRDP is the xfreerdp client.
	FreeRDP Backend = "freerdp"
)

// ErrEditUnsupported is returned when edit mode is requested from a client
// that has none.
var ErrEditUnsupported = errors.New("RDP backend doesn't support edit mode")

// platformBackends lists the clients usable on each GOOS, preferred first.
// Platforms missing from the table have no RDP support.
var platformBackends = map[string][]Backend{
	"windows": {Mstsc},
	"linux":   {FreeRDP},
	"freebsd": {FreeRDP},
	"openbsd": {FreeRDP},
	"netbsd":  {FreeRDP},
}

// UnsupportedPlatformError is returned when no usable backend exists for the
// platform, or the configured one is not available there.
type UnsupportedPlatformError struct {
	GOOS    string
	Backend Backend
}

func (e *UnsupportedPlatformError) Error() string {
	if e.Backend == "" {
		return fmt.Sprintf("no RDP backend supported for platform %s", e.GOOS)
	}
	return fmt.Sprintf("RDP backend %q is not supported on platform %s", e.Backend, e.GOOS)
}

// ParseBackend maps a config value to a known backend. An empty value means
// the platform default and parses to "".
func ParseBackend(s string) (Backend, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch Backend(s) {
	case "", Mstsc, FreeRDP:
		return Backend(s), nil
	}
	return "", fmt.Errorf("unknown RDP backend %q (want %s or %s)", s, Mstsc, FreeRDP)
}

// Backends returns the clients available on goos.
func Backends(goos string) []Backend {
	return slices.Clone(platformBackends[goos])
}

// ResolveBackend returns the configured backend, or the platform default when
// none is configured.
func ResolveBackend(configured, goos string) (Backend, error) {
	available := platformBackends[goos]
	b, err := ParseBackend(configured)
	if err != nil {
		return "", err
	}
	if b == "" {
		if len(available) == 0 {
			return "", &UnsupportedPlatformError{GOOS: goos}
		}
		return available[0], nil
	}
	if !slices.Contains(available, b) {
		return "", &UnsupportedPlatformError{GOOS: goos, Backend: b}
	}
	return b, nil
}

// DefaultBackend resolves configured against the running platform.
func DefaultBackend(configured string) (Backend, error) {
	return ResolveBackend(configured, runtime.GOOS)
}

// Command returns the program and arguments that open file with b.
func (b Backend) Command(file string, edit bool) (string, []string, error) {
	switch b {
	case Mstsc:
		if edit {
			return "mstsc", []string{"/edit", file}, nil
		}
		return "mstsc", []string{file}, nil
	case FreeRDP:
		if edit {
			return "", nil, fmt.Errorf("%w: %s", ErrEditUnsupported, b)
		}
		return "xfreerdp", []string{file}, nil
	default:
		return "", nil, fmt.Errorf("unknown RDP backend %q", string(b))
	}
}

// Start runs a client command line from Command without waiting for it to
// exit.
func Start(name string, args []string) error {
	slog.Info("launching remote desktop client", "command", name, "args", args)
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("unable to launch %s: %w", name, err)
	}
	go func() { _ = cmd.Wait() }()
	return nil
}

// FilePath returns where the .rdp file for the named profile lives in dir.
func FilePath(dir, name string) string {
	safe := strings.NewReplacer("/", "_", `\`, "_", ":", "_").Replace(name)
	return filepath.Join(dir, "rdp-"+safe+".rdp")
}

// WriteFile stores text at path, readable only by the user.
func WriteFile(path, text string) error {
	if err := os.WriteFile(path, []byte(text), 0o600); err != nil {
		return fmt.Errorf("unable to write RDP config: %w", err)
	}
	return nil
}
