// Package opener hands files and URLs to the operating system's default
// handler.
package opener

import (
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"path/filepath"

	"github.com/pkg/browser"
)

func init() {
	// Keep xdg-open chatter off stdout.
	browser.Stdout = os.Stderr
}

// Open opens target, which is either a URL with a scheme or a local path.
func Open(target string) error {
	if u, err := url.Parse(target); err == nil && u.Scheme != "" && !isDriveLetter(u.Scheme) {
		slog.Debug("opening url", "url", target)
		if err := browser.OpenURL(target); err != nil {
			return fmt.Errorf("open %s: %w", target, err)
		}
		return nil
	}
	return OpenFile(target)
}

// OpenFile opens a local file with its default application.
func OpenFile(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	slog.Debug("opening file", "path", abs)
	if err := browser.OpenFile(abs); err != nil {
		return fmt.Errorf("open %s: %w", abs, err)
	}
	return nil
}

// C:\path parses as scheme "c".
func isDriveLetter(scheme string) bool {
	return len(scheme) == 1
}
