// Package logging installs the process-wide slog handler. Logs always go to
// stderr so that --stdout output stays clean.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

// EnvLevel selects the log level when no flag is given.
const EnvLevel = "REMOTEC_LOG"

// LevelTrace sits below debug.
const LevelTrace = slog.Level(-8)

var levelNames = map[slog.Leveler]string{
	LevelTrace: "TRACE",
}

// Config selects the level and handler.
type Config struct {
	Level string
	JSON  bool
}

// LevelFromString parses a level name, accepting TRACE in any case.
func LevelFromString(str string) (slog.Level, error) {
	for k, v := range levelNames {
		if strings.TrimSpace(strings.ToUpper(str)) == v {
			return k.Level(), nil
		}
	}
	var l slog.Level
	err := l.UnmarshalText([]byte(strings.TrimSpace(str)))
	return l, err
}

// ReplaceLevels renders custom levels by name.
func ReplaceLevels(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.LevelKey {
		level, ok := a.Value.Any().(slog.Level)
		if !ok {
			return a
		}
		label, exists := levelNames[level]
		if !exists {
			label = level.String()
		}
		a.Value = slog.StringValue(label)
	}
	return a
}

// Setup installs the default logger. An empty level falls back to
// $REMOTEC_LOG, then to info.
func Setup(cfg Config) error {
	return SetupWriter(cfg, os.Stderr)
}

// SetupWriter is Setup with an explicit destination.
func SetupWriter(cfg Config, w io.Writer) error {
	level := cfg.Level
	if level == "" {
		level = os.Getenv(EnvLevel)
	}
	if level == "" {
		level = "info"
	}
	l, err := LevelFromString(level)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler(cfg, l, w)))
	return nil
}

func handler(cfg Config, l slog.Level, w io.Writer) slog.Handler {
	if cfg.JSON {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:       l,
			ReplaceAttr: ReplaceLevels,
		})
	}
	return tint.NewHandler(w, &tint.Options{
		Level:       l,
		TimeFormat:  "15:04:05",
		NoColor:     !isTerminal(w),
		ReplaceAttr: ReplaceLevels,
	})
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
