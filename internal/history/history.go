// Package history records when profiles were last launched.
package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/treykane/remotec/internal/config"
)

type store struct {
	LastUsed map[string]int64 `json:"last_used"`
}

// Key identifies a profile across kinds.
func Key(kind, name string) string {
	return kind + "/" + name
}

func filePath() (string, error) {
	dir, err := config.ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "history.json"), nil
}

// Touch records a successful launch of the profile.
func Touch(kind, name string) error {
	st, err := load()
	if err != nil {
		return err
	}
	st.LastUsed[Key(kind, name)] = time.Now().Unix()
	return save(st)
}

// LastUsed returns last launch timestamps by Key.
func LastUsed() (map[string]int64, error) {
	st, err := load()
	if err != nil {
		return nil, err
	}
	return st.LastUsed, nil
}

// SortRecent returns a copy of items ordered by most recent launch, then by
// key.
func SortRecent[T any](items []T, key func(T) string, lastUsed map[string]int64) []T {
	out := append([]T(nil), items...)
	sort.SliceStable(out, func(i, j int) bool {
		ki, kj := key(out[i]), key(out[j])
		ti, tj := lastUsed[ki], lastUsed[kj]
		if ti != tj {
			return ti > tj
		}
		return ki < kj
	})
	return out
}

func load() (store, error) {
	path, err := filePath()
	if err != nil {
		return store{}, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return store{LastUsed: map[string]int64{}}, nil
		}
		return store{}, err
	}
	var st store
	if err := json.Unmarshal(b, &st); err != nil {
		return store{LastUsed: map[string]int64{}}, nil
	}
	if st.LastUsed == nil {
		st.LastUsed = map[string]int64{}
	}
	return st, nil
}

func save(st store) error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	b, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o600)
}
