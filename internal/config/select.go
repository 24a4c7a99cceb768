package config

import (
	"fmt"
	"log/slog"

	"github.com/treykane/remotec/internal/model"
)

// ProfileNotFoundError is returned when no profile of a kind has the name.
type ProfileNotFoundError struct {
	Kind string
	Name string
}

func (e *ProfileNotFoundError) Error() string {
	return fmt.Sprintf("no %s profile found for `%s`", e.Kind, e.Name)
}

// Select returns the profile whose name equals name exactly. Duplicate names
// are logged and the first one in catalog order wins.
func Select[T model.Profile](items []T, kind, name string) (T, error) {
	var matched []T
	for _, item := range items {
		if item.ProfileName() == name {
			matched = append(matched, item)
		}
	}
	if len(matched) == 0 {
		var zero T
		return zero, &ProfileNotFoundError{Kind: kind, Name: name}
	}
	if len(matched) > 1 {
		slog.Warn("multiple profiles found, using first", "kind", kind, "name", name, "count", len(matched))
	}
	return matched[0], nil
}

// RDPProfile selects an RDP profile by name.
func (c *Catalog) RDPProfile(name string) (model.RDPProfile, error) {
	return Select(c.RDP, model.KindRDP, name)
}

// SSHProfile selects an SSH profile by name.
func (c *Catalog) SSHProfile(name string) (model.SSHProfile, error) {
	return Select(c.SSH, model.KindSSH, name)
}

// TunnelProfile selects a tunnel profile by name.
func (c *Catalog) TunnelProfile(name string) (model.TunnelProfile, error) {
	return Select(c.Tunnels, model.KindTunnel, name)
}

// CommandProfile selects a command profile by name.
func (c *Catalog) CommandProfile(name string) (model.CommandProfile, error) {
	return Select(c.Commands, model.KindCommand, name)
}

// Names returns the profile names of one kind in catalog order, duplicates
// included.
func (c *Catalog) Names(kind string) []string {
	var out []string
	switch kind {
	case model.KindRDP:
		out = names(c.RDP)
	case model.KindSSH:
		out = names(c.SSH)
	case model.KindTunnel:
		out = names(c.Tunnels)
	case model.KindCommand:
		out = names(c.Commands)
	}
	return out
}

func names[T model.Profile](items []T) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ProfileName())
	}
	return out
}
