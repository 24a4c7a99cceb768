// Package config loads the remotec profile catalog from the primary config
// file and its included fragments.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/rdp"
	"github.com/treykane/remotec/internal/util"
)

// ErrConfigCreated is returned by Load when the config file did not exist and
// a default one was written in its place.
var ErrConfigCreated = errors.New("config file created, edit it and try again")

// Fragment is the profile-only shape shared by the primary config file and
// every included file.
type Fragment struct {
	RDP      []model.RDPProfile     `mapstructure:"rdp" yaml:"rdp" json:"rdp"`
	SSH      []model.SSHProfile     `mapstructure:"ssh" yaml:"ssh" json:"ssh"`
	Tunnels  []model.TunnelProfile  `mapstructure:"tunnels" yaml:"tunnels" json:"tunnels"`
	Commands []model.CommandProfile `mapstructure:"commands" yaml:"commands" json:"commands"`
}

// File is the primary config document.
type File struct {
	Include     []string `mapstructure:"include" yaml:"include" json:"include"`
	Fragment    `mapstructure:",squash" yaml:",inline"`
	RDPDefaults model.RDPDefaults `mapstructure:"rdp_defaults" yaml:"rdp_defaults" json:"rdp_defaults"`
	SSHDefaults model.SSHDefaults `mapstructure:"ssh_defaults" yaml:"ssh_defaults" json:"ssh_defaults"`
}

// Catalog is the merged, read-only view of every profile and the defaults.
// Primary profiles come first, then each fragment in include order.
type Catalog struct {
	Path        string
	RDP         []model.RDPProfile
	SSH         []model.SSHProfile
	Tunnels     []model.TunnelProfile
	Commands    []model.CommandProfile
	RDPDefaults model.RDPDefaults
	SSHDefaults model.SSHDefaults
	// Warnings lists the fragments that were skipped and why.
	Warnings []string
}

// Load reads the primary config at path and merges its includes. A missing
// primary file is replaced by a default document and ErrConfigCreated is
// returned. Fragment failures are logged and skipped.
func Load(path string) (*Catalog, error) {
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return nil, errors.Wrapf(err, "stat config %s", path)
		}
		slog.Warn("config file doesn't exist, creating defaults", "path", path)
		if err := WriteDefault(path); err != nil {
			return nil, err
		}
		return nil, errors.Wrapf(ErrConfigCreated, "%s", path)
	}

	var file File
	if err := decode(path, &file); err != nil {
		return nil, err
	}
	if err := validate(file.Fragment); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s", path)
	}
	if _, err := rdp.ParseBackend(file.RDPDefaults.Backend); err != nil {
		return nil, errors.Wrapf(err, "invalid config %s: rdp_defaults", path)
	}

	cat := &Catalog{
		Path:        path,
		RDP:         file.RDP,
		SSH:         file.SSH,
		Tunnels:     file.Tunnels,
		Commands:    file.Commands,
		RDPDefaults: file.RDPDefaults,
		SSHDefaults: file.SSHDefaults,
	}
	for _, inc := range file.Include {
		incPath := includePath(path, inc)
		frag, err := loadFragment(incPath)
		if err != nil {
			slog.Warn("skipping config include", "path", incPath, "error", err)
			cat.Warnings = append(cat.Warnings, fmt.Sprintf("include %s skipped: %v", incPath, err))
			continue
		}
		cat.RDP = append(cat.RDP, frag.RDP...)
		cat.SSH = append(cat.SSH, frag.SSH...)
		cat.Tunnels = append(cat.Tunnels, frag.Tunnels...)
		cat.Commands = append(cat.Commands, frag.Commands...)
	}
	return cat, nil
}

// Fragments cannot include further files.
func loadFragment(path string) (Fragment, error) {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return Fragment{}, errors.New("file doesn't exist")
		}
		return Fragment{}, err
	}
	var frag Fragment
	if err := decode(path, &frag); err != nil {
		return Fragment{}, err
	}
	if err := validate(frag); err != nil {
		return Fragment{}, err
	}
	return frag, nil
}

func decode(path string, out any) error {
	v := viper.New()
	v.SetConfigFile(path)
	if filepath.Ext(path) == "" {
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "unable to read config %s", path)
	}
	if err := v.Unmarshal(out); err != nil {
		return errors.Wrapf(err, "unable to deserialize config %s", path)
	}
	return nil
}

func includePath(primary, inc string) string {
	inc = util.ExpandHome(strings.TrimSpace(inc))
	if filepath.IsAbs(inc) {
		return inc
	}
	return filepath.Join(filepath.Dir(primary), inc)
}

func validate(f Fragment) error {
	for _, p := range f.RDP {
		if _, err := model.ParseGatewayPolicy(p.GatewayPolicy); err != nil {
			return errors.Wrapf(err, "rdp profile %q", p.Name)
		}
		if err := util.ValidateOptionalPort(p.Port); err != nil {
			return errors.Wrapf(err, "rdp profile %q", p.Name)
		}
	}
	for _, p := range f.SSH {
		if err := util.ValidateOptionalPort(p.Port); err != nil {
			return errors.Wrapf(err, "ssh profile %q", p.Name)
		}
		for i, j := range p.JumpHosts {
			if strings.TrimSpace(j.Hostname) == "" {
				return errors.Errorf("ssh profile %q: jump host %d missing hostname", p.Name, i)
			}
			if err := util.ValidateOptionalPort(j.Port); err != nil {
				return errors.Wrapf(err, "ssh profile %q: jump host %d", p.Name, i)
			}
		}
	}
	for _, p := range f.Tunnels {
		for i, fwd := range p.Forwards {
			if err := util.ValidatePort(fwd.LocalPort); err != nil {
				return errors.Wrapf(err, "tunnel %q: forward %d local port", p.Name, i)
			}
			if err := util.ValidatePort(fwd.RemotePort); err != nil {
				return errors.Wrapf(err, "tunnel %q: forward %d remote port", p.Name, i)
			}
		}
	}
	return nil
}

// WriteDefault writes an empty config document to path, as JSON when the
// path ends in .json and as YAML otherwise.
func WriteDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return errors.Wrap(err, "failed to create config directory")
	}
	var (
		b   []byte
		err error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		b, err = json.MarshalIndent(defaultFile(), "", "  ")
	case ".toml":
		return errors.Errorf("cannot create a default TOML config at %s, create it by hand", path)
	default:
		b, err = yaml.Marshal(defaultFile())
	}
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o600); err != nil {
		return errors.Wrap(err, "unable to write config defaults")
	}
	return nil
}

func defaultFile() File {
	return File{
		Include: []string{},
		Fragment: Fragment{
			RDP:      []model.RDPProfile{},
			SSH:      []model.SSHProfile{},
			Tunnels:  []model.TunnelProfile{},
			Commands: []model.CommandProfile{},
		},
	}
}
