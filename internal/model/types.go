// Package model holds the profile and defaults types read from the remotec
// config file. Values are loaded once per invocation and never mutated.
package model

import (
	"fmt"
	"strings"
)

// Address lists the ways a target can be reached. Empty fields are unset.
type Address struct {
	Hostname string `mapstructure:"hostname" yaml:"hostname,omitempty" json:"hostname,omitempty"`
	IPv4     string `mapstructure:"ipv4" yaml:"ipv4,omitempty" json:"ipv4,omitempty"`
	IPv6     string `mapstructure:"ipv6" yaml:"ipv6,omitempty" json:"ipv6,omitempty"`
	Port     int    `mapstructure:"port" yaml:"port,omitempty" json:"port,omitempty"`
}

// IsEmpty reports whether no hostname or literal address is configured.
func (a Address) IsEmpty() bool {
	return a.Hostname == "" && a.IPv4 == "" && a.IPv6 == ""
}

// GatewayPolicy controls whether an RDP session goes through a gateway.
// The numeric value is the one written to gatewayusagemethod.
type GatewayPolicy int

const (
	GatewayDisable GatewayPolicy = iota
	GatewayEnable
	GatewayFallback
)

var gatewayPolicyNames = map[GatewayPolicy]string{
	GatewayDisable:  "DISABLE",
	GatewayEnable:   "ENABLE",
	GatewayFallback: "FALLBACK",
}

func (p GatewayPolicy) String() string {
	if s, ok := gatewayPolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("GatewayPolicy(%d)", int(p))
}

// ParseGatewayPolicy maps a config value to a policy. An empty value is the
// default, FALLBACK.
func ParseGatewayPolicy(s string) (GatewayPolicy, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return GatewayFallback, nil
	}
	for p, name := range gatewayPolicyNames {
		if name == s {
			return p, nil
		}
	}
	return GatewayFallback, fmt.Errorf("unknown gateway policy %q (want DISABLE, ENABLE or FALLBACK)", s)
}

// Profile is implemented by every profile kind.
type Profile interface {
	ProfileName() string
	ProfileDescription() string
}

// RDPProfile describes one remote desktop target.
type RDPProfile struct {
	Name                string `mapstructure:"name" yaml:"name" json:"name"`
	Address             `mapstructure:",squash" yaml:",inline"`
	Username            string `mapstructure:"username" yaml:"username,omitempty" json:"username,omitempty"`
	Domain              string `mapstructure:"domain" yaml:"domain,omitempty" json:"domain,omitempty"`
	Gateway             string `mapstructure:"gateway" yaml:"gateway,omitempty" json:"gateway,omitempty"`
	GatewayPolicy       string `mapstructure:"gateway_policy" yaml:"gateway_policy,omitempty" json:"gateway_policy,omitempty"`
	SeparateCredentials bool   `mapstructure:"separate_credentials" yaml:"separate_credentials,omitempty" json:"separate_credentials,omitempty"`
	Description         string `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
}

func (p RDPProfile) ProfileName() string        { return p.Name }
func (p RDPProfile) ProfileDescription() string { return p.Description }

// Policy returns the configured gateway policy. Values are validated at load
// time, so an unparsable value here falls back to FALLBACK.
func (p RDPProfile) Policy() GatewayPolicy {
	policy, _ := ParseGatewayPolicy(p.GatewayPolicy)
	return policy
}

// JumpHost is one intermediate ssh hop.
type JumpHost struct {
	Username string `mapstructure:"username" yaml:"username,omitempty" json:"username,omitempty"`
	Hostname string `mapstructure:"hostname" yaml:"hostname" json:"hostname"`
	Port     int    `mapstructure:"port" yaml:"port,omitempty" json:"port,omitempty"`
}

// SSHProfile describes one ssh target.
type SSHProfile struct {
	Name             string `mapstructure:"name" yaml:"name" json:"name"`
	Address          `mapstructure:",squash" yaml:",inline"`
	Username         string     `mapstructure:"username" yaml:"username,omitempty" json:"username,omitempty"`
	DisableJumpHosts bool       `mapstructure:"disable_jump_hosts" yaml:"disable_jump_hosts,omitempty" json:"disable_jump_hosts,omitempty"`
	JumpHosts        []JumpHost `mapstructure:"jump_hosts" yaml:"jump_hosts,omitempty" json:"jump_hosts,omitempty"`
	Description      string     `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
}

func (p SSHProfile) ProfileName() string        { return p.Name }
func (p SSHProfile) ProfileDescription() string { return p.Description }

// ForwardSpec defines one local->remote port forward.
type ForwardSpec struct {
	LocalPort  int    `mapstructure:"local_port" yaml:"local_port" json:"local_port"`
	RemoteHost string `mapstructure:"remote_host" yaml:"remote_host" json:"remote_host"`
	RemotePort int    `mapstructure:"remote_port" yaml:"remote_port" json:"remote_port"`
}

// Arg renders the forward in ssh -L syntax.
func (f ForwardSpec) Arg() string {
	return fmt.Sprintf("%d:%s:%d", f.LocalPort, f.RemoteHost, f.RemotePort)
}

// TunnelProfile holds port forwards opened over a referenced SSH profile.
type TunnelProfile struct {
	Name        string        `mapstructure:"name" yaml:"name" json:"name"`
	SSHProfile  string        `mapstructure:"ssh_profile" yaml:"ssh_profile" json:"ssh_profile"`
	Forwards    []ForwardSpec `mapstructure:"forwards" yaml:"forwards" json:"forwards"`
	Open        string        `mapstructure:"open" yaml:"open,omitempty" json:"open,omitempty"`
	Description string        `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
}

func (p TunnelProfile) ProfileName() string        { return p.Name }
func (p TunnelProfile) ProfileDescription() string { return p.Description }

// CommandProfile runs a fixed remote command over a referenced SSH profile.
type CommandProfile struct {
	Name        string   `mapstructure:"name" yaml:"name" json:"name"`
	SSHProfile  string   `mapstructure:"ssh_profile" yaml:"ssh_profile" json:"ssh_profile"`
	Command     []string `mapstructure:"command" yaml:"command" json:"command"`
	Description string   `mapstructure:"description" yaml:"description,omitempty" json:"description,omitempty"`
}

func (p CommandProfile) ProfileName() string        { return p.Name }
func (p CommandProfile) ProfileDescription() string { return p.Description }

// RDPDefaults apply to every RDP profile.
type RDPDefaults struct {
	Username string `mapstructure:"username" yaml:"username,omitempty" json:"username,omitempty"`
	Backend  string `mapstructure:"backend" yaml:"backend,omitempty" json:"backend,omitempty"`
}

// SSHDefaults apply to every SSH profile.
type SSHDefaults struct {
	Username string `mapstructure:"username" yaml:"username,omitempty" json:"username,omitempty"`
}

// Profile kind labels used in messages and history keys.
const (
	KindRDP     = "RDP"
	KindSSH     = "SSH"
	KindTunnel  = "Tunnel"
	KindCommand = "Command"
)
