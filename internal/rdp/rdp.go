// Package rdp builds remote desktop connection files (.rdp) and hands them to
// a platform RDP client.
//
// The file format is one key:type:value setting per line, see
// https://learn.microsoft.com/windows-server/remote/remote-desktop-services/clients/rdp-files
package rdp

import (
	"bufio"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/resolve"
)

// ErrNoGatewayConfigured is returned when the gateway is forced on a profile
// without a gateway hostname.
var ErrNoGatewayConfigured = errors.New("profile doesn't contain a gateway")

// Options carries the rdp subcommand's CLI overrides.
type Options struct {
	PreferIPv4     bool
	PreferIPv6     bool
	EnableGateway  bool
	DisableGateway bool
}

// Settings are the values remotec writes to an .rdp file.
type Settings struct {
	FullAddress          string
	Username             string
	Domain               string
	GatewayHostname      string
	GatewayUsageMethod   model.GatewayPolicy
	PromptCredentialOnce bool
}

// Build returns the .rdp file contents for profile. Lines are emitted in a
// fixed order and the text ends with a newline.
func Build(profile model.RDPProfile, defaults model.RDPDefaults, opts Options) (string, error) {
	address, err := resolve.Address(profile.Address, opts.PreferIPv4, opts.PreferIPv6)
	if err != nil {
		return "", err
	}
	policy, err := GatewayPolicy(profile, opts)
	if err != nil {
		return "", err
	}
	s := Settings{
		FullAddress:          address,
		Username:             resolve.Username(profile.Username, defaults.Username),
		Domain:               profile.Domain,
		GatewayHostname:      profile.Gateway,
		GatewayUsageMethod:   policy,
		PromptCredentialOnce: !profile.SeparateCredentials,
	}
	return s.String(), nil
}

// GatewayPolicy resolves the policy for profile: an explicit enable needs a
// gateway hostname, an explicit disable always wins, otherwise the profile's
// own policy applies.
func GatewayPolicy(profile model.RDPProfile, opts Options) (model.GatewayPolicy, error) {
	if opts.EnableGateway {
		if profile.Gateway == "" {
			return model.GatewayDisable, ErrNoGatewayConfigured
		}
		return model.GatewayEnable, nil
	}
	if opts.DisableGateway {
		return model.GatewayDisable, nil
	}
	return profile.Policy(), nil
}

func (s Settings) String() string {
	lines := []string{
		"full address:s:" + s.FullAddress,
		"username:s:" + s.Username,
	}
	if s.Domain != "" {
		lines = append(lines, "domain:s:"+s.Domain)
	}
	if s.GatewayHostname != "" {
		lines = append(lines, "gatewayhostname:s:"+s.GatewayHostname)
	}
	lines = append(lines,
		fmt.Sprintf("gatewayusagemethod:i:%d", int(s.GatewayUsageMethod)),
		"gatewayprofileusagemethod:i:1",
		fmt.Sprintf("promptcredentialonce:i:%d", boolInt(s.PromptCredentialOnce)),
		"",
	)
	return strings.Join(lines, "\n")
}

// Parse reads .rdp text back into Settings. Unknown keys are ignored.
func Parse(text string) (Settings, error) {
	var s Settings
	sc := bufio.NewScanner(strings.NewReader(text))
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSuffix(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, kind, value, ok := splitSetting(line)
		if !ok {
			return Settings{}, fmt.Errorf("line %d: expected key:type:value, got %q", lineNo, line)
		}
		var n int
		if kind == "i" {
			var err error
			if n, err = strconv.Atoi(value); err != nil {
				return Settings{}, fmt.Errorf("line %d: %s: %w", lineNo, key, err)
			}
		}
		switch key {
		case "full address":
			s.FullAddress = value
		case "username":
			s.Username = value
		case "domain":
			s.Domain = value
		case "gatewayhostname":
			s.GatewayHostname = value
		case "gatewayusagemethod":
			s.GatewayUsageMethod = model.GatewayPolicy(n)
		case "promptcredentialonce":
			s.PromptCredentialOnce = n != 0
		}
	}
	if err := sc.Err(); err != nil {
		return Settings{}, fmt.Errorf("scan rdp settings: %w", err)
	}
	return s, nil
}

// splitSetting splits on the first two colons only; values such as IPv6
// addresses may contain more.
func splitSetting(line string) (key, kind, value string, ok bool) {
	parts := strings.SplitN(line, ":", 3)
	if len(parts) != 3 || parts[0] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
