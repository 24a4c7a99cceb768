// Package doctor reports problems in the local remotec setup: missing client
// binaries, skipped includes, ambiguous or dangling profile references and
// loose config permissions.
package doctor

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"sort"

	"github.com/treykane/remotec/internal/config"
	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/rdp"
	"github.com/treykane/remotec/internal/sshclient"
)

type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

type Issue struct {
	Severity       Severity `json:"severity"`
	Check          string   `json:"check"`
	Target         string   `json:"target"`
	Message        string   `json:"message"`
	Recommendation string   `json:"recommendation"`
}

type Report struct {
	Issues []Issue `json:"issues"`
}

// HasHigh reports whether any issue is high severity.
func (r Report) HasHigh() bool {
	for _, i := range r.Issues {
		if i.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

var (
	lookPath  = exec.LookPath
	ensureSSH = sshclient.EnsureSSHBinary
	goos      = runtime.GOOS
)

// Run inspects cat and the local environment.
func Run(cat *config.Catalog) Report {
	var issues []Issue

	if err := ensureSSH(); err != nil && usesSSH(cat) {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "ssh-binary",
			Target:         "PATH",
			Message:        err.Error(),
			Recommendation: "install an OpenSSH client and ensure `ssh` is on PATH",
		})
	}
	if len(cat.RDP) > 0 {
		issues = append(issues, backendIssues(cat.RDPDefaults)...)
	}

	for _, w := range cat.Warnings {
		issues = append(issues, Issue{
			Severity:       SeverityMedium,
			Check:          "config-include",
			Target:         cat.Path,
			Message:        w,
			Recommendation: "fix or remove the include entry",
		})
	}

	issues = append(issues, duplicateNames(model.KindRDP, cat.Names(model.KindRDP))...)
	issues = append(issues, duplicateNames(model.KindSSH, cat.Names(model.KindSSH))...)
	issues = append(issues, duplicateNames(model.KindTunnel, cat.Names(model.KindTunnel))...)
	issues = append(issues, duplicateNames(model.KindCommand, cat.Names(model.KindCommand))...)
	issues = append(issues, referenceIssues(cat)...)
	issues = append(issues, addressIssues(cat)...)
	issues = append(issues, duplicateLocalPorts(cat.Tunnels)...)
	if goos != "windows" && cat.Path != "" {
		checkPathPerm(&issues, cat.Path, 0o600)
	}

	sort.Slice(issues, func(i, j int) bool {
		ri := severityRank(issues[i].Severity)
		rj := severityRank(issues[j].Severity)
		if ri != rj {
			return ri > rj
		}
		if issues[i].Check != issues[j].Check {
			return issues[i].Check < issues[j].Check
		}
		if issues[i].Target != issues[j].Target {
			return issues[i].Target < issues[j].Target
		}
		return issues[i].Message < issues[j].Message
	})
	return Report{Issues: issues}
}

func usesSSH(cat *config.Catalog) bool {
	return len(cat.SSH) > 0 || len(cat.Tunnels) > 0 || len(cat.Commands) > 0
}

func backendIssues(defaults model.RDPDefaults) []Issue {
	b, err := rdp.ResolveBackend(defaults.Backend, goos)
	if err != nil {
		rec := "use --stdout to print RDP files"
		if alternatives := rdp.Backends(goos); len(alternatives) > 0 {
			rec = fmt.Sprintf("set rdp_defaults.backend to one of %v, or use --stdout", alternatives)
		}
		return []Issue{{
			Severity:       SeverityMedium,
			Check:          "rdp-backend",
			Target:         goos,
			Message:        err.Error(),
			Recommendation: rec,
		}}
	}
	name, _, err := b.Command("", false)
	if err != nil {
		return nil
	}
	if _, err := lookPath(name); err != nil {
		return []Issue{{
			Severity:       SeverityMedium,
			Check:          "rdp-backend",
			Target:         string(b),
			Message:        fmt.Sprintf("%s not found in PATH", name),
			Recommendation: fmt.Sprintf("install %s or use --stdout", name),
		}}
	}
	return nil
}

func duplicateNames(kind string, names []string) []Issue {
	counts := map[string]int{}
	var order []string
	for _, n := range names {
		if counts[n] == 0 {
			order = append(order, n)
		}
		counts[n]++
	}
	var issues []Issue
	for _, n := range order {
		if counts[n] < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity:       SeverityMedium,
			Check:          "duplicate-name",
			Target:         kind + "/" + n,
			Message:        fmt.Sprintf("%d %s profiles share this name, the first one is used", counts[n], kind),
			Recommendation: "rename or remove the extra profiles",
		})
	}
	return issues
}

func referenceIssues(cat *config.Catalog) []Issue {
	known := map[string]bool{}
	for _, n := range cat.Names(model.KindSSH) {
		known[n] = true
	}
	var issues []Issue
	dangling := func(kind, name, ref string) {
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "missing-ssh-profile",
			Target:         kind + "/" + name,
			Message:        fmt.Sprintf("references unknown SSH profile %q", ref),
			Recommendation: "add the SSH profile or fix ssh_profile",
		})
	}
	for _, t := range cat.Tunnels {
		if !known[t.SSHProfile] {
			dangling(model.KindTunnel, t.Name, t.SSHProfile)
		}
		if len(t.Forwards) == 0 {
			issues = append(issues, Issue{
				Severity:       SeverityMedium,
				Check:          "empty-profile",
				Target:         model.KindTunnel + "/" + t.Name,
				Message:        "tunnel has no forwards",
				Recommendation: "add at least one forward",
			})
		}
	}
	for _, c := range cat.Commands {
		if !known[c.SSHProfile] {
			dangling(model.KindCommand, c.Name, c.SSHProfile)
		}
		if len(c.Command) == 0 {
			issues = append(issues, Issue{
				Severity:       SeverityMedium,
				Check:          "empty-profile",
				Target:         model.KindCommand + "/" + c.Name,
				Message:        "command profile has no command",
				Recommendation: "add the command tokens to run",
			})
		}
	}
	return issues
}

func addressIssues(cat *config.Catalog) []Issue {
	var issues []Issue
	missing := func(kind, name string) {
		issues = append(issues, Issue{
			Severity:       SeverityMedium,
			Check:          "missing-address",
			Target:         kind + "/" + name,
			Message:        "no hostname, ipv4 or ipv6 configured",
			Recommendation: "set at least one address field",
		})
	}
	for _, p := range cat.RDP {
		if p.Address.IsEmpty() {
			missing(model.KindRDP, p.Name)
		}
	}
	for _, p := range cat.SSH {
		if p.Address.IsEmpty() {
			missing(model.KindSSH, p.Name)
		}
	}
	return issues
}

func duplicateLocalPorts(tunnels []model.TunnelProfile) []Issue {
	seen := map[int][]string{}
	var ports []int
	for _, t := range tunnels {
		for _, fwd := range t.Forwards {
			if len(seen[fwd.LocalPort]) == 0 {
				ports = append(ports, fwd.LocalPort)
			}
			seen[fwd.LocalPort] = append(seen[fwd.LocalPort], t.Name)
		}
	}
	var issues []Issue
	for _, port := range ports {
		refs := seen[port]
		if len(refs) < 2 {
			continue
		}
		issues = append(issues, Issue{
			Severity:       SeverityHigh,
			Check:          "duplicate-local-port",
			Target:         fmt.Sprintf("localhost:%d", port),
			Message:        fmt.Sprintf("local port is forwarded %d times (%v)", len(refs), refs),
			Recommendation: "use unique local ports to avoid bind conflicts when tunnels run together",
		})
	}
	return issues
}

func checkPathPerm(issues *[]Issue, path string, max os.FileMode) {
	st, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return
		}
		*issues = append(*issues, Issue{
			Severity:       SeverityLow,
			Check:          "config-permissions",
			Target:         path,
			Message:        fmt.Sprintf("unable to inspect permissions: %v", err),
			Recommendation: "verify path and permissions manually",
		})
		return
	}
	mode := st.Mode().Perm()
	if mode&^max != 0 {
		*issues = append(*issues, Issue{
			Severity:       SeverityLow,
			Check:          "config-permissions",
			Target:         path,
			Message:        fmt.Sprintf("file permissions are too broad (%#o)", mode),
			Recommendation: fmt.Sprintf("restrict permissions to %#o or tighter", max),
		})
	}
}

func severityRank(s Severity) int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	default:
		return 1
	}
}
