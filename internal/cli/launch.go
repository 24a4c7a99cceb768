package cli

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/treykane/remotec/internal/config"
	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/rdp"
	"github.com/treykane/remotec/internal/sshclient"
	"github.com/treykane/remotec/internal/tunnel"
)

type sshFlags struct {
	ipv4, ipv6       bool
	useJumpHosts     bool
	disableJumpHosts bool
	stdout           bool
}

func (f *sshFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.BoolVar(&f.ipv4, "ipv4", false, "connect via the IPv4 address")
	fl.BoolVar(&f.ipv6, "ipv6", false, "connect via the IPv6 address")
	fl.BoolVarP(&f.useJumpHosts, "use-jump-hosts", "j", false, "connect using the jump hosts")
	fl.BoolVarP(&f.disableJumpHosts, "disable-jump-hosts", "d", false, "connect directly (without jump hosts)")
	fl.BoolVar(&f.stdout, "stdout", false, "print the command to stdout instead of connecting")
	cmd.MarkFlagsMutuallyExclusive("ipv4", "ipv6")
	cmd.MarkFlagsMutuallyExclusive("use-jump-hosts", "disable-jump-hosts")
}

func (f *sshFlags) options() sshclient.Options {
	return sshclient.Options{
		PreferIPv4:       f.ipv4,
		PreferIPv6:       f.ipv6,
		UseJumpHosts:     f.useJumpHosts,
		DisableJumpHosts: f.disableJumpHosts,
	}
}

func newSSHCmd(opts *rootOptions) *cobra.Command {
	var flags sshFlags
	cmd := &cobra.Command{
		Use:               "ssh <name>",
		Short:             "Launch an SSH session",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProfiles(opts, model.KindSSH),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			profile, err := cat.SSHProfile(args[0])
			if err != nil {
				return err
			}
			describe(model.KindSSH, profile.Name, profile.Description)
			sshArgs, err := sshclient.BuildArgs(profile, cat.SSHDefaults, flags.options())
			if err != nil {
				return err
			}
			client := newSSHClient()
			err = client.Invoke(cmd.Context(), sshArgs, flags.stdout)
			return finishLaunch(model.KindSSH, profile.Name, client.CommandLine(sshArgs), flags.stdout, err)
		},
	}
	flags.register(cmd)
	return cmd
}

func newTunnelCmd(opts *rootOptions) *cobra.Command {
	var flags sshFlags
	cmd := &cobra.Command{
		Use:               "tunnel <name>",
		Short:             "Open SSH tunnel(s)",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProfiles(opts, model.KindTunnel),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			t, err := cat.TunnelProfile(args[0])
			if err != nil {
				return err
			}
			describe(model.KindTunnel, t.Name, t.Description)
			if len(t.Forwards) == 0 {
				return tunnel.ErrEmptyForwardList
			}
			profile, err := cat.SSHProfile(t.SSHProfile)
			if err != nil {
				return err
			}
			sshArgs, err := tunnel.BuildArgs(t, profile, cat.SSHDefaults, flags.options())
			if err != nil {
				return err
			}
			client := newSSHClient()
			err = tunnel.NewLauncher(client, openTarget).Launch(cmd.Context(), t, sshArgs, flags.stdout)
			return finishLaunch(model.KindTunnel, t.Name, client.CommandLine(sshArgs), flags.stdout, err)
		},
	}
	flags.register(cmd)
	return cmd
}

func newCommandCmd(opts *rootOptions) *cobra.Command {
	var flags sshFlags
	cmd := &cobra.Command{
		Use:               "command <name>",
		Short:             "Run a remote command using SSH",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProfiles(opts, model.KindCommand),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			c, err := cat.CommandProfile(args[0])
			if err != nil {
				return err
			}
			describe(model.KindCommand, c.Name, c.Description)
			if len(c.Command) == 0 {
				return sshclient.ErrEmptyCommand
			}
			profile, err := cat.SSHProfile(c.SSHProfile)
			if err != nil {
				return err
			}
			sshArgs, err := sshclient.BuildCommandArgs(c, profile, cat.SSHDefaults, flags.options())
			if err != nil {
				return err
			}
			client := newSSHClient()
			err = client.Invoke(cmd.Context(), sshArgs, flags.stdout)
			return finishLaunch(model.KindCommand, c.Name, client.CommandLine(sshArgs), flags.stdout, err)
		},
	}
	flags.register(cmd)
	return cmd
}

type rdpFlags struct {
	ipv4, ipv6     bool
	enableGateway  bool
	disableGateway bool
	stdout         bool
	edit           bool
}

func (f *rdpFlags) options() rdp.Options {
	return rdp.Options{
		PreferIPv4:     f.ipv4,
		PreferIPv6:     f.ipv6,
		EnableGateway:  f.enableGateway,
		DisableGateway: f.disableGateway,
	}
}

func newRDPCmd(opts *rootOptions) *cobra.Command {
	var flags rdpFlags
	cmd := &cobra.Command{
		Use:               "rdp <name>",
		Short:             "Launch an RDP connection",
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeProfiles(opts, model.KindRDP),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			profile, err := cat.RDPProfile(args[0])
			if err != nil {
				return err
			}
			describe(model.KindRDP, profile.Name, profile.Description)
			text, err := rdp.Build(profile, cat.RDPDefaults, flags.options())
			if err != nil {
				return err
			}
			if flags.stdout {
				fmt.Print(text)
				return nil
			}

			backend, err := rdp.DefaultBackend(cat.RDPDefaults.Backend)
			if err != nil {
				return err
			}
			dir, err := config.CacheDir()
			if err != nil {
				return err
			}
			path := rdp.FilePath(dir, profile.Name)
			name, clientArgs, err := backend.Command(path, flags.edit)
			if err != nil {
				return err
			}
			if err := rdp.WriteFile(path, text); err != nil {
				return err
			}
			err = rdp.Start(name, clientArgs)
			return finishLaunch(model.KindRDP, profile.Name, strings.Join(append([]string{name}, clientArgs...), " "), false, err)
		},
	}
	fl := cmd.Flags()
	fl.BoolVar(&flags.ipv4, "ipv4", false, "connect via the IPv4 address")
	fl.BoolVar(&flags.ipv6, "ipv6", false, "connect via the IPv6 address")
	fl.BoolVarP(&flags.enableGateway, "enable-gateway", "g", false, "connect using the remote desktop gateway")
	fl.BoolVarP(&flags.disableGateway, "disable-gateway", "d", false, "connect directly (without a gateway)")
	fl.BoolVar(&flags.stdout, "stdout", false, "print the config to stdout instead of connecting")
	fl.BoolVar(&flags.edit, "edit", false, "open the profile in edit mode instead of connecting")
	cmd.MarkFlagsMutuallyExclusive("ipv4", "ipv6")
	cmd.MarkFlagsMutuallyExclusive("enable-gateway", "disable-gateway")
	cmd.MarkFlagsMutuallyExclusive("edit", "stdout")
	return cmd
}

// completeProfiles completes profile names of one kind, with descriptions.
// It never creates a missing config file.
func completeProfiles(opts *rootOptions, kind string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) > 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		path, err := opts.path()
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		if _, err := os.Stat(path); err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		cat, err := config.Load(path)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		descriptions := profileDescriptions(cat, kind)
		seen := map[string]bool{}
		var out []string
		for _, name := range cat.Names(kind) {
			if seen[name] || !strings.HasPrefix(name, toComplete) {
				continue
			}
			seen[name] = true
			if d := descriptions[name]; d != "" {
				out = append(out, name+"\t"+d)
			} else {
				out = append(out, name)
			}
		}
		sort.Strings(out)
		return out, cobra.ShellCompDirectiveNoFileComp
	}
}

// profileDescriptions maps names to the description of the first profile
// with that name.
func profileDescriptions(cat *config.Catalog, kind string) map[string]string {
	out := map[string]string{}
	add := func(p model.Profile) {
		if _, ok := out[p.ProfileName()]; !ok {
			out[p.ProfileName()] = p.ProfileDescription()
		}
	}
	switch kind {
	case model.KindRDP:
		for _, p := range cat.RDP {
			add(p)
		}
	case model.KindSSH:
		for _, p := range cat.SSH {
			add(p)
		}
	case model.KindTunnel:
		for _, p := range cat.Tunnels {
			add(p)
		}
	case model.KindCommand:
		for _, p := range cat.Commands {
			add(p)
		}
	}
	return out
}
