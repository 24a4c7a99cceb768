package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/treykane/remotec/internal/config"
	"github.com/treykane/remotec/internal/doctor"
	"github.com/treykane/remotec/internal/history"
	"github.com/treykane/remotec/internal/model"
	"github.com/treykane/remotec/internal/resolve"
	"github.com/treykane/remotec/internal/util"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

// profileRow is one line of `remotec list`.
type profileRow struct {
	Kind        string `json:"kind"`
	Name        string `json:"name"`
	Target      string `json:"target"`
	User        string `json:"user,omitempty"`
	Description string `json:"description,omitempty"`
}

func (r profileRow) key() string { return history.Key(r.Kind, r.Name) }

func newListCmd(opts *rootOptions) *cobra.Command {
	var (
		kind    string
		recent  bool
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List configured profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			rows, err := catalogRows(cat, kind)
			if err != nil {
				return err
			}
			if recent {
				lastUsed, err := history.LastUsed()
				if err != nil {
					return err
				}
				rows = history.SortRecent(rows, profileRow.key, lastUsed)
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(rows)
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("KIND", "NAME", "TARGET", "USER", "DESCRIPTION").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, r := range rows {
				t.Row(r.Kind, r.Name, r.Target, util.EmptyDash(r.User), util.EmptyDash(r.Description))
			}
			fmt.Println(t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only list one kind: rdp, ssh, tunnel or command")
	cmd.Flags().BoolVar(&recent, "recent", false, "sort by most recently launched")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}

func catalogRows(cat *config.Catalog, kind string) ([]profileRow, error) {
	want := map[string]bool{}
	switch strings.ToLower(kind) {
	case "":
		want = map[string]bool{model.KindRDP: true, model.KindSSH: true, model.KindTunnel: true, model.KindCommand: true}
	case "rdp":
		want[model.KindRDP] = true
	case "ssh":
		want[model.KindSSH] = true
	case "tunnel", "tunnels":
		want[model.KindTunnel] = true
	case "command", "commands":
		want[model.KindCommand] = true
	default:
		return nil, fmt.Errorf("unknown profile kind %q", kind)
	}

	var rows []profileRow
	if want[model.KindRDP] {
		for _, p := range cat.RDP {
			rows = append(rows, profileRow{
				Kind:        model.KindRDP,
				Name:        p.Name,
				Target:      addressTarget(p.Address),
				User:        util.DefaultString(p.Username, cat.RDPDefaults.Username),
				Description: p.Description,
			})
		}
	}
	if want[model.KindSSH] {
		for _, p := range cat.SSH {
			target := addressTarget(p.Address)
			if len(p.JumpHosts) > 0 && !p.DisableJumpHosts {
				target += fmt.Sprintf(" (%d jumps)", len(p.JumpHosts))
			}
			rows = append(rows, profileRow{
				Kind:        model.KindSSH,
				Name:        p.Name,
				Target:      target,
				User:        util.DefaultString(p.Username, cat.SSHDefaults.Username),
				Description: p.Description,
			})
		}
	}
	if want[model.KindTunnel] {
		for _, t := range cat.Tunnels {
			fwds := make([]string, 0, len(t.Forwards))
			for _, f := range t.Forwards {
				fwds = append(fwds, f.Arg())
			}
			rows = append(rows, profileRow{
				Kind:        model.KindTunnel,
				Name:        t.Name,
				Target:      "via " + t.SSHProfile + ": " + strings.Join(fwds, ", "),
				Description: t.Description,
			})
		}
	}
	if want[model.KindCommand] {
		for _, c := range cat.Commands {
			rows = append(rows, profileRow{
				Kind:        model.KindCommand,
				Name:        c.Name,
				Target:      "via " + c.SSHProfile + ": " + strings.Join(c.Command, " "),
				Description: c.Description,
			})
		}
	}
	return rows, nil
}

func addressTarget(a model.Address) string {
	addr, err := resolve.Address(a, false, false)
	if err != nil {
		return "-"
	}
	if a.Port != 0 {
		return addr + ":" + strconv.Itoa(a.Port)
	}
	return addr
}

func newDoctorCmd(opts *rootOptions) *cobra.Command {
	var jsonOut bool
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check profiles and local client setup",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := opts.loadCatalog()
			if err != nil {
				return err
			}
			report := doctor.Run(cat)
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			if len(report.Issues) == 0 {
				fmt.Println("no issues found")
				return nil
			}
			for _, i := range report.Issues {
				fmt.Printf("[%s] %s %s: %s\n", strings.ToUpper(string(i.Severity)), i.Check, i.Target, i.Message)
				fmt.Printf("    %s\n", i.Recommendation)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}
