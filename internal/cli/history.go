package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/treykane/remotec/internal/events"
	"github.com/treykane/remotec/internal/util"
)

func newHistoryCmd() *cobra.Command {
	var (
		kind    string
		profile string
		since   time.Duration
		limit   int
		jsonOut bool
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent launches",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := events.NewStore()
			if err != nil {
				return err
			}
			q := events.Query{Kind: kind, Profile: profile, Limit: limit}
			if since > 0 {
				q.Since = time.Now().Add(-since)
			}
			evts, err := store.Read(q)
			if err != nil {
				return err
			}
			if jsonOut {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(evts)
			}
			if len(evts) == 0 {
				fmt.Println("no launches recorded")
				return nil
			}
			t := table.New().
				Border(lipgloss.NormalBorder()).
				Headers("TIME", "KIND", "PROFILE", "RESULT", "COMMAND").
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == table.HeaderRow {
						return headerStyle
					}
					return cellStyle
				})
			for _, e := range evts {
				result := e.EventType
				if e.Message != "" {
					result += ": " + e.Message
				}
				t.Row(e.Timestamp.Local().Format(time.DateTime), e.Kind, e.Profile, result, util.EmptyDash(e.Command))
			}
			fmt.Println(t.Render())
			return nil
		},
	}
	cmd.Flags().StringVar(&kind, "kind", "", "only show one kind: rdp, ssh, tunnel or command")
	cmd.Flags().StringVar(&profile, "profile", "", "only show launches of this profile")
	cmd.Flags().DurationVar(&since, "since", 0, "only show launches newer than this (e.g. 24h)")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of launches to show (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output JSON")
	return cmd
}
