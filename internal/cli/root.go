// Package cli provides the command-line interface for remotec.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/treykane/remotec/internal/config"
	"github.com/treykane/remotec/internal/events"
	"github.com/treykane/remotec/internal/history"
	"github.com/treykane/remotec/internal/logging"
	"github.com/treykane/remotec/internal/opener"
	"github.com/treykane/remotec/internal/sshclient"
)

// Collaborators replaced in tests.
var (
	openFile     = opener.OpenFile
	openTarget   = opener.Open
	newSSHClient = sshclient.New
)

type rootOptions struct {
	configPath string
	logLevel   string
	logJSON    bool
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "remotec",
		Short:         "Launch RDP and SSH sessions from named profiles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Setup(logging.Config{Level: opts.logLevel, JSON: opts.logJSON})
		},
	}
	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/remotec/config.yaml, or $"+config.EnvConfigPath+")")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn, error (default $"+logging.EnvLevel+" or info)")
	pf.BoolVar(&opts.logJSON, "log-json", false, "write logs as JSON")

	root.AddCommand(
		newRDPCmd(opts),
		newSSHCmd(opts),
		newTunnelCmd(opts),
		newCommandCmd(opts),
		newConfigCmd(opts),
		newListCmd(opts),
		newDoctorCmd(opts),
		newHistoryCmd(),
	)
	return root
}

func (o *rootOptions) path() (string, error) {
	if o.configPath != "" {
		return o.configPath, nil
	}
	return config.DefaultPath()
}

// loadCatalog loads the config. When it had to be created, it is opened for
// editing before the error is returned.
func (o *rootOptions) loadCatalog() (*config.Catalog, error) {
	path, err := o.path()
	if err != nil {
		return nil, err
	}
	cat, err := config.Load(path)
	if errors.Is(err, config.ErrConfigCreated) {
		if openErr := openFile(path); openErr != nil {
			slog.Warn("unable to open config file", "path", path, "error", openErr)
		}
	}
	return cat, err
}

func describe(kind, name, description string) {
	if description != "" {
		slog.Info(description, "profile", kind+"/"+name)
	}
}

// finishLaunch journals a real launch and touches its history entry when it
// succeeded. It returns err unchanged.
func finishLaunch(kind, name, command string, printOnly bool, err error) error {
	if printOnly {
		return err
	}
	evt := events.Event{Kind: kind, Profile: name, EventType: events.TypeLaunched, Command: command}
	if err != nil {
		evt.EventType = events.TypeFailed
		evt.Message = err.Error()
	}
	if store, storeErr := events.NewStore(); storeErr == nil {
		if appendErr := store.Append(evt); appendErr != nil {
			slog.Debug("failed to journal launch", "error", appendErr)
		}
	}
	if err != nil {
		return err
	}
	if err := history.Touch(kind, name); err != nil {
		slog.Debug("failed to record launch history", "error", err)
	}
	return nil
}

func newConfigCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.path()
			if err != nil {
				return err
			}
			if _, err := os.Stat(path); os.IsNotExist(err) {
				if err := config.WriteDefault(path); err != nil {
					return err
				}
			}
			if err := openFile(path); err != nil {
				return fmt.Errorf("unable to open config file: %w", err)
			}
			return nil
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := opts.path()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	})
	return cmd
}
