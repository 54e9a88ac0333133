package config

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/pushsync/cmd/util"
	"github.com/sidkik/pushsync/pkg/config"
	"github.com/sidkik/pushsync/pkg/errors"
)

// Mocked for unit testing.
var stdout io.Writer = os.Stdout

// New creates a new `config` command.
func New() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the pushsync configuration",
	}
	cmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath,
		"The path to the pushsync config.")

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file containing the default settings",
		Run: func(_ *cobra.Command, _ []string) {
			if err := initConfig(configPath, force); err != nil {
				err = errors.NewFriendlyError("Failed to create config:\n%s",
					errors.GetPrintableMessage(err))
				util.HandleFatalError(err)
			}
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false,
		"Overwrite the config file if it already exists.")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings, including defaults and environment overrides",
		Run: func(_ *cobra.Command, _ []string) {
			if err := showConfig(configPath); err != nil {
				util.HandleFatalError(err)
			}
		},
	}

	cmd.AddCommand(initCmd, showCmd)
	return cmd
}

func initConfig(path string, force bool) error {
	written, err := config.Init(path, force)
	if err != nil {
		return err
	}

	fmt.Fprintf(stdout, "Wrote the default config to %s\n", written)
	return nil
}

func showConfig(path string) error {
	cfg, found, err := config.Load(path)
	if err != nil {
		return errors.WithContext(err, "load config")
	}

	if !found {
		fmt.Fprintf(stdout, "# %s doesn't exist. Showing the default settings.\n", path)
	}

	yamlBytes, err := config.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}
	_, err = stdout.Write(yamlBytes)
	return err
}
