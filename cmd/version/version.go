package version

import (
	"context"
	"fmt"
	"io"
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/pushsync/cmd/util"
	"github.com/sidkik/pushsync/pkg/config"
	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/proc"
	"github.com/sidkik/pushsync/pkg/transfer"
	"github.com/sidkik/pushsync/pkg/version"
)

// Mocked out for unit testing.
var (
	stdout     io.Writer   = os.Stdout
	loadConfig             = config.Load
	runner     proc.Runner = proc.ExecRunner{}
)

// New creates a new `version` command.
func New() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version of pushsync and of the transfer tool.",
		Run: func(cmd *cobra.Command, _ []string) {
			if err := run(cmd.Context(), configPath); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"The path to the pushsync config.")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	fmt.Fprintf(stdout, "pushsync version: %s\n", version.Version)

	cfg, _, err := loadConfig(configPath)
	if err != nil {
		return errors.WithContext(err, "load config")
	}

	tool := transfer.New(log.StandardLogger(), runner, transfer.Config{Executable: cfg.Tool.Executable})
	toolVersion, err := tool.Version(ctx)
	if err != nil {
		if notFound, ok := errors.RootCause(err).(errors.ToolNotFound); ok {
			fmt.Fprintf(stdout, "transfer tool: not found at %s\n", notFound.Path)
			return nil
		}
		return errors.WithContext(err, "get transfer tool version")
	}

	fmt.Fprintf(stdout, "transfer tool version: %s (minimum supported: %s)\n",
		toolVersion, transfer.MinimumVersion)
	return nil
}
