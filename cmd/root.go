package cmd

import (
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	configCmd "github.com/sidkik/pushsync/cmd/config"
	"github.com/sidkik/pushsync/cmd/run"
	"github.com/sidkik/pushsync/cmd/util"
	"github.com/sidkik/pushsync/cmd/version"
	"github.com/sidkik/pushsync/pkg/logging"
)

// Execute runs the main CLI process.
func Execute() {
	// The action log isn't set up until the config is loaded, so this only
	// affects messages printed to the console beforehand.
	if logging.VerboseFromEnv() {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:          "pushsync",
		Short:        "Push new and updated files in a local directory to remote storage.",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		configCmd.New(),
		run.New(),
		version.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
