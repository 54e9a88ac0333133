package run

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/sidkik/pushsync/cmd/util"
	"github.com/sidkik/pushsync/pkg/config"
	"github.com/sidkik/pushsync/pkg/errors"
	"github.com/sidkik/pushsync/pkg/fswatch"
	"github.com/sidkik/pushsync/pkg/lock"
	"github.com/sidkik/pushsync/pkg/logging"
	"github.com/sidkik/pushsync/pkg/metrics"
	"github.com/sidkik/pushsync/pkg/proc"
	"github.com/sidkik/pushsync/pkg/scheduler"
	"github.com/sidkik/pushsync/pkg/sync"
	"github.com/sidkik/pushsync/pkg/transfer"
)

// Mocked out for unit testing.
var (
	runner  proc.Runner = proc.ExecRunner{}
	verbose             = logging.VerboseFromEnv
)

// New creates a new `run` command.
func New() *cobra.Command {
	var configPath string
	var once bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Push new and updated files to the remote on a schedule",
		Long: "Run reconciliation passes forever. Each pass lists the remote " +
			"directory once,\nand transfers the local files that are missing " +
			"from it or newer than\ntheir remote copy.",
		Run: func(_ *cobra.Command, _ []string) {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := run(ctx, configPath, once); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&configPath, "config", config.DefaultPath,
		"The path to the pushsync config.")
	cmd.Flags().BoolVar(&once, "once", false,
		"Run a single pass and exit, rather than syncing on a schedule.")
	return cmd
}

func run(ctx context.Context, configPath string, once bool) error {
	cfg, found, err := config.Load(configPath)
	if err != nil {
		return errors.WithContext(err, "load config")
	}

	log, err := logging.New(afero.NewOsFs(), logging.Options{
		Directory: cfg.Logs.Directory,
		Verbose:   verbose(),
	})
	if err != nil {
		return errors.WithContext(err, "setup logging")
	}
	logConfigStatus(log, configPath, found)

	instanceLock, err := lock.Acquire(cfg.Logs.Directory)
	if err != nil {
		return errors.WithContext(err, "acquire lock")
	}
	defer func() {
		if err := instanceLock.Release(); err != nil {
			log.WithError(err).Warn("Failed to release lock")
		}
	}()

	tool := transfer.New(log, runner, transfer.Config{
		Executable:      cfg.Tool.Executable,
		RemoteName:      cfg.Remote.Name,
		RemoteDirectory: cfg.Remote.Directory,
		DiagnosticsLog:  logging.DiagnosticsLogPath(cfg.Logs.Directory),
		Timeout:         cfg.TransferTimeout(),
	})
	tool.CheckVersion(ctx)

	ignore := sync.NewIgnoreList(cfg.Files.Ignore)
	engine := sync.NewEngine(log, cfg.Files.LocalDirectory, tool, ignore)
	schedConfig := scheduler.Config{Interval: cfg.Interval()}

	if once {
		res := scheduler.New(log, engine, schedConfig).RunOnce(ctx)
		if res.Failed > 0 {
			return errors.NewFriendlyError("%d files failed to sync. See %s for details.",
				res.Failed, logging.ActionLogPath(cfg.Logs.Directory))
		}
		return nil
	}

	if cfg.Schedule.Watch {
		watcher, err := fswatch.Watch(log, cfg.Files.LocalDirectory, ignore)
		if err != nil {
			log.WithError(err).Warnf("Failed to watch %s for changes. "+
				"Files will only be synced every %d minutes.",
				cfg.Files.LocalDirectory, cfg.Schedule.IntervalMinutes)
		} else {
			defer watcher.Close()
			schedConfig.Trigger = watcher.Changes
		}
	}

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return scheduler.New(log, engine, schedConfig).Run(ctx)
	})
	if cfg.Metrics.Address != "" {
		group.Go(func() error {
			// Syncing continues without the endpoint.
			if err := metrics.Serve(ctx, cfg.Metrics.Address); err != nil {
				log.WithError(err).Warnf("Failed to serve metrics on %s", cfg.Metrics.Address)
			}
			return nil
		})
	}
	return group.Wait()
}

func logConfigStatus(log *logrus.Logger, path string, found bool) {
	if found {
		log.Infof("Config file %s exists and was read successfully.", path)
	} else {
		log.Infof("Config file %s not found. Using default settings.", path)
	}
}
