package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/morning-briefing/internal/application"
	"github.com/eugenenazirov/morning-briefing/internal/config"
	"github.com/eugenenazirov/morning-briefing/internal/logging"
)

func main() {
	kingpinApp := kingpin.New("briefing", "Morning Briefing - mails yourself the latest tech news and the weather")
	configFile := kingpinApp.Flag("config", "Path to YAML configuration file").String()
	envFile := kingpinApp.Flag("env-file", "Path to the environment file holding credentials").Default(".env").String()
	city := kingpinApp.Flag("city", "City used for the weather report").String()
	country := kingpinApp.Flag("country", "Country code used for the weather report").String()
	var includeTasksSet bool
	includeTasks := kingpinApp.Flag("include-tasks", "Append open Todoist tasks to the briefing").IsSetByUser(&includeTasksSet).Bool()
	dryRun := kingpinApp.Flag("dry-run", "Print the briefing instead of sending it").Bool()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").String()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	overrides := &config.CLIOverrides{
		ConfigFile: *configFile,
		EnvFile:    *envFile,
		DryRun:     *dryRun,
	}

	if *city != "" {
		overrides.City = city
	}

	if *country != "" {
		overrides.Country = country
	}

	if includeTasksSet {
		overrides.IncludeTasks = includeTasks
	}

	if *logLevel != "" {
		overrides.LogLevel = logLevel
	}

	cfg, err := config.Load(overrides)
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, application.New(cfg, logger), cfg.DryRun, os.Stdout, logger)
}

type briefingRunner interface {
	Run(ctx context.Context) string
	Preview(ctx context.Context) string
}

// run prints either the delivery status or, in dry-run mode, the body.
func run(ctx context.Context, app briefingRunner, dryRun bool, out io.Writer, logger *zap.Logger) {
	if dryRun {
		logger.Info("dry run, briefing will not be sent")
		fmt.Fprint(out, app.Preview(ctx))
		return
	}
	fmt.Fprintln(out, app.Run(ctx))
}
