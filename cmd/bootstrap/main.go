package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kingpin/v2"
	"go.uber.org/zap"

	"github.com/eugenenazirov/morning-briefing/internal/logging"
	"github.com/eugenenazirov/morning-briefing/internal/scaffold"
)

func main() {
	kingpinApp := kingpin.New("bootstrap", "Creates the .env and .gitignore files used by the morning briefing")
	dir := kingpinApp.Flag("dir", "Directory in which to create the files").Default(".").ExistingDir()
	logLevel := kingpinApp.Flag("log-level", "Log level (debug, info, warn, error)").Default("info").String()

	kingpin.MustParse(kingpinApp.Parse(os.Args[1:]))

	logger, err := logging.New(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
	defer func() {
		_ = logger.Sync()
	}()

	if err := bootstrap(*dir, logger); err != nil {
		logger.Fatal("bootstrap failed", zap.Error(err))
	}
}

func bootstrap(dir string, logger *zap.Logger) error {
	res, err := scaffold.Bootstrap(dir)
	if err != nil {
		return err
	}

	logger.Info("environment file",
		zap.String("path", res.EnvPath),
		zap.Bool("created", res.EnvCreated),
	)
	logger.Info("ignore file",
		zap.String("path", res.IgnorePath),
		zap.Bool("created", res.IgnoreCreated),
	)

	if !res.SelfCheckOK {
		logger.Warn("environment file does not define the self-check key",
			zap.String("key", scaffold.SelfCheckKey),
		)
		return nil
	}
	logger.Info("environment file parsed", zap.String("key", scaffold.SelfCheckKey))
	return nil
}
