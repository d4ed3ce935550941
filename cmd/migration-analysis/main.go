package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/ThandieOps/migration-analysis/internal/cli"
	"github.com/ThandieOps/migration-analysis/internal/config"
	"github.com/ThandieOps/migration-analysis/internal/engine"
	"github.com/ThandieOps/migration-analysis/internal/logger"
)

func main() {
	// Bad settings must not hide usage, so the error is held until an
	// executor is needed and logging falls back to the defaults.
	settings, settingsErr := config.LoadSettings(os.Getenv(config.EnvConfigFile))
	logging := config.DefaultSettings().Logging
	if settingsErr == nil {
		logging = settings.Logging
	}

	if err := logger.Init(logger.Options{
		Level:  logging.Level,
		JSON:   logging.JSON,
		ToFile: logging.ToFile,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(cli.ExitFailure)
	}
	defer logger.Close() // Ensure log file is closed on success

	analysis := &cli.Analysis{
		NewExecutor: executorFactory(settings, settingsErr, logger.Logger),
		Exit: func(code int) {
			logger.Close()
			os.Exit(code)
		},
		Stdout: os.Stdout,
		Logger: logger.Logger,
	}

	analysis.Run(context.Background(), os.Args[1:])
}

// executorFactory builds engine executors from the loaded settings, or
// reports the settings error once a run actually needs them.
func executorFactory(settings *config.Settings, settingsErr error, log *slog.Logger) cli.ExecutorFactory {
	return func(cfg config.Configuration) (cli.Executor, error) {
		if settingsErr != nil {
			log.Error("Error loading settings", "error", settingsErr)
			return nil, settingsErr
		}
		executor, err := engine.New(cfg, *settings, log)
		if err != nil {
			return nil, err
		}
		return executor, nil
	}
}
