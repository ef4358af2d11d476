package main

import (
	"errors"
	"log"
	"os"
	"time"

	"github.com/Harvard-ATG/HarmonyLab/agents/coordination"
	"github.com/Harvard-ATG/HarmonyLab/config"
	"github.com/Harvard-ATG/HarmonyLab/logger"
	"github.com/getsentry/sentry-go"
	"github.com/joho/godotenv"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file loaded", logger.Fields{"error": err.Error()})
	}

	cfg := config.Load()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			Debug:            !cfg.IsProduction(),
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		if isUnexpected(err) {
			sentry.CaptureException(err)
		}
		return 1
	}
	return 0
}

// isUnexpected reports whether err is worth reporting, as opposed to bad input
func isUnexpected(err error) bool {
	return !coordination.IsInputError(err) && !errors.Is(err, errInvalidExercise)
}
