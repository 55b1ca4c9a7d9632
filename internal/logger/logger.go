package logger

import (
	"os"
	"time"

	log "github.com/sirupsen/logrus"
)

// New builds the application logger for environment.
func New(environment string) *log.Logger {
	logger := log.New()
	logger.SetOutput(os.Stdout)

	if environment == "production" {
		logger.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
		logger.SetLevel(log.InfoLevel)
	} else {
		logger.SetFormatter(&log.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
		logger.SetLevel(log.DebugLevel)
	}

	return logger
}
