package utils

import (
	"context"
	"os"

	"github.com/sirupsen/logrus"
)

type contextKey string

const loggerKey = contextKey("logger")

// NewLogger initializes a single logger that can log at multiple levels.
// Unknown levels fall back to info.
func NewLogger(level string, logToFile bool, filePath string) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if logToFile {
		file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
		if err != nil {
			logger.Fatal("Could not open log file:", err)
		}
		logger.SetOutput(file)
	} else {
		logger.SetOutput(os.Stdout)
	}

	logger.SetFormatter(&logrus.JSONFormatter{})
	return logger
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

func LoggerFromContext(ctx context.Context) *logrus.Entry {
	logger, ok := ctx.Value(loggerKey).(*logrus.Entry)
	if !ok {
		defaultLogger := logrus.New()
		defaultLogger.SetLevel(logrus.InfoLevel)
		defaultLogger.SetFormatter(&logrus.TextFormatter{})
		return logrus.NewEntry(defaultLogger)
	}
	return logger
}
