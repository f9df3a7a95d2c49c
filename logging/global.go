package logging

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

type LoggingService struct {
	Logger *slog.Logger
	closer io.Closer
}

var (
	DefaultLoggingService *LoggingService
	serviceMu             sync.RWMutex
)

// InitLogger initializes the global logger instance and makes it the slog default
func InitLogger(opts Options) *slog.Logger {
	logger, closer := NewLogger(opts)

	serviceMu.Lock()
	DefaultLoggingService = &LoggingService{Logger: logger, closer: closer}
	serviceMu.Unlock()

	slog.SetDefault(logger)
	return logger
}

// Close flushes and closes the log file of the global logger
func Close() error {
	serviceMu.Lock()
	defer serviceMu.Unlock()
	if DefaultLoggingService == nil || DefaultLoggingService.closer == nil {
		return nil
	}
	err := DefaultLoggingService.closer.Close()
	DefaultLoggingService.closer = nil
	return err
}

// Logger returns the global logger, or a stderr fallback when InitLogger was not called
func Logger() *slog.Logger {
	serviceMu.RLock()
	defer serviceMu.RUnlock()
	if DefaultLoggingService == nil || DefaultLoggingService.Logger == nil {
		return fallback
	}
	return DefaultLoggingService.Logger
}

var fallback = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

// Package-level functions for direct access

func Info(msg string, args ...any) {
	Logger().Info(msg, args...)
}

func Error(msg string, args ...any) {
	Logger().Error(msg, args...)
}

func Warn(msg string, args ...any) {
	Logger().Warn(msg, args...)
}

func Debug(msg string, args ...any) {
	Logger().Debug(msg, args...)
}
