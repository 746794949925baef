package cli

import (
	"io"
	"log/slog"
)

// setupLogging installs a text handler on w as the default logger. verbose
// forces debug regardless of level.
func setupLogging(w io.Writer, level string, verbose bool) (*slog.Logger, error) {
	var logLevel slog.Level
	err := logLevel.UnmarshalText([]byte(level))
	if verbose {
		logLevel = slog.LevelDebug
	}
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: logLevel})
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, err
}
