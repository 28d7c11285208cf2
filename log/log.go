// Package log configures the process-wide slog logger for batch runs.
package log

import (
	"log/slog"
	"os"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Setup routes the default slog logger to a rotating file when logFilePath is
// set, or to stderr otherwise. Debug mode lowers the level and always keeps
// output on the console.
func Setup(logFilePath string, debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	out := os.Stderr
	opts := &slog.HandlerOptions{Level: level}

	if logFilePath != "" && !debug {
		slog.SetDefault(slog.New(slog.NewTextHandler(&lumberjack.Logger{
			Filename:   logFilePath,
			MaxBackups: 3,
			MaxAge:     28, // days
		}, opts)))

		return
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, opts)))
}
