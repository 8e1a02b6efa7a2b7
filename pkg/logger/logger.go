package logger

import (
	"log/slog"
	"os"
)

// New returns the process-wide structured logger. Local and dev runs log at
// debug; everything else at info.
func New(appEnv string) *slog.Logger {
	level := slog.LevelInfo
	if appEnv == "local" || appEnv == "dev" {
		level = slog.LevelDebug
	}

	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
