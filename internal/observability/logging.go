// Package observability provides logging and tracing.
package observability

import (
	"log/slog"
	"os"
)

// Logger is the application-wide structured logger, JSON to stdout.
var Logger *slog.Logger

func init() {
	Logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
