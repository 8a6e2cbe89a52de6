package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the process-wide slog handler. Debug mode also
// turns on source locations since debug logs are only ever read by a
// developer staring at the code.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	slog.SetDefault(slog.New(handler))
}
