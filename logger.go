package rickboard

import (
	"log/slog"

	"github.com/Atorque/rickboard/internal/logging"
)

// SetLogger configures the logger for rickboard and all its sub-packages.
// By default, rickboard produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by rickboard:
//   - [slog.LevelDebug]: per-frame diagnostics (bands rendered, timings)
//   - [slog.LevelInfo]: lifecycle events (canvas loaded, save completed)
//   - [slog.LevelWarn]: non-fatal issues (default canvas fallback, skipped
//     poster records, failed saves)
//
// Example:
//
//	rickboard.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by rickboard.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
