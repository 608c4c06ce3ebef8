package logging

import (
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
)

// Logger is the global slog instance for the application
var Logger *slog.Logger

// Init initializes the logging system, writing logs to <dataDir>/logs/trellis.log
// Uses text format for human readability. The returned closer releases the
// log file.
func Init(dataDir string) (io.Closer, error) {
	logDir := filepath.Join(dataDir, "logs")
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return nil, err
	}

	// Open log file in append mode
	logPath := filepath.Join(logDir, "trellis.log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, err
	}

	// Create text handler (human readable)
	handler := slog.NewTextHandler(file, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	Logger = slog.New(handler)
	slog.SetDefault(Logger)

	// Redirect standard log package output to the same file
	log.SetOutput(file)
	log.SetFlags(log.LstdFlags)

	return file, nil
}

// Discard installs a logger that drops everything. The REPL owns the
// terminal, so a failed Init must not fall back to stderr.
func Discard() {
	Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	slog.SetDefault(Logger)
	log.SetOutput(io.Discard)
}
