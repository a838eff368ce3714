package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Global structured logger. Components grab child loggers with With
// instead of threading a logger through every constructor.

var (
	mu     sync.RWMutex
	logger *slog.Logger
)

type Config struct {
	Level  string
	Format string // "text" or "json"
}

// Init sets up the global logger. Safe to call more than once.
func Init(c Config) {
	mu.Lock()
	defer mu.Unlock()

	opts := &slog.HandlerOptions{Level: parseLevel(c.Level)}

	var handler slog.Handler
	if strings.EqualFold(c.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger = slog.New(handler)
}

// L returns the global logger, initializing a default one if needed.
func L() *slog.Logger {
	mu.RLock()
	if logger != nil {
		defer mu.RUnlock()
		return logger
	}
	mu.RUnlock()

	Init(Config{Level: "info", Format: "text"})

	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func With(args ...any) *slog.Logger { return L().With(args...) }

func Debug(msg string, args ...any) { L().Debug(msg, args...) }
func Info(msg string, args ...any)  { L().Info(msg, args...) }
func Warn(msg string, args ...any)  { L().Warn(msg, args...) }
func Error(msg string, args ...any) { L().Error(msg, args...) }

func parseLevel(s string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
