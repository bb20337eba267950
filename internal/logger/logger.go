package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
)

type contextKey struct{}

// Setup installs the default slog logger. Output goes to w, or stderr when w
// is nil, so it never interleaves with shell output on stdout.
func Setup(level string, format string, w io.Writer) {
	if w == nil {
		w = os.Stderr
	}
	var handler slog.Handler
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}
	switch format {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func WithCommandID(ctx context.Context, commandID string) context.Context {
	return context.WithValue(ctx, contextKey{}, commandID)
}

func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()
	if commandID, ok := ctx.Value(contextKey{}).(string); ok {
		logger = logger.With("command_id", commandID)
	}
	return logger
}

func WithComponent(component string) *slog.Logger {
	return slog.Default().With("component", component)
}

func ParseLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
