package logger

import (
	"io"
	"log/slog"
	"os"
)

const serviceName = "portfolio"

// New returns a JSON logger in production and a text logger everywhere else,
// tagged with the service name and environment. It also becomes slog's default.
func New(env string) *slog.Logger {
	l := newWithWriter(os.Stdout, env)
	slog.SetDefault(l)
	return l
}

func newWithWriter(w io.Writer, env string) *slog.Logger {
	var handler slog.Handler
	switch env {
	case "prod", "production":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     slog.LevelInfo,
			AddSource: true,
		})
	default:
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})
	}

	return slog.New(handler).With(
		slog.String("service", serviceName),
		slog.String("environment", env),
	)
}

// Discard is used by tests that don't care about log output.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
