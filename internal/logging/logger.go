// Package logging configures log/slog for the service and derives
// request-scoped loggers from a context.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/masterdata/internal/core"
)

// Setup installs the default logger. Level is debug, info, warn or error
// (info when unrecognised); format is "json" or anything else for text.
func Setup(level, format string) {
	slog.SetDefault(slog.New(NewHandler(os.Stdout, level, format)))
}

// NewHandler returns the handler Setup installs, writing to w.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// FromContext returns the default logger with the request id, acting user
// and client IP found in ctx attached.
//
//	logging.FromContext(r.Context()).Info("export started", "entity", key)
func FromContext(ctx context.Context) *slog.Logger {
	var attrs []any
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		attrs = append(attrs, "request_id", reqID)
	}
	if actor, ok := core.ActorFromContext(ctx); ok {
		attrs = append(attrs, "actor", actor.String())
	}
	if ip := core.GetIPAddressFromContext(ctx); ip != "" {
		attrs = append(attrs, "ip", ip)
	}

	logger := slog.Default()
	if len(attrs) > 0 {
		logger = logger.With(attrs...)
	}
	return logger
}

// WithFields is FromContext with extra fields, for loggers that follow one
// operation through several steps.
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
