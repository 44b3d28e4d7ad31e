// Package logging builds the slog loggers shared by the api and worker
// binaries, plus the attr helpers that keep field names uniform
// between them.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// NewJSONLogger returns a JSON logger tagged with the service name so
// api and worker records can be told apart in a merged stream.
func NewJSONLogger(service, level string) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(level),
	})
	return slog.New(handler).With(slog.String("service", service))
}

// Session tags a record with the session the work belongs to, so one
// upload's lifecycle can be grepped across both binaries.
func Session(id string) slog.Attr {
	return slog.String("session_id", id)
}

// Err keeps the error field name uniform across the codebase.
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String("error", "")
	}
	return slog.String("error", err.Error())
}

func parseLevel(level string) slog.Level {
	text := strings.TrimSpace(level)
	if strings.EqualFold(text, "warning") {
		return slog.LevelWarn
	}
	var parsed slog.Level
	if err := parsed.UnmarshalText([]byte(text)); err != nil {
		return slog.LevelInfo
	}
	return parsed
}
