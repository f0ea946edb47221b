package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/JonMunkholm/masterdata/internal/core"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := parseLevel(tt.in); got != tt.want {
			t.Errorf("parseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNewHandler_JSON(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "info", "json")).Info("hello", "entity", "ports")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v (%s)", err, buf.String())
	}
	if entry["entity"] != "ports" {
		t.Errorf("entity = %v, want ports", entry["entity"])
	}
}

func TestNewHandler_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	slog.New(NewHandler(&buf, "warn", "text")).Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("info entry written at warn level: %s", buf.String())
	}
}

func TestFromContext_AddsRequestAndActor(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(NewHandler(&buf, "info", "text")))
	defer slog.SetDefault(prev)

	actor := uuid.New()
	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	ctx = core.ContextWithActor(ctx, actor)
	ctx = core.ContextWithIPAddress(ctx, "10.0.0.7")

	FromContext(ctx).Info("done")

	out := buf.String()
	if !strings.Contains(out, "request_id=req-42") {
		t.Errorf("missing request_id in %q", out)
	}
	if !strings.Contains(out, "actor="+actor.String()) {
		t.Errorf("missing actor in %q", out)
	}
	if !strings.Contains(out, "ip=10.0.0.7") {
		t.Errorf("missing ip in %q", out)
	}
}

func TestFromContext_Empty(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(NewHandler(&buf, "info", "text")))
	defer slog.SetDefault(prev)

	FromContext(context.Background()).Info("plain")

	if out := buf.String(); strings.Contains(out, "request_id") || strings.Contains(out, "actor") {
		t.Errorf("unexpected context fields in %q", out)
	}
}
