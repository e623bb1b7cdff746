// Concentus - Apple Music Taste Profiles and Listener Matching
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/concentus

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestNewSlogHandler(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandler()

	if handler == nil {
		t.Fatal("NewSlogHandler() = nil, want non-nil")
	}
	if handler.attrs != nil {
		t.Errorf("NewSlogHandler().attrs = %v, want nil", handler.attrs)
	}
	if handler.groups != nil {
		t.Errorf("NewSlogHandler().groups = %v, want nil", handler.groups)
	}
}

func TestNewSlogHandlerWithLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	handler := NewSlogHandlerWithLogger(logger)
	if handler == nil {
		t.Fatal("NewSlogHandlerWithLogger() = nil, want non-nil")
	}

	slogger := slog.New(handler)
	slogger.Info("supervisor restarting service")

	if !strings.Contains(buf.String(), "supervisor restarting service") {
		t.Errorf("expected message in output: %s", buf.String())
	}
}

func TestSlogHandler_Enabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		zerologLevel zerolog.Level
		slogLevel    slog.Level
		want         bool
	}{
		{"debug logger enables debug level", zerolog.DebugLevel, slog.LevelDebug, true},
		{"info logger disables debug level", zerolog.InfoLevel, slog.LevelDebug, false},
		{"info logger enables info level", zerolog.InfoLevel, slog.LevelInfo, true},
		{"info logger enables warn level", zerolog.InfoLevel, slog.LevelWarn, true},
		{"warn logger disables info level", zerolog.WarnLevel, slog.LevelInfo, false},
		{"error logger disables warn level", zerolog.ErrorLevel, slog.LevelWarn, false},
		{"trace logger enables all levels", zerolog.TraceLevel, slog.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			logger := zerolog.New(nil).Level(tt.zerologLevel)
			handler := NewSlogHandlerWithLogger(logger)

			got := handler.Enabled(context.Background(), tt.slogLevel)
			if got != tt.want {
				t.Errorf("Enabled() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSlogHandler_Handle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		level     slog.Level
		message   string
		wantLevel string
	}{
		{"debug level", slog.LevelDebug, "debug message", "debug"},
		{"info level", slog.LevelInfo, "info message", "info"},
		{"warn level", slog.LevelWarn, "warn message", "warn"},
		{"error level", slog.LevelError, "error message", "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
			handler := NewSlogHandlerWithLogger(logger)

			record := slog.NewRecord(time.Now(), tt.level, tt.message, 0)
			if err := handler.Handle(context.Background(), record); err != nil {
				t.Fatalf("Handle() error = %v", err)
			}

			output := buf.String()
			if !strings.Contains(output, tt.wantLevel) {
				t.Errorf("Handle() output missing level %q: %s", tt.wantLevel, output)
			}
			if !strings.Contains(output, tt.message) {
				t.Errorf("Handle() output missing message %q: %s", tt.message, output)
			}
		})
	}
}

func TestSlogHandler_Handle_UnknownLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	handler := NewSlogHandlerWithLogger(logger)

	// Levels outside the standard four fall back to info
	record := slog.NewRecord(time.Now(), slog.Level(100), "unusual level", 0)
	if err := handler.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	if !strings.Contains(buf.String(), "unusual level") {
		t.Errorf("Handle() output missing message: %s", buf.String())
	}
}

func TestSlogHandler_Handle_WithAttributes(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	handler := NewSlogHandlerWithLogger(logger)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "resync sweep", 0)
	record.AddAttrs(
		slog.String("service", "resync"),
		slog.Int("users", 42),
	)

	if err := handler.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "service") || !strings.Contains(output, "resync") {
		t.Errorf("Handle() output missing service attribute: %s", output)
	}
	if !strings.Contains(output, "users") || !strings.Contains(output, "42") {
		t.Errorf("Handle() output missing users attribute: %s", output)
	}
}

func TestSlogHandler_Handle_PreConfiguredAttrs(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	handler := NewSlogHandlerWithLogger(logger)

	withAttrs := handler.WithAttrs([]slog.Attr{
		slog.String("component", "supervisor"),
	})

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "service started", 0)
	if err := withAttrs.Handle(context.Background(), record); err != nil {
		t.Fatalf("Handle() error = %v", err)
	}

	output := buf.String()
	if !strings.Contains(output, "component") || !strings.Contains(output, "supervisor") {
		t.Errorf("Handle() output missing pre-configured attribute: %s", output)
	}
}

func TestSlogHandler_WithAttrs(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandler()

	handler1 := handler.WithAttrs([]slog.Attr{
		slog.String("key1", "value1"),
	}).(*SlogHandler)
	if len(handler1.attrs) != 1 {
		t.Errorf("WithAttrs() attrs length = %d, want 1", len(handler1.attrs))
	}

	handler2 := handler1.WithAttrs([]slog.Attr{
		slog.String("key2", "value2"),
		slog.Int("key3", 3),
	}).(*SlogHandler)
	if len(handler2.attrs) != 3 {
		t.Errorf("WithAttrs() chained attrs length = %d, want 3", len(handler2.attrs))
	}

	// Original handler stays unmodified
	if len(handler.attrs) != 0 {
		t.Error("WithAttrs() should not modify original handler")
	}
}

func TestSlogHandler_WithGroup(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandler()

	handler1 := handler.WithGroup("group1").(*SlogHandler)
	if len(handler1.groups) != 1 || handler1.groups[0] != "group1" {
		t.Errorf("WithGroup() groups = %v, want ['group1']", handler1.groups)
	}

	handler2 := handler1.WithGroup("group2").(*SlogHandler)
	if len(handler2.groups) != 2 || handler2.groups[1] != "group2" {
		t.Errorf("WithGroup() chained groups = %v, want ['group1', 'group2']", handler2.groups)
	}

	if len(handler.groups) != 0 {
		t.Error("WithGroup() should not modify original handler")
	}
}

func TestSlogHandler_WithGroup_Empty(t *testing.T) {
	t.Parallel()

	handler := NewSlogHandler()
	if handler.WithGroup("") != handler {
		t.Error("WithGroup('') should return same handler")
	}
}

func TestSlogHandler_WithGroup_KeyPrefix(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	handler := NewSlogHandlerWithLogger(logger)

	slogger := slog.New(handler.WithGroup("prefix"))
	slogger.Info("test", "key", "value")

	if !strings.Contains(buf.String(), "prefix.key") {
		t.Errorf("WithGroup() should prefix keys: %s", buf.String())
	}
}

func TestAddAttr_AllTypes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		attr     slog.Attr
		wantKeys []string
	}{
		{"string", slog.String("str", "value"), []string{"str", "value"}},
		{"int64", slog.Int64("int", 42), []string{"int", "42"}},
		{"uint64", slog.Uint64("uint", 100), []string{"uint", "100"}},
		{"float64", slog.Float64("float", 3.14), []string{"float", "3.14"}},
		{"bool true", slog.Bool("flag", true), []string{"flag", "true"}},
		{"bool false", slog.Bool("disabled", false), []string{"disabled", "false"}},
		{"duration", slog.Duration("elapsed", time.Second), []string{"elapsed"}},
		{"time", slog.Time("created", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)), []string{"created"}},
		{"any", slog.Any("data", map[string]int{"a": 1}), []string{"data"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
			handler := NewSlogHandlerWithLogger(logger)

			record := slog.NewRecord(time.Now(), slog.LevelInfo, "test", 0)
			record.AddAttrs(tt.attr)
			_ = handler.Handle(context.Background(), record)

			output := buf.String()
			for _, key := range tt.wantKeys {
				if !strings.Contains(output, key) {
					t.Errorf("output missing %q: %s", key, output)
				}
			}
		})
	}
}

func TestAddAttr_Group(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	handler := NewSlogHandlerWithLogger(logger)

	groupAttr := slog.Group("request",
		slog.String("method", "GET"),
		slog.Int("status", 200),
	)

	record := slog.NewRecord(time.Now(), slog.LevelInfo, "test", 0)
	record.AddAttrs(groupAttr)
	_ = handler.Handle(context.Background(), record)

	output := buf.String()
	if !strings.Contains(output, "request.method") {
		t.Errorf("output missing request.method: %s", output)
	}
	if !strings.Contains(output, "request.status") {
		t.Errorf("output missing request.status: %s", output)
	}
}

func TestAddAttr_NestedGroups(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	handler := NewSlogHandlerWithLogger(logger)

	nested := handler.WithGroup("level1").WithGroup("level2")
	slogger := slog.New(nested)
	slogger.Info("test", "key", "value")

	// Prefixes are prepended in group order, so the outermost group lands last
	if !strings.Contains(buf.String(), "level2.level1.key") {
		t.Errorf("output should have nested group prefix: %s", buf.String())
	}
}

func TestSlogToZerologLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		slogLvl slog.Level
		want    zerolog.Level
	}{
		{"debug", slog.LevelDebug, zerolog.DebugLevel},
		{"info", slog.LevelInfo, zerolog.InfoLevel},
		{"warn", slog.LevelWarn, zerolog.WarnLevel},
		{"error", slog.LevelError, zerolog.ErrorLevel},
		{"below debug maps to trace", slog.Level(-8), zerolog.TraceLevel},
		{"above error maps to error", slog.Level(12), zerolog.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := slogToZerologLevel(tt.slogLvl); got != tt.want {
				t.Errorf("slogToZerologLevel(%v) = %v, want %v", tt.slogLvl, got, tt.want)
			}
		})
	}
}

func TestNewSlogLogger(t *testing.T) {
	// Not parallel because it uses global logger state
	var buf bytes.Buffer
	SetLogger(zerolog.New(&buf).Level(zerolog.TraceLevel))
	defer Init(DefaultConfig())

	slogger := NewSlogLogger()
	if slogger == nil {
		t.Fatal("NewSlogLogger() = nil, want non-nil")
	}

	slogger.Info("test from slog")

	if !strings.Contains(buf.String(), "test from slog") {
		t.Errorf("NewSlogLogger() should write to global logger: %s", buf.String())
	}
}

func TestSlogHandler_FullIntegration(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	handler := NewSlogHandlerWithLogger(logger)
	slogger := slog.New(handler).With("component", "events")

	slogger.Debug("debug message", "debug_key", "debug_value")
	slogger.Info("info message", "info_key", 123)
	slogger.Warn("warn message", "warn_key", true)
	slogger.Error("error message", "error_key", 3.14)

	output := buf.String()
	expected := []string{
		"debug message", "debug_key", "debug_value",
		"info message", "info_key", "123",
		"warn message", "warn_key", "true",
		"error message", "error_key", "3.14",
		"component", "events",
	}
	for _, e := range expected {
		if !strings.Contains(output, e) {
			t.Errorf("output missing %q: %s", e, output)
		}
	}
}
