package logger

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("stream")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.Component() != "stream" {
		t.Errorf("expected component 'stream', got %q", l.Component())
	}
}

func TestNewInvalidLevel(t *testing.T) {
	l := New(&Config{Level: "nope", Format: "json"}, "x")
	if got := l.GetLogger().GetLevel(); got != zerolog.InfoLevel {
		t.Errorf("expected fallback to info, got %v", got)
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("GOSTREAM_LOG_LEVEL", "debug")
	t.Setenv("GOSTREAM_LOG_FORMAT", "json")
	l := NewFromEnv("env")
	if got := l.GetLogger().GetLevel(); got != zerolog.DebugLevel {
		t.Errorf("expected debug level, got %v", got)
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("").WithComponent("forkjoin")
	if l.Component() != "forkjoin" {
		t.Errorf("expected component 'forkjoin', got %q", l.Component())
	}
	if WithComponent("collector").Component() != "collector" {
		t.Error("package-level WithComponent should tag the component")
	}
}

func TestWithContextWithoutSpan(t *testing.T) {
	l := NewDefault("test")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when ctx carries no span")
	}
}

func TestWithContextWithSpan(t *testing.T) {
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)
	l := NewDefault("test")
	if got := l.WithContext(ctx); got == l {
		t.Error("expected an enriched logger when ctx carries a span")
	}
}

func TestWithFieldsAndError(t *testing.T) {
	l := NewDefault("test")
	if l.WithFields(Fields("op", "collect")) == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.WithError(errors.New("boom")) == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "reduce", "leaves", 8, 42, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["op"] != "reduce" || m["leaves"] != 8 {
		t.Errorf("unexpected fields: %v", m)
	}
	if ErrorFields("sum", errors.New("x"))[FieldError] != "x" {
		t.Error("ErrorFields should carry the error text")
	}
}

func TestGlobalLogger(t *testing.T) {
	globalMu.Lock()
	globalLogger = nil
	globalMu.Unlock()
	if GetGlobalLogger() == nil {
		t.Fatal("expected default global logger to be created")
	}

	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}

	Init(&Config{Level: "debug", Format: "console", Output: "stdout", NoColor: true})
	Debug("debug msg")
	Info("info msg")
	Warn("warn msg")
	Error("error msg")
}

func TestDebugEnabled(t *testing.T) {
	if Nop().DebugEnabled() {
		t.Error("nop logger should not report debug enabled")
	}
	if !New(&Config{Level: "debug", Format: "json"}, "").DebugEnabled() {
		t.Error("debug logger should report debug enabled")
	}
	if New(&Config{Level: "warn", Format: "json"}, "").DebugEnabled() {
		t.Error("warn logger should not report debug enabled")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stderr" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"valid console", Config{Level: "debug", Format: "console"}, false},
		{"disabled", Config{Level: "disabled", Format: "json"}, false},
		{"invalid level", Config{Level: "bad", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
