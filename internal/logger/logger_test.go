package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" WARN ":  slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for input, expected := range cases {
		if got := ParseLevel(input); got != expected {
			t.Fatalf("ParseLevel(%q) = %v, expected %v", input, got, expected)
		}
	}
}

func TestLogger_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "api", Config{Level: "debug"})

	log.Error("order_creation_failed", "Failed to create order", "req-1", errors.New("boom"), map[string]interface{}{
		"reservation_id": "r-1",
	})

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["service"] != "api" || entry["action"] != "order_creation_failed" || entry["request_id"] != "req-1" {
		t.Fatalf("missing standard fields: %v", entry)
	}
	if entry["reservation_id"] != "r-1" {
		t.Fatalf("missing custom field: %v", entry)
	}
	errGroup, ok := entry["error"].(map[string]interface{})
	if !ok || errGroup["msg"] != "boom" {
		t.Fatalf("missing error group: %v", entry)
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "api", Config{Level: "warn"})

	log.Info("ignored", "should not be written", "", nil)
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	log.Warn("kept", "should be written", "", nil)
	if buf.Len() == 0 {
		t.Fatal("expected warn entry")
	}
}

func TestRequestIDContext(t *testing.T) {
	ctx := WithRequestID(context.Background(), "abc")
	if got := RequestIDFromContext(ctx); got != "abc" {
		t.Fatalf("expected abc, got %q", got)
	}
	if got := RequestIDFromContext(context.Background()); got != "" {
		t.Fatalf("expected empty id, got %q", got)
	}
	if GenerateRequestID() == GenerateRequestID() {
		t.Fatal("expected unique request ids")
	}
}
