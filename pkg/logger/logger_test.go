package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelInfo, "orders", func(context.Context) string { return "abc123" })

	log.Info(context.Background(), "order placed", "orderId", "42")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if line["msg"] != "order placed" {
		t.Fatalf("unexpected msg: %v", line["msg"])
	}
	if line["service"] != "orders" {
		t.Fatalf("unexpected service: %v", line["service"])
	}
	if line["orderId"] != "42" {
		t.Fatalf("unexpected orderId: %v", line["orderId"])
	}
	if line["trace_id"] != "abc123" {
		t.Fatalf("unexpected trace_id: %v", line["trace_id"])
	}
}

func TestLoggerLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn, "orders", nil)

	log.Info(context.Background(), "dropped")
	if buf.Len() != 0 {
		t.Fatalf("expected info to be filtered, got %q", buf.String())
	}
	log.Error(context.Background(), "kept")
	if !strings.Contains(buf.String(), "kept") {
		t.Fatalf("expected error line, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("DEBUG") != LevelDebug {
		t.Fatal("expected debug")
	}
	if ParseLevel("nonsense") != LevelInfo {
		t.Fatal("expected fallback to info")
	}
}
