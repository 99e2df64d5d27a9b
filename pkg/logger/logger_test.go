package logger

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestErrorCarriesContextFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "marketplace-api", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithRequestID(context.Background(), "req-123")
	ctx = log.WithOrderID(ctx, "ord-456")

	log.Error(ctx, "checkout failed", errors.New("boom"))

	entry := buf.String()
	for _, want := range []string{`"request_id":"req-123"`, `"order_id":"ord-456"`, `"service":"marketplace-api"`, "checkout failed"} {
		if !strings.Contains(entry, want) {
			t.Fatalf("expected %s in entry: %s", want, entry)
		}
	}
}

func TestWithFieldsAccumulate(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "marketplace-api", Level: ParseLevel("debug"), Output: buf})

	ctx := log.WithFields(context.Background(), map[string]any{
		"courier": "JNE_REG",
		"groups":  2,
	})
	log.Info(ctx, "shipping quoted")

	entry := buf.String()
	if !strings.Contains(entry, `"courier":"JNE_REG"`) || !strings.Contains(entry, `"groups":2`) {
		t.Fatalf("expected accumulated fields in entry: %s", entry)
	}
}

func TestLevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	log := New(Options{ServiceName: "marketplace-api", Level: ParseLevel("warn"), Output: buf})

	log.Info(context.Background(), "too quiet")
	if buf.Len() != 0 {
		t.Fatalf("info entry emitted below warn level: %s", buf.String())
	}

	log.Warn(context.Background(), "loud enough")
	if !strings.Contains(buf.String(), "loud enough") {
		t.Fatalf("warn entry missing: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	if lvl := ParseLevel("debug"); lvl != zerolog.DebugLevel {
		t.Fatalf("expected debug, got %v", lvl)
	}
	if lvl := ParseLevel(" WARN "); lvl != zerolog.WarnLevel {
		t.Fatalf("expected warn for padded input, got %v", lvl)
	}
	if lvl := ParseLevel(""); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info default, got %v", lvl)
	}
	if lvl := ParseLevel("shouty"); lvl != zerolog.InfoLevel {
		t.Fatalf("expected info for unknown level, got %v", lvl)
	}
}
