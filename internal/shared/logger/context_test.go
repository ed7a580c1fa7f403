package logger

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	fallback := NewDiscardLogger()

	assert.Same(t, fallback, FromContext(context.Background(), fallback))

	var buf bytes.Buffer
	scoped := NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, nil))).With("request_id", "req-1")
	ctx := ContextWith(context.Background(), scoped)

	FromContext(ctx, fallback).Infow("notification received", "transaction_id", 9)

	assert.Contains(t, buf.String(), "request_id=req-1")
	assert.Contains(t, buf.String(), "transaction_id=9")
}

func TestNamed(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerWithSlog(slog.New(slog.NewTextHandler(&buf, nil))).Named("piprapay")

	log.Warnw("provider answered with error status", "status", 500)

	assert.Contains(t, buf.String(), "logger=piprapay")
	assert.Contains(t, buf.String(), "level=WARN")
}

func TestFatalwPanics(t *testing.T) {
	assert.PanicsWithValue(t, "fatal: migration failed", func() {
		NewDiscardLogger().Fatalw("migration failed")
	})
}
