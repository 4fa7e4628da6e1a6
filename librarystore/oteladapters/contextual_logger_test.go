package oteladapters_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/log/noop"

	"github.com/AntonStoeckl/relational-library-store-go/librarystore/oteladapters"
)

func Test_SlogBridgeLogger_WithHandler_WritesAllLevelsAndAttributes(t *testing.T) {
	// setup
	var buf bytes.Buffer
	logger := oteladapters.NewSlogBridgeLoggerWithHandler(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	ctx := context.Background()

	// act
	logger.DebugContext(ctx, "executed sql for: read books", "duration_ms", 1.5)
	logger.InfoContext(ctx, "library store operation: write plan committed", "plan", "create loan")
	logger.WarnContext(ctx, "failed to close database rows", "error", "closed")
	logger.ErrorContext(ctx, "write plan failed", "aggregate_count", 3, "aborted", false)

	// assert
	output := buf.String()
	assert.Contains(t, output, `"level":"DEBUG"`)
	assert.Contains(t, output, `"duration_ms":1.5`)
	assert.Contains(t, output, `"plan":"create loan"`)
	assert.Contains(t, output, `"level":"WARN"`)
	assert.Contains(t, output, `"aggregate_count":3`)
	assert.Contains(t, output, `"aborted":false`)
}

func Test_SlogBridgeLogger_WithProvider_DoesNotPanic(t *testing.T) {
	// setup
	logger := oteladapters.NewSlogBridgeLoggerWithProvider("librarystore", noop.NewLoggerProvider())

	// act / assert
	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "library store operation: read loans", "aggregate_count", 2)
	})
}

func Test_OTelLogger_Emit_AcceptsOddAndTypedArguments(t *testing.T) {
	// setup
	logger := oteladapters.NewOTelLogger(noop.NewLoggerProvider().Logger("librarystore"))
	ctx := context.Background()

	// act / assert
	assert.NotPanics(t, func() {
		logger.DebugContext(ctx, "executed sql for: read fines", "duration_ms", 0.25, "query")
		logger.InfoContext(ctx, "library store operation: create author", "id", int64(7))
		logger.WarnContext(ctx, "failed to roll back transaction", 42, "not a key")
		logger.ErrorContext(ctx, "write plan failed", "committed", false)
	})
}
