package logger_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

func TestSetup(t *testing.T) {
	tests := []struct {
		name     string
		logLevel string
	}{
		{name: "debug level", logLevel: "debug"},
		{name: "info level", logLevel: "info"},
		{name: "warn level", logLevel: "warn"},
		{name: "error level", logLevel: "error"},
		{name: "mixed case accepted", logLevel: "INFO"},
		{name: "invalid level falls back to info", logLevel: "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log, err := logger.Setup(config.ServerConfig{Port: 5000, LogLevel: tt.logLevel})
			require.NoError(t, err)
			require.NotNil(t, log)

			// Setup installs the logger as the process default.
			assert.Equal(t, log, slog.Default())
		})
	}
}

func TestWithLogger(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := logger.WithLogger(context.Background(), custom)

	assert.Equal(t, custom, logger.FromContext(ctx))

	assert.Panics(t, func() {
		logger.WithLogger(context.Background(), nil)
	})
}

func TestFromContextOrDefault(t *testing.T) {
	t.Parallel()

	custom := slog.New(slog.NewTextHandler(os.Stderr, nil))
	def := slog.New(slog.NewTextHandler(os.Stderr, nil))

	tests := []struct {
		name     string
		ctx      context.Context
		expected *slog.Logger
	}{
		{
			name:     "logger in context wins",
			ctx:      logger.WithLogger(context.Background(), custom),
			expected: custom,
		},
		{
			name:     "empty context falls back to default",
			ctx:      context.Background(),
			expected: def,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, logger.FromContextOrDefault(tt.ctx, def))
		})
	}
}
