package logger_test

import (
	"testing"

	"orderflow/internal/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew(t *testing.T) {
	t.Run("should default to info level", func(t *testing.T) {
		l, err := logger.New("", false)

		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
		assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("should honour an explicit level", func(t *testing.T) {
		l, err := logger.New("debug", true)

		require.NoError(t, err)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("should reject an unknown level", func(t *testing.T) {
		l, err := logger.New("chatty", false)

		require.Error(t, err)
		assert.Nil(t, l)
		assert.Contains(t, err.Error(), "invalid log level")
	})
}

func TestComponent(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	logger.Component(zap.New(core), "board_resync_job").Info("started")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "board_resync_job", logs.All()[0].ContextMap()["component"])
}
