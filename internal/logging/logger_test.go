package logging

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNewFallsBackToInfo(t *testing.T) {
	t.Parallel()

	for _, level := range []string{"", "loud"} {
		logger, err := New(level, false)
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel), level)
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel), level)
	}

	debug, err := New("DEBUG", true)
	require.NoError(t, err)
	require.True(t, debug.Core().Enabled(zapcore.DebugLevel))
}

func TestValidLevel(t *testing.T) {
	t.Parallel()

	require.True(t, ValidLevel("warn"))
	require.True(t, ValidLevel(" Error "))
	require.False(t, ValidLevel("verbose"))
}

func TestContextRoundTrip(t *testing.T) {
	t.Parallel()

	require.NotNil(t, FromContext(context.Background()))

	logger := zap.NewExample()
	ctx := WithLogger(context.Background(), logger)
	require.Same(t, logger, FromContext(ctx))
	require.NotNil(t, FromContext(WithLogger(context.Background(), nil)))
}
