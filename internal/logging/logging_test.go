package logging_test

import (
	"testing"

	"procure/internal/logging"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewLevels(t *testing.T) {
	logger, level, err := logging.New("debug")
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

	level.SetLevel(zapcore.ErrorLevel)
	require.False(t, logger.Core().Enabled(zapcore.WarnLevel))

	_, _, err = logging.New("loud")
	require.Error(t, err)
}

func TestNewCLI(t *testing.T) {
	logger, err := logging.NewCLI(false)
	require.NoError(t, err)
	require.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	require.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	logger, err = logging.NewCLI(true)
	require.NoError(t, err)
	require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}
