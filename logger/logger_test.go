package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestInitialize(t *testing.T) {

	orig := Logger
	defer func() { Logger = orig }()

	require.NoError(t, Initialize(true, "warn"))
	assert.NotSame(t, orig, Logger)
	assert.False(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, Initialize(false, "debug"))
	assert.True(t, Logger.Desugar().Core().Enabled(zapcore.DebugLevel))

	err := Initialize(false, "loud")
	assert.Error(t, err)
}
