package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	require.NoError(t, Init("development", "debug"))
	t.Cleanup(func() { SetLevel("info") })

	assert.Equal(t, zapcore.DebugLevel, Level())
	assert.True(t, zap.L().Core().Enabled(zapcore.DebugLevel))
}

func TestSetLevel(t *testing.T) {
	t.Cleanup(func() { SetLevel("info") })

	SetLevel("WARN")
	assert.Equal(t, zapcore.WarnLevel, Level())

	SetLevel("not-a-level")
	assert.Equal(t, zapcore.InfoLevel, Level())
}
