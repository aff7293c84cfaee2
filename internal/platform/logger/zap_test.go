package logger

import (
	"testing"

	"realty_bureau_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("DEBUG"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel("warning"))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel(" error "))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("nonsense"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
}

func TestNew_RespectsLevel(t *testing.T) {
	for _, mode := range []string{"debug", "release"} {
		log, err := New(&config.Config{GinMode: mode, LogLevel: "warn", LogFormat: "json"})
		require.NoError(t, err)
		assert.False(t, log.Core().Enabled(zapcore.InfoLevel), mode)
		assert.True(t, log.Core().Enabled(zapcore.WarnLevel), mode)
	}
}
