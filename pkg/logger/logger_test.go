package logger

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hyunwoo/tradeideas/pkg/config"
)

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"WARN", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"fatal", zerolog.FatalLevel},
		{"", zerolog.InfoLevel},
		{"garbage", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseLogLevel(tt.input), "level %q", tt.input)
	}
}

func TestNew(t *testing.T) {
	log := New(&config.Config{Env: "development", LogLevel: "debug", LogFormat: "json"})
	require.NotNil(t, log)

	// Derived loggers must not mutate the parent.
	child := log.WithField("symbol", "AAPL").WithFields(map[string]interface{}{"index": "sp500"})
	assert.NotSame(t, log, child)
}

func TestNewNop(t *testing.T) {
	log := NewNop()
	require.NotNil(t, log)

	// Must be safe to call at every level without output or panic.
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")
	log.Infof("formatted %d", 1)
	log.WithError(assert.AnError).Error("wrapped")
}
