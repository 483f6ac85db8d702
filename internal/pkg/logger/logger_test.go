package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		wantLevel zapcore.Level
	}{
		{name: "json debug", cfg: Config{Level: "debug", Format: "json"}, wantLevel: zapcore.DebugLevel},
		{name: "console warn", cfg: Config{Level: "warn", Format: "console"}, wantLevel: zapcore.WarnLevel},
		{name: "invalid level falls back to info", cfg: Config{Level: "loud"}, wantLevel: zapcore.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := New(tt.cfg)
			require.NotNil(t, log)
			assert.True(t, log.Core().Enabled(tt.wantLevel))
			assert.False(t, log.Core().Enabled(tt.wantLevel-1))
		})
	}
}

func TestInit(t *testing.T) {
	prev := Log
	t.Cleanup(func() { Log = prev })

	require.NoError(t, Init(Config{Level: "error", Format: "json"}))
	assert.NotSame(t, prev, Log)
	assert.False(t, Log.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, Log.Core().Enabled(zapcore.ErrorLevel))
}
