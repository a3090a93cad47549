package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		level       string
		development bool
		debug       bool
		info        bool
	}{
		{name: "default level", level: "", info: true},
		{name: "debug", level: "debug", debug: true, info: true},
		{name: "warn", level: "warn"},
		{name: "development", level: "info", development: true, info: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, err := New(tt.level, tt.development)
			require.NoError(t, err)
			require.Equal(t, tt.debug, logger.Core().Enabled(zap.DebugLevel))
			require.Equal(t, tt.info, logger.Core().Enabled(zap.InfoLevel))
			require.True(t, logger.Core().Enabled(zap.ErrorLevel))
		})
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	t.Parallel()

	_, err := New("chatty", false)
	require.Error(t, err)
}
