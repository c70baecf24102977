package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"igfetch/pkg/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.LoggingConfig
		wantErr bool
	}{
		{name: "info level", cfg: &config.LoggingConfig{Level: "info"}},
		{name: "debug level", cfg: &config.LoggingConfig{Level: "debug"}},
		{name: "invalid level", cfg: &config.LoggingConfig{Level: "chatty"}, wantErr: true},
		{name: "file output", cfg: &config.LoggingConfig{Level: "warn", File: filepath.Join(t.TempDir(), "logs", "igfetch.log")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestNewFileOnly(t *testing.T) {
	l, err := NewFileOnly(&config.LoggingConfig{Level: "info"})
	require.NoError(t, err)
	assert.Nil(t, l.GetZerolog(), "no file means a nop logger")

	path := filepath.Join(t.TempDir(), "picker.log")
	l, err = NewFileOnly(&config.LoggingConfig{Level: "info", File: path})
	require.NoError(t, err)
	l.WithField("phase", "pick").Info("picker opened")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "picker opened")
	assert.Contains(t, string(data), `"phase":"pick"`)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		level    string
		expected zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{"", zerolog.InfoLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"disabled", zerolog.Disabled},
	}

	for _, tt := range tests {
		got, err := parseLogLevel(tt.level)
		require.NoError(t, err, tt.level)
		assert.Equal(t, tt.expected, got, tt.level)
	}
}

func TestTestLoggerCapturesFields(t *testing.T) {
	l := NewTestLogger()

	l.WithField("url", "https://instagram.com/p/ABC").WithError(errors.New("boom")).Warn("fetch failed")
	l.InfoWithFields("batch done", map[string]interface{}{"total": 2})

	msgs := l.GetMessages()
	require.Len(t, msgs, 2)
	assert.Equal(t, "WARN", msgs[0].Level)
	assert.Equal(t, "https://instagram.com/p/ABC", msgs[0].Fields["url"])
	assert.Equal(t, "boom", msgs[0].Error)
	assert.Equal(t, 2, msgs[1].Fields["total"])
	assert.True(t, l.HasMessage("batch done"))
	assert.Len(t, l.GetMessagesByLevel("WARN"), 1)
}

func TestNopLogger(t *testing.T) {
	l := NewNopLogger()
	assert.NotPanics(t, func() {
		l.WithField("k", "v").WithError(errors.New("x")).Error("ignored")
	})
}
