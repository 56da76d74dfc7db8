package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(DefaultConfig())
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewLoggerNilConfig(t *testing.T) {
	log, err := NewLogger(nil)
	require.NoError(t, err)
	require.NotNil(t, log)
}

func TestNewLoggerInvalidConfig(t *testing.T) {
	_, err := NewLogger(&Config{Level: "loud", Format: TextFormat, Output: StderrOutput})
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{"default config", DefaultConfig(), false},
		{"debug config", DebugConfig(), false},
		{"json to stdout", &Config{Level: InfoLevel, Format: JSONFormat, Output: StdoutOutput}, false},
		{"file output with path", &Config{Level: InfoLevel, Format: TextFormat, Output: FileOutput, File: "/tmp/test.log"}, false},
		{"invalid level", &Config{Level: "loud", Format: TextFormat, Output: StderrOutput}, true},
		{"invalid format", &Config{Level: InfoLevel, Format: "xml", Output: StderrOutput}, true},
		{"invalid output", &Config{Level: InfoLevel, Format: TextFormat, Output: "syslog"}, true},
		{"file output without path", &Config{Level: InfoLevel, Format: TextFormat, Output: FileOutput}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileOutput(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "logs", "salesreport.log")

	log, err := NewLogger(&Config{
		Level:  InfoLevel,
		Format: JSONFormat,
		Output: FileOutput,
		File:   logFile,
	})
	require.NoError(t, err)

	log.Info("written to file")

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestDerivedLoggers(t *testing.T) {
	log, err := NewLogger(DefaultConfig())
	require.NoError(t, err)

	assert.NotNil(t, log.WithField("key", "value"))
	assert.NotNil(t, log.WithFields(Fields{"a": 1, "b": 2}))
	assert.NotNil(t, log.WithError(os.ErrNotExist))
	assert.NotNil(t, log.WithComponent("parser"))
}

func TestGlobalLogger(t *testing.T) {
	original := GetGlobalLogger()
	require.NotNil(t, original)
	defer SetGlobalLogger(original)

	replacement, err := NewLogger(DebugConfig())
	require.NoError(t, err)

	SetGlobalLogger(replacement)
	assert.Equal(t, replacement, GetGlobalLogger())
}
