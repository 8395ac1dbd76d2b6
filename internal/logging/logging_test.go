package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected Level
	}{
		{"debug", DebugLevel},
		{"DEBUG", DebugLevel},
		{" info ", InfoLevel},
		{"warn", WarnLevel},
		{"Warning", WarnLevel},
		{"error", ErrorLevel},
		{"", InfoLevel},
		{"verbose", InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestInit_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: InfoLevel, Output: &buf})
	t.Cleanup(func() { Init(Config{Level: InfoLevel, Pretty: true}) })

	Debug().Msg("hidden")
	Info().Str("path", "build/docs").Msg("written")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "written", entry["message"])
	assert.Equal(t, "build/docs", entry["path"])
	assert.NotContains(t, buf.String(), "hidden")
}

func TestInit_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: DebugLevel, Output: &buf, Pretty: true})
	t.Cleanup(func() { Init(Config{Level: InfoLevel, Pretty: true}) })

	Debug().Msg("visible")

	assert.Contains(t, buf.String(), "visible")
	assert.NotContains(t, buf.String(), `"message"`)
}
