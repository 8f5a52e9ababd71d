package log

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUseJSONWithFields(t *testing.T) {
	formatter, level := Logger.Formatter, Logger.GetLevel()
	t.Cleanup(func() {
		Logger.Formatter = formatter
		Logger.SetLevel(level)
		Logger.SetOutput(os.Stderr)
	})
	var buf bytes.Buffer
	Logger.SetOutput(&buf)
	UseJSON()
	SetLevel(InfoLevel)

	Debugf("hidden %d", 1)
	WithFields(Fields{"flow": "f1"}).Info("flow activated")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "f1", entry["flow"])
	assert.Equal(t, "flow activated", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}
