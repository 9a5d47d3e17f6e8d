package logger

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func captureLogs(t *testing.T, verboseMode bool) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetOutput(&buf)
	SetVerbose(verboseMode)
	t.Cleanup(func() {
		SetVerbose(false)
		SetTimestamps(false)
		SetOutput(os.Stderr)
	})
	return &buf
}

func TestSetVerbose(t *testing.T) {
	captureLogs(t, false)
	assert.False(t, IsVerbose())

	SetVerbose(true)
	assert.True(t, IsVerbose())

	SetVerbose(false)
	assert.False(t, IsVerbose())
}

func TestDebug_WhenVerbose(t *testing.T) {
	buf := captureLogs(t, true)

	Debug("test message %s", "arg")

	assert.Equal(t, "[DEBUG] test message arg\n", buf.String())
}

func TestDebug_WhenNotVerbose(t *testing.T) {
	buf := captureLogs(t, false)

	Debug("test message")
	Info("info message")
	Section("Build")

	assert.Empty(t, buf.String())
}

func TestSection(t *testing.T) {
	buf := captureLogs(t, true)

	Section("Corpus Reload")

	assert.Equal(t, "\n=== Corpus Reload ===\n", buf.String())
}

func TestWarnAndError_AlwaysWritten(t *testing.T) {
	buf := captureLogs(t, false)

	Warn("duplicate id %s", "M-DO-002")
	Error("reload failed: %v", "boom")

	assert.Equal(t, "[WARN] duplicate id M-DO-002\n[ERROR] reload failed: boom\n", buf.String())
}

func TestTimestamps(t *testing.T) {
	buf := captureLogs(t, false)
	oldNow := now
	now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	defer func() { now = oldNow }()

	SetTimestamps(true)
	Warn("stale index")

	assert.Equal(t, "2026-01-02T03:04:05Z [WARN] stale index\n", buf.String())
}
