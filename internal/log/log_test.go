package log

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetLevel(LevelInfo) })

	SetLevel(LevelInfo)
	Debug("hidden debug line")
	Info("visible info line", "event_count", 2)
	Error("visible error line", errors.New("boom"), "url", "https://example.com/...(redacted)")

	out := buf.String()
	assert.NotContains(t, out, "hidden debug line")
	assert.Contains(t, out, "visible info line")
	assert.Contains(t, out, "event_count=2")
	assert.Contains(t, out, "err=boom")

	buf.Reset()
	SetLevel(LevelDebug)
	Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelError, ParseLevel(" ERROR "))
	assert.Equal(t, LevelInfo, ParseLevel(""))
	assert.Equal(t, LevelInfo, ParseLevel("verbose"))
}

func TestToFieldsIgnoresOddAndNonStringKeys(t *testing.T) {
	f := toFields("a", 1, 2, "b", "dangling")
	assert.Equal(t, "1", f["a"])
	assert.Len(t, f, 1)
}
