package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLogger records calls for assertions.
type captureLogger struct {
	msgs   []string
	fields [][]Field
}

func (c *captureLogger) record(msg string, fields []Field) {
	c.msgs = append(c.msgs, msg)
	c.fields = append(c.fields, fields)
}

func (c *captureLogger) Debug(msg string, fields ...Field) { c.record(msg, fields) }
func (c *captureLogger) Info(msg string, fields ...Field)  { c.record(msg, fields) }
func (c *captureLogger) Warn(msg string, fields ...Field)  { c.record(msg, fields) }
func (c *captureLogger) Error(msg string, fields ...Field) { c.record(msg, fields) }
func (c *captureLogger) With(...Field) Logger              { return c }
func (c *captureLogger) Sync() error                       { return nil }

func TestAdapter_ConvertsPairs(t *testing.T) {
	capture := &captureLogger{}
	adapter := NewAdapter(capture)

	adapter.Info("catalog reloaded", "store", "daiso", "entries", 1200)

	require.Len(t, capture.msgs, 1)
	assert.Equal(t, "catalog reloaded", capture.msgs[0])
	require.Len(t, capture.fields[0], 2)
	assert.Equal(t, "store", capture.fields[0][0].Key)
	assert.Equal(t, "entries", capture.fields[0][1].Key)
}

func TestAdapter_DropsMalformedPairs(t *testing.T) {
	capture := &captureLogger{}
	adapter := NewAdapter(capture)

	// Odd trailing value and a non-string key are both dropped.
	adapter.Warn("partial", "ok", 1, 42, "value", "dangling")

	require.Len(t, capture.fields, 1)
	require.Len(t, capture.fields[0], 1)
	assert.Equal(t, "ok", capture.fields[0][0].Key)
}

func TestAdapter_AllLevels(t *testing.T) {
	capture := &captureLogger{}
	adapter := NewAdapter(capture)

	adapter.Debug("d")
	adapter.Info("i")
	adapter.Warn("w")
	adapter.Error("e")

	assert.Equal(t, []string{"d", "i", "w", "e"}, capture.msgs)
}

func TestNew_LevelParsing(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "warning", "error", "", "bogus"} {
		logger, err := New(Config{Level: level})
		require.NoError(t, err, "level %q", level)
		assert.NotNil(t, logger)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Debug("ignored", String("k", "v"))
	logger.With(Int("n", 1)).Info("still ignored")
	assert.NoError(t, logger.Sync())
}
