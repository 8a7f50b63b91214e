package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONLoggerFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)
	logger.SetLevel(DebugLevel)

	logger.Info("grid built", Fields{"bins": 200})

	line := buf.String()
	require.NotEmpty(t, line)
	assert.Contains(t, line, `"bins":200`)
	assert.Contains(t, line, `"message":"grid built"`)
	assert.Contains(t, line, `"level":"info"`)
}

func TestWithFieldsDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)

	scoped := logger.WithFields(Fields{"component": "spectral"})
	scoped.Info("windowed")
	assert.Contains(t, buf.String(), `"component":"spectral"`)

	buf.Reset()
	logger.Info("plain")
	assert.NotContains(t, buf.String(), "component")
}

func TestSetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)
	logger.SetLevel(WarnLevel)

	logger.Info("dropped")
	assert.Empty(t, buf.String())

	logger.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestWithContextPicksUpFields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSONLogger(&buf)

	ctx := ContextWithFields(context.Background(), Fields{"session": "rat01_day2"})
	logger.WithContext(ctx).Info("loaded")
	assert.Contains(t, buf.String(), `"session":"rat01_day2"`)

	buf.Reset()
	logger.WithContext(context.Background()).Info("no fields")
	assert.NotContains(t, buf.String(), "session")
}

func TestNoOpLoggerIsSafe(t *testing.T) {
	var l Logger = &NoOpLogger{}
	l.Debug("x")
	l.Error(nil, "y", Fields{"k": "v"})
	assert.Same(t, l, l.WithFields(Fields{"k": "v"}))
}

func TestLevelString(t *testing.T) {
	assert.Equal(t, "DEBUG", DebugLevel.String())
	assert.Equal(t, "FATAL", FatalLevel.String())
	assert.Equal(t, "UNKNOWN", Level(42).String())
}
