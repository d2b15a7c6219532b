package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observed() (Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New("LOUD")
	require.Error(t, err)

	l, err := New("DEBUG")
	require.NoError(t, err)
	assert.NotNil(t, l)
}

func TestAction_AddsActionField(t *testing.T) {
	l, logs := observed()

	l.Action("order_created").Info("done", "order_id", "42")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "order_created", fields["action"])
	assert.Equal(t, "42", fields["order_id"])
}

func TestError_AttachesError(t *testing.T) {
	l, logs := observed()

	l.Error("failed", errors.New("boom"), "attempt", 2)

	entry := logs.All()[0]
	assert.Equal(t, zapcore.ErrorLevel, entry.Level)
	assert.Equal(t, "boom", entry.ContextMap()["error"])
}

func TestWithGroup_NestsFields(t *testing.T) {
	l, logs := observed()

	l.WithGroup("details").With("port", 3000).Info("running")

	details, ok := logs.All()[0].ContextMap()["details"].(map[string]any)
	require.True(t, ok)
	assert.EqualValues(t, 3000, details["port"])
}
