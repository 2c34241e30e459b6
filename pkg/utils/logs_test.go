package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T) *observer.ObservedLogs {
	core, logs := observer.New(zapcore.InfoLevel)
	previous := logger
	SetLogger(zap.New(core))
	t.Cleanup(func() {
		logger = previous
		InitLog(false, false)
	})
	return logs
}

func TestLogsAreGated(t *testing.T) {
	logs := observe(t)

	InitLog(false, false)
	ServerLog("listening on %d", 8080)
	ComputeLog("sampling", "sampled %d steps", 10)
	assert.Zero(t, logs.Len())

	InitLog(true, true)
	ServerLog("listening on %d", 8080)
	ComputeLog("sampling", "sampled %d steps", 10)
	entries := logs.TakeAll()
	require.Len(t, entries, 2)
	assert.Equal(t, "server", entries[0].LoggerName)
	assert.Equal(t, "listening on 8080", entries[0].Message)
	assert.Equal(t, "compute", entries[1].LoggerName)
	assert.Equal(t, "sampling", entries[1].ContextMap()["estimator"])
}

func TestWarnLogIsAlwaysOn(t *testing.T) {
	logs := observe(t)
	InitLog(false, false)

	WarnLog("loader", "could not read %s", "corpus.txt")
	entries := logs.TakeAll()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "loader", entries[0].LoggerName)
	assert.Equal(t, "could not read corpus.txt", entries[0].Message)
}
