package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeWritesDailyFile(t *testing.T) {
	dir := t.TempDir()
	l := Initialize("chat_service", dir)
	l.Info("hello")
	l.Sync()

	data, err := os.ReadFile(filepath.Join(dir, "log_"+time.Now().Format("2006-01-02")+".log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
	assert.Contains(t, string(data), `"service":"chat_service"`)
}

func TestDebugToggle(t *testing.T) {
	l := Initialize("chat_service", t.TempDir())
	assert.False(t, l.IsDebug())
	l.SetDebugMode(true)
	assert.True(t, l.IsDebug())
	l.SetDebugMode(false)
	assert.False(t, l.IsDebug())
}

func TestSetNewNop(t *testing.T) {
	prev := Log
	defer func() { Log = prev }()

	SetNewNop()
	require.NotNil(t, Log)
	assert.NotPanics(t, func() {
		Log.Error("ignored")
		Log.Debug("ignored")
	})
}
