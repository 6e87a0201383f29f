package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	logger := newLogger()

	require.NotNil(t, logger)
	formatter, ok := logger.Formatter.(*logrus.TextFormatter)
	require.True(t, ok)

	assert.Equal(t, time.RFC3339Nano, formatter.TimestampFormat)
	assert.True(t, formatter.FullTimestamp)
	assert.True(t, formatter.DisableColors)
}

func TestGetLogger(t *testing.T) {
	t.Run("falls back to global logger", func(t *testing.T) {
		retrieved := G(context.Background())
		assert.Equal(t, L.Logger, retrieved.Logger)
	})

	t.Run("uses context logger", func(t *testing.T) {
		custom := logrus.NewEntry(logrus.New()).WithField("palette_session", "abc")
		ctx := WithLogger(context.Background(), custom)

		retrieved := G(ctx)
		assert.Equal(t, "abc", retrieved.Data["palette_session"])
	})

	t.Run("chained fields survive", func(t *testing.T) {
		ctx := WithLogger(context.Background(), logrus.NewEntry(logrus.New()).WithField("component", "index"))
		ctx = WithLogger(ctx, G(ctx).WithField("source", "page"))

		retrieved := G(ctx)
		assert.Equal(t, "index", retrieved.Data["component"])
		assert.Equal(t, "page", retrieved.Data["source"])
	})
}

func TestJSONFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	setLoggerFormat(l, "json")

	ctx := WithLogger(context.Background(), logrus.NewEntry(l))
	G(ctx).Info("index built")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "info", entry["logLevel"])
	assert.Equal(t, "index built", entry["message"])

	ts, ok := entry["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339Nano, ts)
	assert.NoError(t, err)
}

func TestSetLogLevel(t *testing.T) {
	original := L.Logger.GetLevel()
	defer L.Logger.SetLevel(original)

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, logrus.DebugLevel, L.Logger.GetLevel())

	err := SetLogLevel("chatty")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestConfigure(t *testing.T) {
	originalOut := L.Logger.Out
	originalLevel := L.Logger.GetLevel()
	defer func() {
		L.Logger.SetOutput(originalOut)
		L.Logger.SetLevel(originalLevel)
		SetLogFormat("fmt")
	}()

	t.Run("writes to file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "logs", "docpal.log")

		closer, err := Configure(Options{Level: "info", Format: "json", File: path})
		require.NoError(t, err)

		L.Info("hello file")
		require.NoError(t, closer.Close())

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"message":"hello file"`)
	})

	t.Run("discard without file", func(t *testing.T) {
		closer, err := Configure(Options{Discard: true})
		require.NoError(t, err)
		assert.NoError(t, closer.Close())
		assert.Equal(t, io.Discard, L.Logger.Out)
	})

	t.Run("invalid level", func(t *testing.T) {
		closer, err := Configure(Options{Level: "nope"})
		assert.Error(t, err)
		assert.NotNil(t, closer)
	})
}
