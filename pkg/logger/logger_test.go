package logger

import (
	"bytes"
	"fmt"
	"path/filepath"
	"testing"

	rawslog "log/slog"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

type testMethod struct {
	fn    func(msg string, args ...any)
	level string
}

const (
	logText         = "Test Log Value"
	customFieldName = "SomeKey"
	customFieldVal  = "SomeVal"
)

type testLogJSON struct {
	Level     string `json:"level"`
	Msg       string `json:"msg"`
	Message   string `json:"message"`
	CustomVal any    `json:"SomeKey"`
}

func TestSlogLogger(t *testing.T) {
	buffer := bytes.NewBuffer([]byte{})

	handler := rawslog.NewJSONHandler(buffer, &rawslog.HandlerOptions{Level: rawslog.LevelDebug})
	log := New(handler)

	testMethods := []testMethod{
		{fn: log.Error, level: "ERROR"},
		{fn: log.Warn, level: "WARN"},
		{fn: log.Info, level: "INFO"},
		{fn: log.Debug, level: "DEBUG"},
	}

	for _, v := range testMethods {
		t.Run(fmt.Sprintf("testing %s", v.level), func(t *testing.T) {
			buffer.Reset()
			v.fn(logText, customFieldName, customFieldVal)

			var got testLogJSON
			require.NoError(t, json.Unmarshal(buffer.Bytes(), &got))
			require.Equal(t, v.level, got.Level)
			require.Equal(t, logText, got.Msg)
			require.Equal(t, customFieldVal, got.CustomVal)
		})
	}
}

func TestZeroLogger(t *testing.T) {
	buffer := bytes.NewBuffer([]byte{})
	log, err := Build().FromWriter(buffer).Level("debug").Make()
	require.NoError(t, err)

	log.Debug(logText, customFieldName, customFieldVal)

	var got testLogJSON
	require.NoError(t, json.Unmarshal(buffer.Bytes(), &got))
	require.Equal(t, "debug", got.Level)
	require.Equal(t, logText, got.Message)
	require.Equal(t, customFieldVal, got.CustomVal)
}

func TestZeroLoggerLevelFilters(t *testing.T) {
	buffer := bytes.NewBuffer([]byte{})
	log, err := Build().FromWriter(buffer).Level("warn").Make()
	require.NoError(t, err)

	log.Info("hidden")
	require.Zero(t, buffer.Len())

	log.Warn("shown")
	require.Contains(t, buffer.String(), "shown")
}

func TestZeroLoggerFromPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metis.log")
	log, err := Build().FromPath(path).Make()
	require.NoError(t, err)
	require.NotNil(t, log.LogFile)

	log.Info("to file")
	require.NoError(t, log.Close())
}

func TestNop(t *testing.T) {
	require.NotPanics(t, func() {
		Nop().Error("ignored", "k", "v")
	})
}
