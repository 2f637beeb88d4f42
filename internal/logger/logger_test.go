package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var out []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var m map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(line), &m))
		out = append(out, m)
	}
	return out
}

func TestZeroLoggerWritesFieldsAndLevels(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, LevelDebug, Fields{"service": "catalog"})

	l.Debug("building tree", Fields{"rows": 3})
	l.Info("tree cached", nil)
	l.Warn("cache unavailable", Fields{"tier": "node"})
	l.Error(errors.New("store down"), Fields{"op": "get_all"})

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 4)
	assert.Equal(t, "debug", lines[0]["level"])
	assert.Equal(t, float64(3), lines[0]["rows"])
	assert.Equal(t, "info", lines[1]["level"])
	assert.Equal(t, "warn", lines[2]["level"])
	assert.Equal(t, "node", lines[2]["tier"])
	assert.Equal(t, "error", lines[3]["level"])
	assert.Equal(t, "store down", lines[3]["error"])
	for _, line := range lines {
		assert.Equal(t, "catalog", line["service"])
		assert.Contains(t, line, "time")
	}
}

func TestZeroLoggerSetLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewZeroLogger(&buf, LevelInfo, nil)

	l.Debug("hidden", nil)
	l.SetLevel(LevelWarn)
	l.Info("hidden", nil)
	l.Warn("shown", nil)
	l.SetLevel(LevelOff)
	l.Error(errors.New("hidden"), nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "shown", lines[0]["message"])
}

func TestZeroLoggerWithDoesNotLeakFields(t *testing.T) {
	var buf bytes.Buffer
	parent := NewZeroLogger(&buf, LevelInfo, Fields{"service": "catalog"})
	child := parent.With(Fields{"component": "coordinator"})

	child.Info("child", nil)
	parent.Info("parent", nil)

	lines := decodeLines(t, &buf)
	require.Len(t, lines, 2)
	assert.Equal(t, "coordinator", lines[0]["component"])
	assert.Equal(t, "catalog", lines[0]["service"])
	assert.NotContains(t, lines[1], "component")
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", LevelDebug, false},
		{"", LevelInfo, false},
		{" Warning ", LevelWarn, false},
		{"ERROR", LevelError, false},
		{"off", LevelOff, false},
		{"verbose", LevelInfo, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
	assert.Equal(t, "WARN", LevelWarn.String())
}

func TestNullLoggerIsSilent(t *testing.T) {
	var l Logger = NewNullLogger()
	assert.NotPanics(t, func() {
		l.Debug("x", nil)
		l.Info("x", nil)
		l.Warn("x", nil)
		l.Error(errors.New("x"), nil)
		l.Fatal(errors.New("x"), nil)
		l.SetLevel(LevelDebug)
	})
}
