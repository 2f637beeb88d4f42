package logger

import (
	"fmt"
	"strings"
)

type Fields map[string]interface{}

type Logger interface {
	Debug(message string, properties map[string]interface{})
	Info(message string, properties map[string]interface{})
	Warn(message string, properties map[string]interface{})
	Error(err error, properties map[string]interface{})
	Fatal(err error, properties map[string]interface{})
	SetLevel(level Level)
}

type Level int8

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
	LevelOff
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	case LevelOff:
		return "OFF"
	default:
		return ""
	}
}

// ParseLevel accepts the names printed by String, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "", "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	case "FATAL":
		return LevelFatal, nil
	case "OFF", "DISABLED":
		return LevelOff, nil
	default:
		return LevelInfo, fmt.Errorf("logger: unknown level %q", s)
	}
}
