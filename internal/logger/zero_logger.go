package logger

import (
	"io"
	"sync"

	"github.com/rs/zerolog"
)

// ZeroLogger writes JSON lines through its own zerolog instance.
type ZeroLogger struct {
	mu            sync.RWMutex
	writer        io.Writer
	level         Level
	defaultFields Fields
	zl            zerolog.Logger
}

var _ Logger = (*ZeroLogger)(nil)

// NewZeroLogger return a configured instance of NewZeroLogger
func NewZeroLogger(writer io.Writer, level Level, defaultFields Fields) *ZeroLogger {
	if defaultFields == nil {
		defaultFields = Fields{}
	}
	l := &ZeroLogger{writer: writer, level: level, defaultFields: defaultFields}
	l.configureLogger()
	return l
}

// With returns a child logger carrying extra default fields.
func (l *ZeroLogger) With(fields Fields) *ZeroLogger {
	l.mu.RLock()
	merged := make(Fields, len(l.defaultFields)+len(fields))
	for k, v := range l.defaultFields {
		merged[k] = v
	}
	writer, level := l.writer, l.level
	l.mu.RUnlock()

	for k, v := range fields {
		merged[k] = v
	}
	return NewZeroLogger(writer, level, merged)
}

func toZerologLevel(level Level) zerolog.Level {
	switch level {
	case LevelDebug:
		return zerolog.DebugLevel
	case LevelInfo:
		return zerolog.InfoLevel
	case LevelWarn:
		return zerolog.WarnLevel
	case LevelError:
		return zerolog.ErrorLevel
	case LevelFatal:
		return zerolog.FatalLevel
	case LevelOff:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// configureLogger must be called with mu held for writing, or before l is shared.
func (l *ZeroLogger) configureLogger() {
	props := make(map[string]interface{}, len(l.defaultFields))
	for k, v := range l.defaultFields {
		props[k] = v
	}
	l.zl = zerolog.New(l.writer).With().Fields(props).Timestamp().Logger().Level(toZerologLevel(l.level))
}

func (l *ZeroLogger) logger() *zerolog.Logger {
	l.mu.RLock()
	defer l.mu.RUnlock()
	zl := l.zl
	return &zl
}

// Debug this is for debugging and we use it to store some information in the log
func (l *ZeroLogger) Debug(message string, properties map[string]interface{}) {
	l.logger().Debug().Fields(properties).Msg(message)
}

// Info only logs information
func (l *ZeroLogger) Info(message string, properties map[string]interface{}) {
	l.logger().Info().Fields(properties).Msg(message)
}

// Warn reports degraded but recoverable conditions, such as an unreachable cache.
func (l *ZeroLogger) Warn(message string, properties map[string]interface{}) {
	l.logger().Warn().Fields(properties).Msg(message)
}

// Error reports all error at error level
func (l *ZeroLogger) Error(err error, properties map[string]interface{}) {
	l.logger().Error().Fields(properties).Err(err).Msg(err.Error())
}

// Fatal write the log to output and stop the process
func (l *ZeroLogger) Fatal(err error, properties map[string]interface{}) {
	l.logger().Fatal().Fields(properties).Err(err).Msg(err.Error())
}

func (l *ZeroLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.configureLogger()
}
