package logger

// NullLogger discards everything. Components fall back to it when no logger is wired.
type NullLogger struct{}

var _ Logger = (*NullLogger)(nil)

func NewNullLogger() *NullLogger {
	return &NullLogger{}
}

func (*NullLogger) Debug(string, map[string]interface{}) {}
func (*NullLogger) Info(string, map[string]interface{})  {}
func (*NullLogger) Warn(string, map[string]interface{})  {}
func (*NullLogger) Error(error, map[string]interface{})  {}
func (*NullLogger) Fatal(error, map[string]interface{})  {}
func (*NullLogger) SetLevel(Level)                       {}
