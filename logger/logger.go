package logger

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

type Logger interface {
	Info(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
}

// LogrusLogger adapts a logrus logger to Logger. Trailing args are read as
// key/value pairs and attached as fields.
type LogrusLogger struct {
	internalLogger *logrus.Logger
}

func New() *LogrusLogger {
	return NewWithOutput(os.Stderr)
}

func NewWithOutput(w io.Writer) *LogrusLogger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetFormatter(&logrus.TextFormatter{DisableColors: true, FullTimestamp: true})
	l.SetLevel(logrus.InfoLevel)
	return &LogrusLogger{internalLogger: l}
}

// Discard returns a logger that drops everything.
func Discard() *LogrusLogger {
	return NewWithOutput(io.Discard)
}

func (l *LogrusLogger) SetDebug(debug bool) {
	if debug {
		l.internalLogger.SetLevel(logrus.DebugLevel)
		return
	}
	l.internalLogger.SetLevel(logrus.InfoLevel)
}

func (l *LogrusLogger) SetOutput(w io.Writer) {
	l.internalLogger.SetOutput(w)
}

func (l *LogrusLogger) Info(msg string, args ...interface{}) {
	l.entry(args).Info(msg)
}

func (l *LogrusLogger) Debug(msg string, args ...interface{}) {
	l.entry(args).Debug(msg)
}

func (l *LogrusLogger) Warn(msg string, args ...interface{}) {
	l.entry(args).Warn(msg)
}

func (l *LogrusLogger) Error(msg string, args ...interface{}) {
	l.entry(args).Error(msg)
}

func (l *LogrusLogger) entry(args []interface{}) *logrus.Entry {
	return l.internalLogger.WithFields(fields(args))
}

func fields(args []interface{}) logrus.Fields {
	f := logrus.Fields{}
	for i := 0; i < len(args); i += 2 {
		key := fmt.Sprint(args[i])
		if i+1 >= len(args) {
			f["!BADKEY"] = args[i]
			break
		}
		f[key] = args[i+1]
	}
	return f
}

var std Logger = New()

// Default is the process-wide logger used when a component has none set.
func Default() Logger {
	return std
}

func SetDefault(l Logger) {
	std = l
}
