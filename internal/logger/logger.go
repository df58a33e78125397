package logger

import (
	"fmt"
	"io"
	"os"

	"maskify/internal/config"

	formatter "github.com/antonfisher/nested-logrus-formatter"
	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Fields are structured key/value pairs attached to every entry of a derived Logger.
type Fields = logrus.Fields

// Logger provides leveled logging (info/warning/error) to a log file and stdout.
type Logger struct {
	entry *logrus.Entry
	file  io.Closer
}

// NewLogger creates a Logger writing to stdout and to the configured log file,
// creating the log directory when needed.
func NewLogger(cfg *config.Config) (*Logger, error) {
	if err := os.MkdirAll(cfg.LogDirectory, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	fileWriter := &lumberjack.Logger{
		Filename:   cfg.LogPath(),
		LocalTime:  true,
		MaxSize:    50,
		MaxAge:     7,
		MaxBackups: 3,
	}

	l := New(io.MultiWriter(os.Stdout, fileWriter))
	l.file = fileWriter
	return l, nil
}

// New creates a Logger that writes to w only.
func New(w io.Writer) *Logger {
	base := logrus.New()
	base.SetLevel(logrus.InfoLevel)
	base.SetOutput(w)
	base.SetFormatter(&formatter.Formatter{
		NoColors:        true,
		ShowFullLevel:   true,
		TimestampFormat: "2006-01-02 15:04:05",
		FieldsOrder:     []string{"run", "variant"},
	})

	return &Logger{entry: logrus.NewEntry(base)}
}

// WithFields returns a Logger sharing the output that adds fields to every entry.
func (l *Logger) WithFields(fields Fields) *Logger {
	return &Logger{entry: l.entry.WithFields(fields)}
}

// Info writes a formatted info-level log entry.
func (l *Logger) Info(format string, v ...interface{}) {
	l.entry.Infof(format, v...)
}

// Warning writes a formatted warning-level log entry.
func (l *Logger) Warning(format string, v ...interface{}) {
	l.entry.Warnf(format, v...)
}

// Error writes a formatted error-level log entry.
func (l *Logger) Error(format string, v ...interface{}) {
	l.entry.Errorf(format, v...)
}

// Close flushes and closes the log file, if any. Derived loggers share the
// file with their parent and never close it.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	return l.file.Close()
}
