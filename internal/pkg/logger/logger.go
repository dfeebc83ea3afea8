package logger

import (
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
)

// Logger is a thin printf-style facade over logrus. Services depend on the
// narrow Info/Warn/Error interface they declare themselves, not on this type.
type Logger struct {
	entry *logrus.Entry
}

// New builds a logger writing to stdout. Production-like environments get
// JSON output, everything else the text formatter.
func New(level string, jsonOutput bool) (*Logger, error) {
	return NewWithWriter(os.Stdout, level, jsonOutput)
}

func NewWithWriter(w io.Writer, level string, jsonOutput bool) (*Logger, error) {
	l := logrus.New()
	l.SetOutput(w)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		return nil, err
	}
	l.SetLevel(lvl)

	if jsonOutput {
		l.SetFormatter(&logrus.JSONFormatter{})
	} else {
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	return &Logger{entry: logrus.NewEntry(l)}, nil
}

// Nop discards everything. Used by tests and by commands that have no use for
// logs.
func Nop() *Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return &Logger{entry: logrus.NewEntry(l)}
}

func (l *Logger) WithFields(fields map[string]any) *Logger {
	return &Logger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

func (l *Logger) WithField(key string, value any) *Logger {
	return &Logger{entry: l.entry.WithField(key, value)}
}

func (l *Logger) Debug(format string, args ...any) { l.entry.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...any)  { l.entry.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...any)  { l.entry.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...any) { l.entry.Errorf(format, args...) }
func (l *Logger) Fatal(format string, args ...any) { l.entry.Fatalf(format, args...) }

// Writer exposes the underlying output, e.g. for gin's default writer.
func (l *Logger) Writer() *io.PipeWriter {
	return l.entry.Logger.Writer()
}
