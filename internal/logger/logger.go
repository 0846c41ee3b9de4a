// Package logger holds the process-wide structured logger.
package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log is the shared logger. It writes warnings to stderr until Init is called.
var Log = newDefault()

func newDefault() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(os.Stderr)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})
	return l
}

// Init configures the level and targets of Log. Output always goes to stderr
// so that stdout stays clean for json/csv results; filePath adds a second target.
// The returned closer releases the log file, if any.
func Init(levelStr string, filePath string) (io.Closer, error) {
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.WarnLevel
	}
	Log.SetLevel(level)

	writers := []io.Writer{os.Stderr}
	var closer io.Closer = nopCloser{}
	if filePath != "" {
		file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return closer, err
		}
		writers = append(writers, file)
		closer = file
	}
	Log.SetOutput(io.MultiWriter(writers...))

	return closer, nil
}

// WithSource returns an entry tagged with the collaborator that produced it.
func WithSource(source string) *logrus.Entry {
	return Log.WithField("source", source)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
