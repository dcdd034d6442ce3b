// Package logging builds the run logger. Every run appends to a single log
// file so successive runs accumulate a history; entries carry the run id and
// job name as fields.
package logging

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Options configures New.
type Options struct {
	// File is opened in append mode and created if absent.
	File string

	// Level is a logrus level name; "" means info.
	Level string

	// Stderr also writes entries to standard error.
	Stderr bool

	// Job and RunID are attached to every entry. An empty RunID is
	// replaced by a random UUID.
	Job   string
	RunID string
}

// Logger is a run-scoped entry plus the file it owns.
type Logger struct {
	*logrus.Entry
	closer io.Closer
}

// Close releases the log file.
func (l *Logger) Close() error {
	if l == nil || l.closer == nil {
		return nil
	}
	return l.closer.Close()
}

// RunID returns the run identifier attached to every entry.
func (l *Logger) RunID() string {
	if v, ok := l.Data["run_id"].(string); ok {
		return v
	}
	return ""
}

// openFile is a test seam.
var openFile = func(name string) (io.WriteCloser, error) {
	return os.OpenFile(name, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
}

// New opens the log file and returns a logger writing text entries to it.
func New(opt Options) (*Logger, error) {
	level := logrus.InfoLevel
	if opt.Level != "" {
		lv, err := logrus.ParseLevel(opt.Level)
		if err != nil {
			return nil, err
		}
		level = lv
	}

	var (
		w      io.Writer = io.Discard
		closer io.Closer
	)
	if opt.File != "" {
		f, err := openFile(opt.File)
		if err != nil {
			return nil, fmt.Errorf("open log file %s: %w", opt.File, err)
		}
		w, closer = f, f
	}
	if opt.Stderr {
		if opt.File == "" {
			w = os.Stderr
		} else {
			w = io.MultiWriter(w, os.Stderr)
		}
	}

	base := logrus.New()
	base.SetOutput(w)
	base.SetLevel(level)
	base.SetFormatter(&logrus.TextFormatter{
		DisableColors:   true,
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	runID := opt.RunID
	if runID == "" {
		runID = uuid.NewString()
	}
	fields := logrus.Fields{"run_id": runID}
	if opt.Job != "" {
		fields["job"] = opt.Job
	}
	return &Logger{Entry: base.WithFields(fields), closer: closer}, nil
}

// Discard returns a logger that drops everything, for tests and library use.
func Discard() *Logger {
	base := logrus.New()
	base.SetOutput(io.Discard)
	return &Logger{Entry: logrus.NewEntry(base)}
}
