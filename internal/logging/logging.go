package logging

import (
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

type Options struct {
	Level  string
	Format string // "text" or "json"
	File   string // empty disables the file output
}

// New builds a logger writing to stdout and, when opts.File is set, to a
// rotating log file. The returned closer releases the file.
func New(opts Options) (*logrus.Logger, io.Closer, error) {
	level, err := logrus.ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	logger := logrus.New()
	logger.SetLevel(level)

	if opts.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	writers := []io.Writer{os.Stdout}
	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, err
			}
		}
		fileLogger := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    100,
			MaxAge:     30,
			MaxBackups: 10,
		}
		writers = append(writers, fileLogger)
		closer = fileLogger
	}
	logger.SetOutput(io.MultiWriter(writers...))

	return logger, closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
