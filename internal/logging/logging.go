// Package logging builds the zerolog loggers used by the command line tools.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options selects the output format, the minimum level and an optional
// rotating log file. The file always receives JSON lines.
type Options struct {
	Format string
	Level  string

	File       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// New returns a logger writing to out (and to Options.File when set). The
// returned Closer releases the log file.
func New(opts Options, out io.Writer) (zerolog.Logger, io.Closer, error) {
	if out == nil {
		out = os.Stderr
	}
	level := zerolog.InfoLevel
	if s := strings.TrimSpace(opts.Level); s != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(s))
		if err != nil {
			return zerolog.Nop(), nil, errors.Wrapf(err, "log level %q", opts.Level)
		}
		level = l
	}

	var w io.Writer
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatConsole:
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	case FormatJSON:
		w = out
	default:
		return zerolog.Nop(), nil, errors.Errorf("unsupported log format %q", opts.Format)
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
		}
		w = zerolog.MultiLevelWriter(w, file)
		closer = file
	}

	logger := zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Logger()
	return logger, closer, nil
}
