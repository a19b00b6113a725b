package cli

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logMaxSizeMB   = 10
	logMaxBackups  = 3
	logMaxAgeDays  = 14
	logCompressOld = true
)

// InitLogger creates the CLI logger. Logs go to stderr and, when logFile is
// set, to a rotating file as well. The returned closer releases the file.
func InitLogger(verbose, quiet bool, logFile string) (zerolog.Logger, io.Closer) {
	console := selectOutput()
	if logFile == "" {
		return InitLoggerWithWriter(verbose, quiet, console), nopCloser{}
	}

	lj := newLogFileWriter(logFile)
	writer := zerolog.MultiLevelWriter(console, lj)
	return InitLoggerWithWriter(verbose, quiet, writer), lj
}

// InitLoggerWithWriter creates a logger writing to w.
func InitLoggerWithWriter(verbose, quiet bool, w io.Writer) zerolog.Logger {
	return zerolog.New(w).Level(selectLevel(verbose, quiet)).With().Timestamp().Logger()
}

func newLogFileWriter(path string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logMaxSizeMB,
		MaxBackups: logMaxBackups,
		MaxAge:     logMaxAgeDays,
		Compress:   logCompressOld,
	}
}

// selectLevel determines the log level from the verbosity flags.
func selectLevel(verbose, quiet bool) zerolog.Level {
	switch {
	case verbose:
		return zerolog.DebugLevel
	case quiet:
		return zerolog.WarnLevel
	default:
		return zerolog.InfoLevel
	}
}

// selectOutput uses the console writer on a TTY without NO_COLOR and JSON
// otherwise.
func selectOutput() io.Writer {
	if term.IsTerminal(int(os.Stderr.Fd())) && os.Getenv("NO_COLOR") == "" {
		return zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}
	return os.Stderr
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
