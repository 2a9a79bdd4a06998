package logger

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

type LogLevel int

const (
	LevelError LogLevel = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

const logFileName = "archive_slack.log"

var (
	Info  = log.New(io.Discard, "INFO: ", log.Ldate|log.Ltime|log.Lshortfile)
	Error = log.New(io.Discard, "ERROR: ", log.Ldate|log.Ltime|log.Lshortfile)
	Debug = log.New(io.Discard, "DEBUG: ", log.Ldate|log.Ltime|log.Lshortfile)
	Warn  = log.New(io.Discard, "WARN: ", log.Ldate|log.Ltime|log.Lshortfile)
	level LogLevel
)

func ParseLogLevel(lvl string) LogLevel {
	switch strings.ToUpper(lvl) {
	case "DEBUG":
		return LevelDebug
	case "ERROR":
		return LevelError
	case "WARN":
		return LevelWarn
	default:
		return LevelInfo
	}
}

type nullWriter struct{}

func (nw *nullWriter) Write(p []byte) (n int, err error) {
	return len(p), nil
}

// Init points the loggers at <logPath>/archive_slack.log, or at stderr when
// logPath is empty. Levels above logLevel are discarded.
func Init(logPath string, logLevel LogLevel) error {
	out := io.Writer(os.Stderr)
	if logPath != "" {
		if err := os.MkdirAll(logPath, 0755); err != nil {
			return err
		}

		logFile, err := os.OpenFile(
			filepath.Join(logPath, logFileName),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND,
			0644,
		)
		if err != nil {
			return err
		}
		out = logFile
	}

	SetOutput(out, logLevel)
	return nil
}

// SetOutput configures every logger to write to w, honoring logLevel.
func SetOutput(w io.Writer, logLevel LogLevel) {
	level = logLevel

	// Always enable Error logging
	Error.SetOutput(w)
	Warn.SetOutput(writerFor(w, LevelWarn))
	Info.SetOutput(writerFor(w, LevelInfo))
	Debug.SetOutput(writerFor(w, LevelDebug))
}

func writerFor(w io.Writer, min LogLevel) io.Writer {
	if level >= min {
		return w
	}
	return &nullWriter{}
}

// Level reports the level the loggers were last configured with.
func Level() LogLevel {
	return level
}
