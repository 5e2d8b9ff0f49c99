package log

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

type Level string

const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelError Level = "ERROR"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// initLogger initializes the global logger. Output goes to stderr only;
// stdout is reserved for the JSON document.
func initLogger() {
	loggerOnce.Do(func() {
		logger = logrus.New()
		logger.SetOutput(os.Stderr)
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02T15:04:05.000000Z07:00",
		})
		logger.SetLevel(logrus.InfoLevel)
	})
}

func SetLevel(l Level) {
	initLogger()
	logger.SetLevel(toLogrus(l))
}

// ParseLevel maps a config string ("debug", "info", "error") to a Level.
// Unknown values fall back to INFO.
func ParseLevel(s string) Level {
	switch Level(strings.ToUpper(strings.TrimSpace(s))) {
	case LevelDebug:
		return LevelDebug
	case LevelError:
		return LevelError
	default:
		return LevelInfo
	}
}

// SetOutput redirects log output, mainly for tests.
func SetOutput(w io.Writer) {
	initLogger()
	logger.SetOutput(w)
}

func Debug(msg string, kv ...any) {
	logWithLevel(LevelDebug, msg, kv...)
}

func Info(msg string, kv ...any) {
	logWithLevel(LevelInfo, msg, kv...)
}

func Error(msg string, err error, kv ...any) {
	// Prepend error into key-value list.
	extended := append([]any{"err", err}, kv...)
	logWithLevel(LevelError, msg, extended...)
}

func logWithLevel(level Level, msg string, kv ...any) {
	initLogger()
	entry := logger.WithFields(toFields(kv...))
	switch level {
	case LevelDebug:
		entry.Debug(msg)
	case LevelError:
		entry.Error(msg)
	default:
		entry.Info(msg)
	}
}

func toLogrus(l Level) logrus.Level {
	switch l {
	case LevelDebug:
		return logrus.DebugLevel
	case LevelError:
		return logrus.ErrorLevel
	default:
		return logrus.InfoLevel
	}
}

func toFields(kv ...any) logrus.Fields {
	fields := make(logrus.Fields, len(kv)/2)
	// Expect kv as pairs: key, value, key, value, ...
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		fields[key] = safeSprint(kv[i+1])
	}
	// If odd number of args, last one is ignored.
	return fields
}

func safeSprint(v any) string {
	if v == nil {
		return "<nil>"
	}
	return fmt.Sprint(v)
}
