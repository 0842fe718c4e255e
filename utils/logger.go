package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

const (
	ansiReset  = "\033[0m"
	ansiCyan   = "\033[36m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiRed    = "\033[31m"
)

// Logger is a small leveled logger writing single-line records to stdout,
// colorized unless NO_COLOR is set.
type Logger struct {
	mu       sync.Mutex
	level    LogLevel
	useColor bool
	out      *log.Logger
}

func NewLogger(level string) *Logger {
	return &Logger{
		level:    ParseLogLevel(level),
		useColor: os.Getenv("NO_COLOR") == "",
		out:      log.New(os.Stdout, "", 0),
	}
}

func ParseLogLevel(level string) LogLevel {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return LogLevelDebug
	case "WARN", "WARNING":
		return LogLevelWarn
	case "ERROR":
		return LogLevelError
	default:
		return LogLevelInfo
	}
}

func (l *Logger) SetLevel(level string) {
	l.mu.Lock()
	l.level = ParseLogLevel(level)
	l.mu.Unlock()
}

func (l *Logger) Debugf(format string, args ...interface{}) { l.logf(LogLevelDebug, format, args...) }
func (l *Logger) Infof(format string, args ...interface{})  { l.logf(LogLevelInfo, format, args...) }
func (l *Logger) Warnf(format string, args ...interface{})  { l.logf(LogLevelWarn, format, args...) }
func (l *Logger) Errorf(format string, args ...interface{}) { l.logf(LogLevelError, format, args...) }

func (l *Logger) logf(level LogLevel, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	ts := time.Now().Format(time.RFC3339)
	msg := fmt.Sprintf(format, args...)
	src := callerPackage()

	if l.useColor {
		l.out.Printf("%s[%s] [%s] [%s]%s %s", levelColor(level), ts, levelName(level), src, ansiReset, msg)
		return
	}
	l.out.Printf("[%s] [%s] [%s] %s", ts, levelName(level), src, msg)
}

// callerPackage walks the stack past this file and reports the first caller's
// file name, without extension, as the log source.
func callerPackage() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(2, pcs)
	if n == 0 {
		return "unknown"
	}
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		base := filepath.Base(frame.File)
		if base != "logger.go" {
			return strings.TrimSuffix(base, filepath.Ext(base))
		}
		if !more {
			return "unknown"
		}
	}
}

func levelName(level LogLevel) string {
	switch level {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func levelColor(level LogLevel) string {
	switch level {
	case LogLevelDebug:
		return ansiCyan
	case LogLevelWarn:
		return ansiYellow
	case LogLevelError:
		return ansiRed
	default:
		return ansiGreen
	}
}

var defaultLogger = NewLogger(os.Getenv("LOG_LEVEL"))

func SetLogLevel(level string) { defaultLogger.SetLevel(level) }

func Debugf(format string, args ...interface{}) { defaultLogger.Debugf(format, args...) }
func Infof(format string, args ...interface{})  { defaultLogger.Infof(format, args...) }
func Warnf(format string, args ...interface{})  { defaultLogger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { defaultLogger.Errorf(format, args...) }
