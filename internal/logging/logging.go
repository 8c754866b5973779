// Package logging provides the tagged diagnostic log used across the
// pipeline. Lines go to stderr; when a log file is configured they are
// mirrored to a size-rotated file as well.
package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	out     io.Writer = os.Stderr
	logFile *lumberjack.Logger
)

// Setup mirrors diagnostics to a rotating log file at logPath. An empty path
// leaves stderr-only logging in place.
func Setup(logPath string) {
	if logPath == "" {
		return
	}
	logFile = &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}
	out = io.MultiWriter(os.Stderr, logFile)
}

// Close releases the rotating log file, if one was configured.
func Close() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
		out = os.Stderr
	}
}

// Infof logs an informational diagnostic.
func Infof(format string, args ...interface{}) {
	write("INFO", format, args...)
}

// Warnf logs a warning diagnostic.
func Warnf(format string, args ...interface{}) {
	write("WARN", format, args...)
}

// Errorf logs an error diagnostic.
func Errorf(format string, args ...interface{}) {
	write("ERROR", format, args...)
}

func write(level, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	timestamp := time.Now().Format("2006-01-02 15:04:05")
	_, _ = fmt.Fprintf(out, "[%s] [%s] %s\n", timestamp, level, msg)
}
