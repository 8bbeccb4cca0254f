package utils

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

// Logger provides structured, leveled logging throughout the application.
type Logger struct {
	mu      sync.Mutex
	out     *log.Logger
	errOut  *log.Logger
	color   bool
	debugOn bool
}

// NewLogger creates a new Logger writing to stdout/stderr. Colors are only
// used when stdout is a terminal.
func NewLogger() *Logger {
	return &Logger{
		out:    log.New(os.Stdout, "", 0),
		errOut: log.New(os.Stderr, "", 0),
		color:  term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewLoggerTo sends every level to w without colors.
func NewLoggerTo(w io.Writer) *Logger {
	return &Logger{
		out:    log.New(w, "", 0),
		errOut: log.New(w, "", 0),
	}
}

// SetDebug toggles Debug output.
func (l *Logger) SetDebug(on bool) {
	l.mu.Lock()
	l.debugOn = on
	l.mu.Unlock()
}

func (l *Logger) timestamp() string {
	return time.Now().Format("2006-01-02 15:04:05")
}

func (l *Logger) tag(name, code string) string {
	if !l.color {
		return fmt.Sprintf("%-5s", name)
	}
	return fmt.Sprintf("\033[%sm%-5s\033[0m", code, name)
}

func (l *Logger) emit(dst *log.Logger, tag, format string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	dst.Printf("[%s] %s %s", l.timestamp(), tag, fmt.Sprintf(format, args...))
}

func (l *Logger) Info(format string, args ...any) {
	l.emit(l.out, l.tag("INFO", "32"), format, args...)
}

func (l *Logger) Warn(format string, args ...any) {
	l.emit(l.out, l.tag("WARN", "33"), format, args...)
}

func (l *Logger) Error(format string, args ...any) {
	l.emit(l.errOut, l.tag("ERROR", "31"), format, args...)
}

func (l *Logger) Debug(format string, args ...any) {
	if !l.debugOn {
		return
	}
	l.emit(l.out, l.tag("DEBUG", "36"), format, args...)
}
