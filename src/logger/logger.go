package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// Logger defines the interface for logging throughout the application.
// Different implementations can be used for different contexts (console, silent, GitHub Actions).
type Logger interface {
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Debug(msg string, args ...interface{})
}

// New picks the logger matching the environment the binary runs in.
func New(verbose bool) Logger {
	if os.Getenv("GITHUB_ACTIONS") == "true" {
		return NewActionsLogger(os.Stdout)
	}
	return NewConsoleLogger(verbose)
}

// ConsoleLogger writes human-readable logs to stdout/stderr.
// Used for local runs and debugging.
type ConsoleLogger struct {
	verbose bool
}

func NewConsoleLogger(verbose bool) *ConsoleLogger {
	return &ConsoleLogger{verbose: verbose}
}

func (c *ConsoleLogger) Info(msg string, args ...interface{}) {
	fmt.Printf("[INFO] "+msg+"\n", args...)
}

func (c *ConsoleLogger) Warn(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[WARN] "+msg+"\n", args...)
}

func (c *ConsoleLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "[ERROR] "+msg+"\n", args...)
}

func (c *ConsoleLogger) Debug(msg string, args ...interface{}) {
	if !c.verbose {
		return
	}
	fmt.Printf("[DEBUG] "+msg+"\n", args...)
}

// ActionsLogger writes GitHub Actions workflow commands. Debug lines are only
// shown by the runner when step debug logging is enabled.
type ActionsLogger struct {
	w io.Writer
}

func NewActionsLogger(w io.Writer) *ActionsLogger {
	return &ActionsLogger{w: w}
}

func (a *ActionsLogger) Info(msg string, args ...interface{}) {
	fmt.Fprintln(a.w, fmt.Sprintf(msg, args...))
}

func (a *ActionsLogger) Warn(msg string, args ...interface{}) {
	fmt.Fprintf(a.w, "::warning::%s\n", EscapeData(fmt.Sprintf(msg, args...)))
}

func (a *ActionsLogger) Error(msg string, args ...interface{}) {
	fmt.Fprintf(a.w, "::error::%s\n", EscapeData(fmt.Sprintf(msg, args...)))
}

func (a *ActionsLogger) Debug(msg string, args ...interface{}) {
	fmt.Fprintf(a.w, "::debug::%s\n", EscapeData(fmt.Sprintf(msg, args...)))
}

// EscapeData escapes a workflow command message so the runner reads it as one line.
func EscapeData(s string) string {
	s = strings.ReplaceAll(s, "%", "%25")
	s = strings.ReplaceAll(s, "\r", "%0D")
	s = strings.ReplaceAll(s, "\n", "%0A")
	return s
}

// SilentLogger discards all log messages.
// Used by the MCP server, where stdout carries the protocol.
type SilentLogger struct{}

func NewSilentLogger() *SilentLogger {
	return &SilentLogger{}
}

func (s *SilentLogger) Info(msg string, args ...interface{})  {}
func (s *SilentLogger) Warn(msg string, args ...interface{})  {}
func (s *SilentLogger) Error(msg string, args ...interface{}) {}
func (s *SilentLogger) Debug(msg string, args ...interface{}) {}
