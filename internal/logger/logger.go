// Package logger provides leveled logging for the actionsync CLI.
// Debug, Info and Section output only appears with --verbose; warnings and
// errors are always written so failed extractions and tracker calls are visible.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// maxPayload bounds how much of a raw remote payload is echoed.
const maxPayload = 2000

var (
	mu      sync.Mutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

func write(always bool, prefix, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if always || verbose {
		fmt.Fprintf(output, prefix+format+"\n", args...)
	}
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	write(false, "[DEBUG] ", format, args...)
}

// Section prints a section header if verbose mode is enabled.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// Info prints an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	write(false, "[INFO] ", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	write(true, "[WARN] ", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	write(true, "[ERROR] ", format, args...)
}

// Payload prints a raw remote response under a label, truncated to a readable size.
func Payload(label, body string) {
	body = strings.TrimSpace(body)
	if len(body) > maxPayload {
		body = body[:maxPayload] + "...(truncated)"
	}
	write(true, "[PAYLOAD] ", "%s:\n%s", label, body)
}
