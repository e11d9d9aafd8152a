// Package cliout provides structured output formatting for CLI commands.
// It supports human-readable text, JSON and YAML, with consistent styling
// using ANSI colors and Unicode symbols when stdout is a terminal.
package cliout

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
	"sync"

	"golang.org/x/term"
	"gopkg.in/yaml.v3"
)

// Format represents the output format.
type Format string

const (
	// FormatDefault is the default human-readable format.
	FormatDefault Format = "default"
	// FormatJSON is JSON format.
	FormatJSON Format = "json"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ANSI color codes for consistent styling
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Cyan = "\033[36m"

	BrightRed    = "\033[91m"
	BrightGreen  = "\033[92m"
	BrightYellow = "\033[93m"
	BrightBlue   = "\033[94m"
)

// Unicode symbols and their ASCII fallbacks.
const (
	SymbolCheck   = "✓"
	SymbolCross   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
	SymbolDot     = "•"

	ASCIICheck   = "[+]"
	ASCIICross   = "[-]"
	ASCIIWarning = "[!]"
	ASCIIInfo    = "[i]"
)

var (
	mu           sync.RWMutex
	globalFormat           = FormatDefault
	out          io.Writer = os.Stdout
	noColor                = !isTerminal(os.Stdout)
)

var supportsUnicode = detectUnicodeSupport()

func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// detectUnicodeSupport checks if the terminal can display Unicode properly.
func detectUnicodeSupport() bool {
	if runtime.GOOS != "windows" {
		return true
	}
	return os.Getenv("WT_SESSION") != "" ||
		os.Getenv("TERM_PROGRAM") == "vscode" ||
		os.Getenv("PSModulePath") != "" ||
		os.Getenv("TERM") != ""
}

func getIcon(unicode, ascii string) string {
	if supportsUnicode {
		return unicode
	}
	return ascii
}

// SetOutput redirects all output to w and returns a function restoring the
// previous writer. Color is disabled unless w is a terminal.
func SetOutput(w io.Writer) (restore func()) {
	mu.Lock()
	prevOut, prevNoColor := out, noColor
	out = w
	if f, ok := w.(*os.File); ok {
		noColor = !isTerminal(f)
	} else {
		noColor = true
	}
	mu.Unlock()

	return func() {
		mu.Lock()
		out, noColor = prevOut, prevNoColor
		mu.Unlock()
	}
}

// ForceColor enables color output regardless of terminal detection.
func ForceColor() {
	mu.Lock()
	noColor = false
	mu.Unlock()
}

// NoColor disables color output.
func NoColor() {
	mu.Lock()
	noColor = true
	mu.Unlock()
}

func writer() (io.Writer, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return out, noColor
}

// color wraps s in the given ANSI code unless color is disabled.
func color(code, s string) string {
	_, disabled := writer()
	if disabled {
		return s
	}
	return code + s + Reset
}

func printf(format string, args ...any) {
	w, _ := writer()
	_, _ = fmt.Fprintf(w, format, args...)
}

// SetFormat sets the global output format.
func SetFormat(format string) error {
	var f Format
	switch strings.ToLower(format) {
	case "default", "":
		f = FormatDefault
	case "json":
		f = FormatJSON
	case "yaml", "yml":
		f = FormatYAML
	default:
		return fmt.Errorf("invalid output format: %s (valid options: default, json, yaml)", format)
	}
	mu.Lock()
	globalFormat = f
	mu.Unlock()
	return nil
}

// GetFormat returns the current output format.
func GetFormat() Format {
	mu.RLock()
	defer mu.RUnlock()
	return globalFormat
}

// IsJSON returns true if the output format is JSON.
func IsJSON() bool {
	return GetFormat() == FormatJSON
}

// IsStructured returns true for any machine-readable format.
func IsStructured() bool {
	return GetFormat() != FormatDefault
}

// PrintJSON prints data as indented JSON.
func PrintJSON(data any) error {
	w, _ := writer()
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// PrintYAML prints data as YAML. Values implementing yaml.Marshaler control
// their own representation.
func PrintYAML(data any) error {
	w, _ := writer()
	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return encoder.Close()
}

// Print outputs data in the configured format.
// For default format, uses the formatter function.
func Print(data any, formatter func()) error {
	switch GetFormat() {
	case FormatJSON:
		return PrintJSON(data)
	case FormatYAML:
		return PrintYAML(data)
	default:
		formatter()
		return nil
	}
}

// Header prints a bold header with a divider
func Header(text string) {
	printf("\n%s\n", color(Bold, text))
	printf("%s\n", strings.Repeat("=", len(text)))
}

// Success prints a success message with green checkmark
func Success(format string, args ...any) {
	printf("%s %s\n", color(BrightGreen, getIcon(SymbolCheck, ASCIICheck)), fmt.Sprintf(format, args...))
}

// Error prints an error message with red X
func Error(format string, args ...any) {
	printf("%s %s\n", color(BrightRed, getIcon(SymbolCross, ASCIICross)), fmt.Sprintf(format, args...))
}

// Warning prints a warning message with yellow triangle
func Warning(format string, args ...any) {
	printf("%s  %s\n", color(BrightYellow, getIcon(SymbolWarning, ASCIIWarning)), fmt.Sprintf(format, args...))
}

// Info prints an info message with blue info icon
func Info(format string, args ...any) {
	printf("%s  %s\n", color(BrightBlue, getIcon(SymbolInfo, ASCIIInfo)), fmt.Sprintf(format, args...))
}

// Label prints a label and value pair
func Label(label, value string) {
	printf("   %s %s\n", color(Dim, fmt.Sprintf("%-12s", label+":")), value)
}

// Hint prints compact hints on a single line with bullet separators.
func Hint(hints ...string) {
	if len(hints) == 0 {
		return
	}
	sep := " " + getIcon(SymbolDot, "*") + " "
	printf("%s\n", color(Dim, strings.Join(hints, sep)))
}

// Plain prints plain text without any formatting.
func Plain(format string, args ...any) {
	printf(format+"\n", args...)
}

// URL returns a URL styled in bright blue.
func URL(url string) string {
	return color(BrightBlue, url)
}

// Highlight returns highlighted text.
func Highlight(format string, args ...any) string {
	return color(Bold+Cyan, fmt.Sprintf(format, args...))
}
