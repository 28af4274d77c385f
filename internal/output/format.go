// Package output provides unified output formatting for text and JSON.
// All CLI commands use it so results are consistent and pipeable.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Format represents the output format type.
type Format int

const (
	// FormatText is human-readable formatted text (default).
	FormatText Format = iota
	// FormatJSON is machine-readable JSON output.
	FormatJSON
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	default:
		return "text"
	}
}

// Result represents a command result that can be output in either format.
type Result interface {
	// Text writes the text representation.
	Text(w io.Writer) error
	// JSON returns the JSON-serializable data.
	JSON() interface{}
}

// Formatter handles output formatting for commands.
type Formatter struct {
	format Format
	writer io.Writer
	pretty bool
}

// New creates a Formatter with the given options.
func New(opts ...Option) *Formatter {
	f := &Formatter{
		format: FormatText,
		writer: os.Stdout,
		pretty: true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Option is a functional option for Formatter.
type Option func(*Formatter)

// WithJSON sets the output format to JSON when enabled is true.
func WithJSON(enabled bool) Option {
	return func(f *Formatter) {
		if enabled {
			f.format = FormatJSON
		} else {
			f.format = FormatText
		}
	}
}

// WithWriter sets the output writer.
func WithWriter(w io.Writer) Option {
	return func(f *Formatter) {
		f.writer = w
	}
}

// WithPretty sets whether JSON is indented.
func WithPretty(pretty bool) Option {
	return func(f *Formatter) {
		f.pretty = pretty
	}
}

// IsJSON reports whether the output format is JSON.
func (f *Formatter) IsJSON() bool {
	return f.format == FormatJSON
}

// Writer returns the output writer.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// Output writes a Result in the configured format.
func (f *Formatter) Output(r Result) error {
	if f.IsJSON() {
		return f.JSON(r.JSON())
	}
	return r.Text(f.writer)
}

// JSON writes v as JSON to the formatter's writer.
func (f *Formatter) JSON(v interface{}) error {
	encoder := json.NewEncoder(f.writer)
	if f.pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(v)
}

// Textln writes formatted text with a newline.
func (f *Formatter) Textln(format string, args ...interface{}) {
	fmt.Fprintf(f.writer, format+"\n", args...)
}

// DetectFormat determines the output format based on environment.
// Priority: explicit flag > env var > pipe detection > default text.
func DetectFormat(jsonFlag bool) Format {
	if jsonFlag {
		return FormatJSON
	}
	switch os.Getenv("TLN_OUTPUT_FORMAT") {
	case "json", "JSON":
		return FormatJSON
	case "text", "TEXT":
		return FormatText
	}
	// Piped output gets JSON so `tln status | jq .` just works.
	if !IsTerminal() {
		return FormatJSON
	}
	return FormatText
}

// DefaultFormatter returns a formatter honoring flag, env and pipe
// detection.
func DefaultFormatter(jsonFlag bool) *Formatter {
	f := New()
	f.format = DetectFormat(jsonFlag)
	return f
}

// IsTerminal reports whether stdout is an interactive terminal.
func IsTerminal() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// TerminalWidth returns the stdout terminal width, or fallback when
// stdout is not a terminal.
func TerminalWidth(fallback int) int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return fallback
}
