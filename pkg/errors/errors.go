package errors

import (
	"fmt"
	"io"
	"strings"
)

// VetroError is the interface implemented by all vetro errors.
type VetroError interface {
	error // Embed the standard error interface
	Pos() Position
	Kind() string // e.g., "Policy", "Config"
	// Message returns the specific error message without position info.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// Position represents a location in an input document (1-based, zero
// when unknown).
type Position struct {
	Line   int
	Column int
}

// PolicyError represents a problem in a repair policy document: a
// malformed structure or a leaf value with no policy meaning.
type PolicyError struct {
	Position
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *PolicyError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("Policy Error: %s", e.Msg)
	}
	return fmt.Sprintf("Policy Error at %d:%d: %s", e.Line, e.Column, e.Msg)
}
func (e *PolicyError) Pos() Position   { return e.Position }
func (e *PolicyError) Kind() string    { return "Policy" }
func (e *PolicyError) Message() string { return e.Msg }
func (e *PolicyError) Unwrap() error   { return e.Cause }
func (e *PolicyError) CausedBy(cause error) *PolicyError {
	e.Cause = cause
	return e
}

// NewPolicyError builds a position-tagged policy error.
func NewPolicyError(line, column int, msg string) *PolicyError {
	return &PolicyError{Position: Position{Line: line, Column: column}, Msg: msg}
}

// ConfigError represents a problem in CLI or host configuration.
type ConfigError struct {
	Position
	Msg   string
	Cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("Config Error: %s", e.Msg)
}
func (e *ConfigError) Pos() Position   { return e.Position }
func (e *ConfigError) Kind() string    { return "Config" }
func (e *ConfigError) Message() string { return e.Msg }
func (e *ConfigError) Unwrap() error   { return e.Cause }
func (e *ConfigError) CausedBy(cause error) *ConfigError {
	e.Cause = cause
	return e
}

// NewConfigError builds a config error. Config sources rarely have a
// useful position, so none is taken.
func NewConfigError(msg string) *ConfigError {
	return &ConfigError{Msg: msg}
}

// DisplayErrors prints a list of vetro errors to w in a user-friendly
// format, including the offending source line and a position marker.
func DisplayErrors(w io.Writer, source string, errs []VetroError) {
	if len(errs) == 0 {
		return
	}

	lines := strings.Split(source, "\n")

	for _, err := range errs {
		pos := err.Pos()
		kind := err.Kind()
		msg := err.Message()

		// Ensure line numbers are within bounds (1-based index)
		lineIdx := pos.Line - 1
		if lineIdx < 0 || lineIdx >= len(lines) {
			fmt.Fprintf(w, "%s Error: %s\n", kind, msg)
			continue
		}

		sourceLine := lines[lineIdx]
		trimmedLine := strings.TrimRight(sourceLine, "\r\n\t ")

		// Format: <Kind> Error at <Line>:<Column>: <Message>
		fmt.Fprintf(w, "%s Error at %d:%d: %s\n", kind, pos.Line, pos.Column, msg)
		fmt.Fprintf(w, "  %s\n", trimmedLine)

		marker := strings.Repeat(" ", pos.Column) + "^"
		fmt.Fprintf(w, "  %s\n", marker)
		fmt.Fprintln(w)
	}
}
