// Package errs defines the uniform error value used across every stage of
// the shader compilation pipeline: a file, an optional zero-based line
// index, a message and a severity, plus human-readable formatting in the
// two conventions compilers commonly use (gcc-style and MSVC-style).
package errs

import "fmt"

// Severity distinguishes a fatal diagnostic from an advisory one.
type Severity uint8

const (
	// SeverityError marks a diagnostic that fails the stage that raised it.
	SeverityError Severity = iota
	// SeverityWarning marks an advisory diagnostic that does not fail the stage.
	SeverityWarning
)

func (s Severity) String() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Format selects the rendering convention for Report.Format.
type Format uint8

const (
	// FormatGCC renders "path:line:col: error: msg".
	FormatGCC Format = iota
	// FormatMSVC renders "path(line): error: msg".
	FormatMSVC
)

// NoLine is the sentinel line index meaning "no specific line".
const NoLine = -1

// Report is an immutable file/line/message diagnostic.
type Report struct {
	file     string
	line     int // zero-based, NoLine if absent
	message  string
	severity Severity
}

// New creates an error-severity Report pinned to a zero-based line index.
func New(file string, lineIndex int, message string) Report {
	return Report{file: file, line: lineIndex, message: message, severity: SeverityError}
}

// NewNoLine creates an error-severity Report with no associated line.
func NewNoLine(file, message string) Report {
	return Report{file: file, line: NoLine, message: message, severity: SeverityError}
}

// Newf is New with fmt.Sprintf-style formatting of the message.
func Newf(file string, lineIndex int, format string, args ...any) Report {
	return New(file, lineIndex, fmt.Sprintf(format, args...))
}

// NewWarning creates a warning-severity Report pinned to a zero-based line index.
func NewWarning(file string, lineIndex int, message string) Report {
	return Report{file: file, line: lineIndex, message: message, severity: SeverityWarning}
}

// File returns the reported file path (may be a synthetic name for
// diagnostics that have no real backing file, e.g. bytecode compiles).
func (r Report) File() string { return r.file }

// Line returns the zero-based line index and whether one is present.
func (r Report) Line() (int, bool) {
	if r.line < 0 {
		return 0, false
	}
	return r.line, true
}

// Message returns the diagnostic text.
func (r Report) Message() string { return r.message }

// Severity returns the diagnostic severity.
func (r Report) Severity() Severity { return r.severity }

// Format renders the report in the requested convention. Line numbers are
// rendered 1-based; a report with no line omits the position entirely.
func (r Report) Format(f Format) string {
	line, hasLine := r.Line()
	switch f {
	case FormatMSVC:
		if !hasLine {
			return fmt.Sprintf("%s: %s: %s", r.file, r.severity, r.message)
		}
		return fmt.Sprintf("%s(%d): %s: %s", r.file, line+1, r.severity, r.message)
	default: // FormatGCC
		if !hasLine {
			return fmt.Sprintf("%s: %s: %s", r.file, r.severity, r.message)
		}
		return fmt.Sprintf("%s:%d:0: %s: %s", r.file, line+1, r.severity, r.message)
	}
}

// Error implements the error interface using gcc-style formatting.
func (r Report) Error() string {
	return r.Format(FormatGCC)
}

// List is an accumulated, ordered set of Reports produced by one stage.
type List []Report

// Add appends a report.
func (l *List) Add(r Report) { *l = append(*l, r) }

// Addf appends an error-severity report built with Sprintf formatting.
func (l *List) Addf(file string, lineIndex int, format string, args ...any) {
	l.Add(Newf(file, lineIndex, format, args...))
}

// HasErrors reports whether any entry has SeverityError. Warnings alone do
// not make a List "failed".
func (l List) HasErrors() bool {
	for _, r := range l {
		if r.severity == SeverityError {
			return true
		}
	}
	return false
}

// Error implements the error interface, summarizing the first error and the
// count of remaining entries.
func (l List) Error() string {
	if len(l) == 0 {
		return "no errors"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more)", l[0].Error(), len(l)-1)
}

// FormatAll renders every entry, one per line, in the requested convention.
func (l List) FormatAll(f Format) string {
	out := ""
	for i, r := range l {
		if i > 0 {
			out += "\n"
		}
		out += r.Format(f)
	}
	return out
}
