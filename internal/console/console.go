// Package console prints the builder's colored status lines.
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	clrDim     = color.New(color.FgHiBlack)
	clrSubtle  = color.New(color.FgWhite)
	clrHeading = color.New(color.FgCyan, color.Bold)
	clrStep    = color.New(color.FgBlue)
	clrSuccess = color.New(color.FgGreen)
	clrWarning = color.New(color.FgYellow)
	clrError   = color.New(color.FgRed)
)

// Logger writes status lines. Debug lines only appear when verbose; a quiet
// logger keeps only warnings and errors.
type Logger struct {
	out     io.Writer
	verbose bool
	quiet   bool
}

// New returns a Logger writing to out.
func New(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose}
}

// Stderr returns a Logger writing to standard error.
func Stderr(verbose bool) *Logger {
	return New(os.Stderr, verbose)
}

// Discard returns a Logger that drops everything.
func Discard() *Logger {
	return New(io.Discard, false)
}

// Quiet returns a Logger writing to out that drops everything but warnings
// and errors.
func Quiet(out io.Writer) *Logger {
	return &Logger{out: out, quiet: true}
}

// Verbose reports whether debug output is enabled.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Section prints a heading line.
func (l *Logger) Section(format string, args ...any) {
	if l.quiet {
		return
	}
	title := fmt.Sprintf(format, args...)
	fill := 50 - len(title)
	if fill < 3 {
		fill = 3
	}
	fmt.Fprintf(l.out, "%s %s %s\n",
		clrDim.Sprint("=="),
		clrHeading.Sprint(title),
		clrDim.Sprint(strings.Repeat("=", fill)))
}

// Step reports progress within a build.
func (l *Logger) Step(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(clrStep.Sprint("●"), clrSubtle.Sprintf(format, args...))
}

// Success reports a completed action.
func (l *Logger) Success(format string, args ...any) {
	if l.quiet {
		return
	}
	l.line(clrSuccess.Sprint("✔"), clrSuccess.Sprintf(format, args...))
}

// Warn reports a recoverable problem.
func (l *Logger) Warn(format string, args ...any) {
	l.line(clrWarning.Sprint("⚠"), clrWarning.Sprintf(format, args...))
}

// Error reports a failure.
func (l *Logger) Error(format string, args ...any) {
	l.line(clrError.Sprint("✖"), clrError.Sprintf(format, args...))
}

// Debug prints only in verbose mode.
func (l *Logger) Debug(format string, args ...any) {
	if !l.verbose {
		return
	}
	l.line(clrDim.Sprint("·"), clrDim.Sprintf(format, args...))
}

func (l *Logger) line(icon, msg string) {
	fmt.Fprintf(l.out, "%s  %s\n", icon, msg)
}
