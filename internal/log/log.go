// Package log carries ft's stderr logger through a context, so library code
// like the materialize engine can report progress without taking a writer.
package log

import (
	"context"
	"fmt"
	"io"
)

type loggerKey struct{}

// Logger prints progress lines. Verbosef lines appear only with --verbose.
type Logger struct {
	out     io.Writer
	verbose bool
}

func New(out io.Writer, verbose bool) *Logger {
	return &Logger{out: out, verbose: verbose}
}

func WithLogger(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, l)
}

// FromContext returns the attached logger, or one that discards everything.
func FromContext(ctx context.Context) *Logger {
	if l, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return l
	}
	return &Logger{out: io.Discard}
}

func (l *Logger) Printf(format string, args ...any) {
	fmt.Fprintf(l.out, format, args...)
}

func (l *Logger) Verbosef(format string, args ...any) {
	if l.verbose {
		fmt.Fprintf(l.out, format, args...)
	}
}
