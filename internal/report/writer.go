package report

import (
	"io"

	"github.com/nao1215/todolint/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the result to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(result *model.ScanResult) (int, error)
}

// Option configures a writer.
type Option func(*options)

type options struct {
	banner string
}

// WithBanner sets the message printed when the warn limit is exceeded.
func WithBanner(message string) Option {
	return func(o *options) {
		o.banner = message
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	options
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer, opts []Option) baseWriter {
	w := baseWriter{output: output}
	for _, opt := range opts {
		opt(&w.options)
	}
	return w
}
