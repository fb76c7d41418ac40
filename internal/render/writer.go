package render

import (
	"io"

	"github.com/wulab/labsite/internal/page"
)

// Writer renders a page view to a destination.
//
// Design decision: An interface, so that the build pipeline can write the
// HTML and Markdown renditions through one MultiWriter, and tests can
// substitute a recorder.
type Writer interface {
	// Write renders the view and returns the number of bytes written.
	Write(v page.View) (int, error)
}

// MultiWriter writes a view to several Writers in order.
// It stops at the first error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a MultiWriter.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write renders v with every writer and returns the total bytes written.
func (m *MultiWriter) Write(v page.View) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(v)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
