package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter writes to all of its writers like io.MultiWriter, but keeps
// going when one of them fails. The errors of all failed writers are combined.
type CombinedWriter struct {
	Writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{
		Writers: writers,
	}
}

func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var errs error
	written := 0
	for _, w := range cw.Writers {
		n, err := w.Write(p)
		errs = multierr.Append(errs, err)
		written = max(written, n)
	}
	return written, errs
}
