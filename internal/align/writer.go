package align

import (
	"bufio"
	"fmt"
	"os"
)

// Writer appends (id, seq) records to a fasta-like file. A node's
// alignment file is opened write-only during a split, written completely,
// and closed before the node is enqueued for analysis — no reader ever
// observes a partially written file.
type Writer struct {
	f   *os.File
	buf *bufio.Writer
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: creating %s: %v", ErrIO, path, err)
	}
	return &Writer{f: f, buf: bufio.NewWriter(f)}, nil
}

// Append writes one record.
func (w *Writer) Append(id, seq string) error {
	if _, err := fmt.Fprintf(w.buf, ">%s\n%s\n", id, seq); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}

// Close flushes buffered output and closes the underlying file. Callers
// must not enqueue the written alignment for analysis until Close returns.
func (w *Writer) Close() error {
	if err := w.buf.Flush(); err != nil {
		w.f.Close()
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	if err := w.f.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
