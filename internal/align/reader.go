package align

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// Each streams path sequentially, invoking fn once per record in file
// order. It opens and closes its own file handle, so it is safe to call
// Each multiple times over the same path (the store supports re-reading,
// there is no persistent cursor to reset).
//
// The first record observed establishes the alignment length; every
// subsequent record whose sequence length differs fails with ErrFormat.
func Each(path string, fn func(Record) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: opening %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	length := -1
	var id string
	haveID := false
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			id = strings.TrimPrefix(line, ">")
			haveID = true
			continue
		}
		if !haveID {
			return fmt.Errorf("%w: %s: sequence line without preceding id", ErrFormat, path)
		}
		seq := line
		if length == -1 {
			length = len(seq)
		} else if len(seq) != length {
			return fmt.Errorf("%w: %s: record %q has length %d, expected %d", ErrFormat, path, id, len(seq), length)
		}
		if err := fn(Record{ID: id, Seq: seq}); err != nil {
			return err
		}
		haveID = false
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("%w: reading %s: %v", ErrIO, path, err)
	}
	return nil
}

// Length returns the alignment length (the length of the first sequence in
// the file). It scans only as far as the first record.
func Length(path string) (int, error) {
	length := -1
	err := Each(path, func(r Record) error {
		length = len(r.Seq)
		return errStopIteration
	})
	if err != nil && err != errStopIteration {
		return 0, err
	}
	if length == -1 {
		return 0, fmt.Errorf("%w: %s: no records", ErrFormat, path)
	}
	return length, nil
}

// Count returns the total number of records in the alignment.
func Count(path string) (int, error) {
	n := 0
	err := Each(path, func(Record) error {
		n++
		return nil
	})
	return n, err
}

// AverageUnalignedLength returns the arithmetic mean of UnalignedLength
// across every record, used to derive the outlier-removal tolerance.
func AverageUnalignedLength(path string) (float64, error) {
	total := 0
	n := 0
	err := Each(path, func(r Record) error {
		total += r.UnalignedLength()
		n++
		return nil
	})
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, fmt.Errorf("%w: %s: no records", ErrFormat, path)
	}
	return float64(total) / float64(n), nil
}

// errStopIteration is a private sentinel used to short-circuit Each from
// within this package; it never escapes a public function.
var errStopIteration = fmt.Errorf("align: stop iteration")
