package align

import "errors"

// Sentinel errors raised by the alignment store. ErrIO covers an
// unreadable or unwritable path; ErrFormat covers a sequence whose length
// disagrees with the first one observed in the file.
var (
	ErrIO     = errors.New("align: i/o error")
	ErrFormat = errors.New("align: sequence length mismatch")
)
