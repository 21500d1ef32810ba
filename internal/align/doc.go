// Package align implements the alignment store: sequential access over a
// fasta-like file of fixed-width aligned reads, plus the append-only writer
// used when a node splits into children. Records are read in file order
// only; there is no random access by id or position.
//
// Records are two lines each: an id line prefixed with '>' and a sequence
// line of exactly the alignment's length. Every sequence in a given file
// must share that length; a mismatch is reported as ErrFormat.
//
// The store never holds an alignment whole in memory: every read below
// streams the file with bufio.Scanner and calls back per record.
package align
