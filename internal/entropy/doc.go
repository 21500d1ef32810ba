// Package entropy implements the per-column Shannon entropy engine over a
// raw or uniqued alignment. In uniqued mode each record's weight is its
// multiplicity, recovered from the "|size=" suffix that package unique
// encodes into every uniqued alignment's id line.
package entropy
