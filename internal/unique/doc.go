// Package unique implements uniquing: collapsing an alignment's identical
// sequences, counting duplicates, and picking a representative. It also
// defines the on-disk encoding of a "uniqued alignment" — an id line
// carrying the group's multiplicity — which the entropy engine (package
// entropy) reads back in uniqued mode.
package unique
