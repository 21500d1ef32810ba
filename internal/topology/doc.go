// Package topology implements the tree of nodes: insertion, lookup,
// deterministic id minting, and the alive/final node views the decomposer
// and the output writers need. The tree is small and mutated often during
// growth, so a map keyed by node id is the primary index rather than an
// adjacency structure.
package topology
