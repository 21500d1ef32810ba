// Package node implements the in-memory Node record: one vertex of the
// decomposition tree, and the four operations — DoUnique, DoEntropy,
// DoRatios, and their composition Refresh — that compute a node's
// statistics from its current alignment file.
package node
