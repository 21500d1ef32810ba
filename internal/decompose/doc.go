// Package decompose implements the Decomposer: the iterative work-queue
// driver that grows the decomposition tree, the outlier-removal and
// outlier-relocation leaf-refinement passes, and the final statistics
// refresh. It is the only package that mutates a Topology once nodes have
// been inserted, and the only package that ever deletes or rewrites a
// node's alignment files.
//
// The driver is single-threaded and cooperative: no node is enqueued
// until its alignment file has been flushed and closed, and the
// in-memory topology is touched only from the goroutine calling Run. Run
// checks ctx between its three top-level phases (raw topology, outlier
// removal, relocation/refresh) so an external supervisor can cancel a run
// between checkpoints without leaving a half-written alignment on disk.
package decompose
