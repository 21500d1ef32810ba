package decompose

import (
	"context"
	"os"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/meddecompose/decomposer/internal/align"
	"github.com/meddecompose/decomposer/internal/node"
)

// buildRawTopology runs the decomposition loop: an explicit FIFO
// work-queue over nodes, processed one level at a time, until no node
// produces children.
func (d *Decomposer) buildRawTopology(ctx context.Context) error {
	queue := []string{"root"}
	level := 0

	for len(queue) > 0 {
		_, span := d.startSpan(ctx, "decompose.level", attribute.Int("level", level))
		start := time.Now()

		next := make([]string, 0)
		for _, id := range queue {
			n, ok := d.topo.Get(id)
			if !ok {
				continue
			}
			children, err := d.processNode(n)
			if err != nil {
				span.End()
				return err
			}
			next = append(next, children...)
		}

		if d.telemetry != nil {
			d.telemetry.RecordLevelDuration(ctx, level, time.Since(start))
		}
		span.End()

		queue = next
		level++
	}
	return nil
}

// processNode runs one node through the raw-topology decision tree —
// unique, kill, finalize, or split — and returns the ids of any children
// it produced.
func (d *Decomposer) processNode(n *node.Node) ([]string, error) {
	// a. Uniquing.
	if err := n.DoUnique(); err != nil {
		return nil, err
	}

	// b. Kill rule (substantive abundance).
	if n.UniqueReadCounts[0] < d.cfg.MinSubstantiveAbundance {
		return nil, d.killNode(n)
	}

	// c. Finalize rule (actual abundance).
	if n.Size <= d.cfg.MinActualAbundance {
		d.finalizeNode(n, "min-actual-abundance")
		return nil, nil
	}

	// d. Ratios.
	n.DoRatios()

	// e. Finalize rule (purity).
	if n.CUSR < 0.025 || n.Density > 0.85 {
		d.finalizeNode(n, "purity")
		return nil, nil
	}

	// f. Entropy.
	if err := n.DoEntropy(); err != nil {
		return nil, err
	}

	// g. Finalize rule (second-abundance).
	if len(n.UniqueReadCounts) < 2 || n.UniqueReadCounts[1] < d.cfg.MinSubstantiveAbundance {
		d.finalizeNode(n, "second-abundance")
		return nil, nil
	}

	// h. Discriminant selection.
	discriminants := d.selectDiscriminants(n)
	if len(discriminants) == 0 {
		d.finalizeNode(n, "no-discriminants")
		return nil, nil
	}
	n.Discriminants = discriminants

	// i. Split.
	return d.splitNode(n, discriminants)
}

// selectDiscriminants takes the top NumberOfDiscriminants entries of the
// node's entropy ranking and keeps only those strictly above MinEntropy,
// preserving descending-entropy order.
func (d *Decomposer) selectDiscriminants(n *node.Node) []int {
	k := d.cfg.NumberOfDiscriminants
	if k > len(n.EntropySorted) {
		k = len(n.EntropySorted)
	}
	cols := make([]int, 0, k)
	for i := 0; i < k; i++ {
		if n.EntropySorted[i].Value > d.cfg.MinEntropy {
			cols = append(cols, n.EntropySorted[i].Column)
		}
	}
	return cols
}

// killNode records every distinct sequence in n's alignment into the
// outliers table (from=null, to=null), deletes both of its alignment
// files, and marks it killed.
func (d *Decomposer) killNode(n *node.Node) error {
	groups, err := align.Unique(n.AlignmentPath)
	if err != nil {
		return err
	}
	for _, g := range groups {
		d.recordOutlier(g.Seq, "", "", g.IDs)
	}
	os.Remove(n.AlignmentPath)
	os.Remove(n.UniqueAlignmentPath)
	n.Killed = true

	if d.telemetry != nil {
		d.telemetry.RecordKilled(context.Background(), n.NodeID, "substantive-abundance")
	}
	if d.logger != nil {
		d.logger.WithNodeID(n.NodeID).Debugf("killed: top unique count below min-substantive-abundance")
	}
	return nil
}

// finalizeNode leaves n as a leaf: no children, not killed.
func (d *Decomposer) finalizeNode(n *node.Node, reason string) {
	if d.telemetry != nil {
		d.telemetry.RecordFinalized(context.Background(), n.NodeID)
	}
	if d.logger != nil {
		d.logger.WithNodeID(n.NodeID).Debugf("finalized: %s", reason)
	}
}

// splitNode buckets n's reads by oligo (the concatenation of bases at the
// chosen discriminant columns, in selection order) and writes one child
// alignment per distinct oligo, in the order the oligo was first seen.
type childBuild struct {
	id      string
	writer  *align.Writer
	readIDs []string
}

func (d *Decomposer) splitNode(n *node.Node, discriminants []int) ([]string, error) {
	order := make([]string, 0)
	children := make(map[string]*childBuild)

	err := align.Each(n.AlignmentPath, func(r align.Record) error {
		oligo := buildOligo(r.Seq, discriminants)
		cb, ok := children[oligo]
		if !ok {
			id := d.topo.MintID()
			w, err := align.Create(d.nodePath(id, false))
			if err != nil {
				return err
			}
			cb = &childBuild{id: id, writer: w}
			children[oligo] = cb
			order = append(order, oligo)
		}
		cb.readIDs = append(cb.readIDs, r.ID)
		return cb.writer.Append(r.ID, r.Seq)
	})
	if err != nil {
		for _, cb := range children {
			cb.writer.Close()
		}
		return nil, err
	}

	childIDs := make([]string, 0, len(order))
	for _, oligo := range order {
		cb := children[oligo]
		if err := cb.writer.Close(); err != nil {
			return nil, err
		}

		child := node.New(cb.id, n.NodeID, n.Level+1, d.nodePath(cb.id, false), d.nodePath(cb.id, true))
		child.ReadIDs = cb.readIDs
		d.topo.Insert(child)

		n.Children = append(n.Children, cb.id)
		childIDs = append(childIDs, cb.id)
	}

	if d.telemetry != nil {
		d.telemetry.RecordSplit(context.Background(), n.NodeID, len(childIDs))
	}
	if d.logger != nil {
		d.logger.WithNodeID(n.NodeID).Debugf("split into %d children", len(childIDs))
	}
	return childIDs, nil
}

// buildOligo concatenates seq's bases at the given columns, in the order
// the columns were chosen (the selection order, not sorted ascending).
func buildOligo(seq string, discriminants []int) string {
	b := make([]byte, len(discriminants))
	for i, col := range discriminants {
		b[i] = seq[col]
	}
	return string(b)
}
