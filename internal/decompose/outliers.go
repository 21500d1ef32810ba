package decompose

import (
	"context"
	"os"

	"github.com/meddecompose/decomposer/internal/align"
	"github.com/meddecompose/decomposer/internal/node"
)

// Outlier is one entry of the outliers table: a sequence expelled from a
// node, optionally relocated to another. From is "" when the
// sequence was expelled during the raw-topology kill rule (no owning node
// to blame); To is "" until relocation assigns a destination.
type Outlier struct {
	Seq  string
	From string
	To   string
	IDs  []string
}

// recordOutlier appends ids to the outlier entry for seq, creating it (with
// the given from) on first sight. A from supplied on a later call to an
// existing entry is ignored — an outlier is attributed to the node it was
// first expelled from.
func (d *Decomposer) recordOutlier(seq, from, to string, ids []string) {
	if existing, ok := d.outliers[seq]; ok {
		existing.IDs = append(existing.IDs, ids...)
		return
	}
	entry := &Outlier{Seq: seq, From: from, To: to, IDs: append([]string(nil), ids...)}
	d.outliers[seq] = entry
	d.outlierOrder = append(d.outlierOrder, seq)
}

// removeOutliers runs post-raw outlier removal over every final leaf and
// returns the total number of reads expelled.
func (d *Decomposer) removeOutliers(ctx context.Context) (int, error) {
	expelled := 0
	for _, id := range d.topo.Final() {
		n, ok := d.topo.Get(id)
		if !ok {
			continue
		}

		outlierSeqs, err := d.leafOutlierSequences(n.UniqueAlignmentPath, n.RepresentativeSeq)
		if err != nil {
			return expelled, err
		}
		if len(outlierSeqs) == 0 {
			continue
		}

		count, err := d.rewriteWithoutOutliers(n, outlierSeqs)
		if err != nil {
			return expelled, err
		}
		expelled += count

		if count > 0 && d.telemetry != nil {
			d.telemetry.RecordOutliersExpelled(ctx, n.NodeID, count)
		}
	}
	return expelled, nil
}

// leafOutlierSequences scans a leaf's uniqued alignment (skipping the
// representative, its first entry) and returns the set of sequences whose
// mismatch set against the representative exceeds maxVariationAllowed.
func (d *Decomposer) leafOutlierSequences(uniqueAlignmentPath, representative string) (map[string]bool, error) {
	outliers := make(map[string]bool)
	first := true
	err := align.Each(uniqueAlignmentPath, func(r align.Record) error {
		if first {
			first = false
			return nil
		}
		if len(mismatchSet(r.Seq, representative)) > d.maxVariationAllowed {
			outliers[r.Seq] = true
		}
		return nil
	})
	return outliers, err
}

// rewriteWithoutOutliers re-scans a leaf's raw alignment in unique mode,
// records every outlier sequence's ids into the outliers table, and
// atomically replaces the leaf's alignment file with one containing only
// the surviving reads. It returns the number of reads expelled.
func (d *Decomposer) rewriteWithoutOutliers(n *node.Node, outlierSeqs map[string]bool) (int, error) {
	groups, err := align.Unique(n.AlignmentPath)
	if err != nil {
		return 0, err
	}

	tempPath := n.AlignmentPath + ".temp"
	w, err := align.Create(tempPath)
	if err != nil {
		return 0, err
	}

	expelled := 0
	writeErr := func() error {
		for _, g := range groups {
			if outlierSeqs[g.Seq] {
				d.recordOutlier(g.Seq, n.NodeID, "", g.IDs)
				expelled += len(g.IDs)
				continue
			}
			for _, id := range g.IDs {
				if err := w.Append(id, g.Seq); err != nil {
					return err
				}
			}
		}
		return nil
	}()

	if closeErr := w.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tempPath)
		return 0, writeErr
	}

	if err := os.Rename(tempPath, n.AlignmentPath); err != nil {
		return 0, err
	}
	return expelled, nil
}
