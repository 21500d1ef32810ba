package decompose

import "context"

// relocateOutliers runs the optional relocation pass: for every outlier
// in the table, find the final node whose representative it is closest
// to and, if that differs from where it came from and is within
// tolerance, record the relocation. It does not move reads between
// alignment files; relocation is bookkeeping only, so it records To and
// leaves the outlier's ids where recordOutlier first placed them.
func (d *Decomposer) relocateOutliers() int {
	finalIDs := d.topo.Final()
	if len(finalIDs) == 0 {
		return 0
	}

	relocated := 0
	for _, seq := range d.outlierOrder {
		outlier := d.outliers[seq]
		chosen, mismatch := d.closestFinalNode(seq, finalIDs)
		if chosen == "" || chosen == outlier.From || mismatch > d.maxVariationAllowed {
			continue
		}
		outlier.To = chosen
		relocated++

		if d.telemetry != nil {
			d.telemetry.RecordOutlierRelocated(context.Background(), outlier.From, chosen)
		}
	}
	return relocated
}

// closestFinalNode picks the final node whose representative has the
// smallest mismatch count against seq. Ties break by larger node size,
// then by smaller node id, via first-seen order over Final()'s sorted
// ids (see DESIGN.md for the tie-break rationale).
func (d *Decomposer) closestFinalNode(seq string, finalIDs []string) (string, int) {
	best := ""
	bestMismatch := -1
	bestSize := -1

	for _, id := range finalIDs {
		n, ok := d.topo.Get(id)
		if !ok {
			continue
		}
		m := mismatchCount(seq, n.RepresentativeSeq)
		if best == "" || m < bestMismatch || (m == bestMismatch && n.Size > bestSize) {
			best = id
			bestMismatch = m
			bestSize = n.Size
		}
	}
	return best, bestMismatch
}
