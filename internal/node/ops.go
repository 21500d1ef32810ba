package node

import (
	"sort"

	"github.com/meddecompose/decomposer/internal/entropy"
	"github.com/meddecompose/decomposer/internal/unique"
)

// DoUnique collapses the node's current alignment into its unique
// sequences, writes the uniqued form to UniqueAlignmentPath, and populates
// ReadIDs (re-ordered by descending-multiplicity unique group),
// UniqueReadCounts, RepresentativeSeq, and Size.
func (n *Node) DoUnique() error {
	res, err := unique.Unique(n.AlignmentPath, n.UniqueAlignmentPath)
	if err != nil {
		return err
	}

	n.UniqueReadCounts = res.Counts
	n.RepresentativeSeq = res.Representative

	flat := make([]string, 0, len(res.IDs)*2)
	size := 0
	for i, ids := range res.IDs {
		flat = append(flat, ids...)
		size += res.Counts[i]
	}
	n.ReadIDs = flat
	n.Size = size
	return nil
}

// DoEntropy computes per-column entropy over the uniqued alignment
// (weighted by multiplicity) and derives EntropySorted and AverageEntropy.
func (n *Node) DoEntropy() error {
	values, err := entropy.Columns(n.UniqueAlignmentPath, true)
	if err != nil {
		return err
	}
	n.Entropy = values

	sorted := make([]EntropyColumn, len(values))
	for i, v := range values {
		sorted[i] = EntropyColumn{Value: v, Column: i}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Value > sorted[j].Value })
	n.EntropySorted = sorted

	sum := 0.0
	count := 0
	for _, v := range values {
		if v > 0.05 {
			sum += v
			count++
		}
	}
	if count > 0 {
		n.AverageEntropy = sum / float64(count)
	} else {
		n.AverageEntropy = 0
	}
	return nil
}

// DoRatios computes CUSR and Density from UniqueReadCounts. It assumes
// DoUnique has already populated UniqueReadCounts and Size.
func (n *Node) DoRatios() {
	if len(n.UniqueReadCounts) < 2 {
		n.CUSR = 0
	} else {
		n.CUSR = float64(n.UniqueReadCounts[1]) / float64(n.UniqueReadCounts[0])
	}
	if n.Size > 0 {
		n.Density = float64(n.UniqueReadCounts[0]) / float64(n.Size)
	} else {
		n.Density = 0
	}
}

// Refresh recomputes every derived statistic from the node's current
// alignment file: DoUnique, then DoEntropy, then DoRatios. Used after
// outlier removal rewrites a leaf's alignment in place.
func (n *Node) Refresh() error {
	if err := n.DoUnique(); err != nil {
		return err
	}
	if err := n.DoEntropy(); err != nil {
		return err
	}
	n.DoRatios()
	return nil
}
