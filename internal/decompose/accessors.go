package decompose

import (
	"github.com/meddecompose/decomposer/internal/config"
	"github.com/meddecompose/decomposer/internal/topology"
)

// Topology exposes the run's tree for the output writers. Only valid after
// Run has returned successfully.
func (d *Decomposer) Topology() *topology.Topology { return d.topo }

// Config exposes the run's configuration.
func (d *Decomposer) Config() *config.Config { return d.cfg }

// Outliers exposes the outliers table in first-seen insertion order.
func (d *Decomposer) Outliers() []*Outlier {
	out := make([]*Outlier, 0, len(d.outlierOrder))
	for _, seq := range d.outlierOrder {
		out = append(out, d.outliers[seq])
	}
	return out
}

// AlignmentLength returns the run's fixed alignment column count.
func (d *Decomposer) AlignmentLength() int { return d.alignmentLength }

// AverageReadLength returns the root alignment's mean unaligned read length.
func (d *Decomposer) AverageReadLength() float64 { return d.averageReadLength }

// MaxVariationAllowed returns the outlier-removal tolerance derived from
// AverageReadLength.
func (d *Decomposer) MaxVariationAllowed() int { return d.maxVariationAllowed }
