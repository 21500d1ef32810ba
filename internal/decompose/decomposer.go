package decompose

import (
	"context"
	"fmt"
	"path/filepath"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/meddecompose/decomposer/internal/align"
	"github.com/meddecompose/decomposer/internal/config"
	"github.com/meddecompose/decomposer/internal/node"
	"github.com/meddecompose/decomposer/internal/telemetry"
	"github.com/meddecompose/decomposer/internal/topology"
)

// Decomposer is the main driver: it owns the topology, the outliers
// table, and the thresholds a run was configured with, and exposes a
// single entry point, Run.
type Decomposer struct {
	cfg *config.Config
	topo *topology.Topology

	outliers     map[string]*Outlier
	outlierOrder []string

	alignmentLength      int
	averageReadLength    float64
	maxVariationAllowed  int

	telemetry *telemetry.Provider
	logger    *telemetry.Logger
}

// New constructs a Decomposer. cfg must already have Validate and Prepare
// called on it (NodesDirectory must be populated).
func New(cfg *config.Config, prov *telemetry.Provider, logger *telemetry.Logger) *Decomposer {
	return &Decomposer{
		cfg:       cfg,
		topo:      topology.New(),
		outliers:  make(map[string]*Outlier),
		telemetry: prov,
		logger:    logger,
	}
}

// Run executes all three phases of decomposition in order: raw topology
// construction, outlier removal, outlier relocation — followed by a final
// statistics refresh if either leaf-refinement phase ran. It returns a
// Result summarizing the run for RUNINFO.
func (d *Decomposer) Run(ctx context.Context) (*Result, error) {
	if err := d.initRoot(); err != nil {
		return nil, err
	}

	if err := d.buildRawTopology(ctx); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	expelled := 0
	relocated := 0
	refinedLeaves := false

	if !d.cfg.SkipRemovingOutliers {
		n, err := d.removeOutliers(ctx)
		if err != nil {
			return nil, err
		}
		expelled = n
		refinedLeaves = true
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if d.cfg.RelocateOutliers {
		relocated = d.relocateOutliers()
		refinedLeaves = true
	}

	if refinedLeaves {
		if err := d.refreshFinalNodes(); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return d.summarize(expelled, relocated), nil
}

// initRoot copies the input alignment into the run's NODES directory under
// the literal id "root", and derives the alignment length and average
// unaligned read length used throughout the run.
func (d *Decomposer) initRoot() error {
	length, err := align.Length(d.cfg.AlignmentPath)
	if err != nil {
		return err
	}
	d.alignmentLength = length

	avg, err := align.AverageUnalignedLength(d.cfg.AlignmentPath)
	if err != nil {
		return err
	}
	d.averageReadLength = avg
	d.maxVariationAllowed = maxVariationAllowed(avg)

	rootPath := d.nodePath("root", false)
	rootUniquePath := d.nodePath("root", true)

	w, err := align.Create(rootPath)
	if err != nil {
		return err
	}
	copyErr := align.Each(d.cfg.AlignmentPath, func(r align.Record) error {
		return w.Append(r.ID, r.Seq)
	})
	if closeErr := w.Close(); copyErr == nil {
		copyErr = closeErr
	}
	if copyErr != nil {
		return copyErr
	}

	root := node.New("root", "", 0, rootPath, rootUniquePath)
	d.topo.Insert(root)

	if d.logger != nil {
		d.logger.Infof("initialized root alignment: length=%d average_read_length=%.2f", length, avg)
	}
	return nil
}

// nodePath returns the alignment (or unique-alignment) path for a node id
// under the run's NODES directory.
func (d *Decomposer) nodePath(id string, unique bool) string {
	if unique {
		return filepath.Join(d.cfg.NodesDirectory, fmt.Sprintf("%s.unique.fasta", id))
	}
	return filepath.Join(d.cfg.NodesDirectory, fmt.Sprintf("%s.fasta", id))
}

func (d *Decomposer) tracer() trace.Tracer {
	if d.telemetry == nil {
		return nil
	}
	return d.telemetry.Tracer()
}

func (d *Decomposer) startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	tr := d.tracer()
	if tr == nil {
		return ctx, noopSpan{}
	}
	return tr.Start(ctx, name, trace.WithAttributes(attrs...))
}

// noopSpan lets startSpan be called unconditionally even when telemetry is
// disabled, without every caller branching on a nil tracer.
type noopSpan struct{ trace.Span }

func (noopSpan) End(...trace.SpanEndOption) {}
