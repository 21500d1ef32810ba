// Command meddecompose performs entropy-driven hierarchical decomposition
// of an aligned set of biological sequence reads.
//
// Usage:
//
//	meddecompose -alignment PATH [flags]
//
// Flags:
//
//	-alignment string
//	    Path to the input fasta alignment (required)
//	-min-entropy float
//	    Minimum entropy a discriminant column must exceed (default 0.2)
//	-number-of-discriminants int
//	    Number of top entropy columns considered per split (default 3)
//	-min-actual-abundance int
//	    Finalize a node whose size falls to or below this value (default 0)
//	-min-substantive-abundance int
//	    Kill a node whose top unique sequence count falls below this value (default 4)
//	-output-directory string
//	    Output directory (default derived from -project and the thresholds)
//	-project string
//	    Project name (default derived from the alignment file's base name)
//	-dataset-name-separator string
//	    Separator used to derive a sample name from a read id (default "_")
//	-skip-removing-outliers
//	    Skip the post-raw-topology outlier removal pass
//	-relocate-outliers
//	    Attempt to relocate expelled outliers to another final node
//	-generate-frequency-curves
//	    Accepted for CLI compatibility; visualization is out of scope
//	-debug
//	    Enable debug-level logging
//
// Exit code 0 on success; non-zero on configuration or I/O failure.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/meddecompose/decomposer/internal/align"
	"github.com/meddecompose/decomposer/internal/config"
	"github.com/meddecompose/decomposer/internal/decompose"
	"github.com/meddecompose/decomposer/internal/output"
	"github.com/meddecompose/decomposer/internal/telemetry"
)

const version = "0.1.0"

func main() {
	cfg := config.Default()

	alignmentPath := flag.String("alignment", "", "Path to the input fasta alignment (required)")
	minEntropy := flag.Float64("min-entropy", cfg.MinEntropy, "Minimum entropy a discriminant column must exceed")
	numDiscriminants := flag.Int("number-of-discriminants", cfg.NumberOfDiscriminants, "Number of top entropy columns considered per split")
	minActualAbundance := flag.Int("min-actual-abundance", cfg.MinActualAbundance, "Finalize a node whose size falls to or below this value")
	minSubstantiveAbundance := flag.Int("min-substantive-abundance", cfg.MinSubstantiveAbundance, "Kill a node whose top unique sequence count falls below this value")
	outputDirectory := flag.String("output-directory", "", "Output directory")
	project := flag.String("project", "", "Project name")
	datasetNameSeparator := flag.String("dataset-name-separator", cfg.DatasetNameSeparator, "Separator used to derive a sample name from a read id")
	skipRemovingOutliers := flag.Bool("skip-removing-outliers", false, "Skip the post-raw-topology outlier removal pass")
	relocateOutliers := flag.Bool("relocate-outliers", false, "Attempt to relocate expelled outliers to another final node")
	generateFrequencyCurves := flag.Bool("generate-frequency-curves", false, "Accepted for CLI compatibility; visualization is out of scope")
	debug := flag.Bool("debug", false, "Enable debug-level logging")

	flag.Parse()

	cfg.AlignmentPath = *alignmentPath
	cfg.MinEntropy = *minEntropy
	cfg.NumberOfDiscriminants = *numDiscriminants
	cfg.MinActualAbundance = *minActualAbundance
	cfg.MinSubstantiveAbundance = *minSubstantiveAbundance
	cfg.OutputDirectory = *outputDirectory
	cfg.Project = *project
	cfg.DatasetNameSeparator = *datasetNameSeparator
	cfg.SkipRemovingOutliers = *skipRemovingOutliers
	cfg.RelocateOutliers = *relocateOutliers
	cfg.GenerateFrequencyCurves = *generateFrequencyCurves
	cfg.Debug = *debug

	if err := run(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "meddecompose: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	rootSize, err := align.Count(cfg.AlignmentPath)
	if err != nil {
		return err
	}
	if rootSize < cfg.MinActualAbundance {
		return config.ErrRootBelowActualAbundance
	}

	nodesDir, err := cfg.Prepare()
	if err != nil {
		return err
	}

	logLevel := "info"
	if cfg.Debug {
		logLevel = "debug"
	}
	logger := telemetry.NewLogger(telemetry.LogConfig{Level: logLevel, Pretty: true})

	runID := uuid.New().String()
	logger = logger.WithRunID(runID)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		if sig, ok := <-sigChan; ok {
			logger.Infof("received signal %v, canceling after the current phase", sig)
			cancel()
		}
	}()

	telCfg := telemetry.DefaultTelemetryConfig()
	telCfg.RunID = runID
	provider, err := telemetry.NewProvider(ctx, telCfg)
	if err != nil {
		return err
	}
	defer provider.Shutdown(context.Background())

	logger.Infof("starting decomposition: alignment=%s project=%s output=%s", cfg.AlignmentPath, cfg.Project, cfg.OutputDirectory)

	decomposer := decompose.New(cfg, provider, logger)
	start := time.Now()
	result, err := decomposer.Run(ctx)
	if err != nil {
		return err
	}
	logger.Infof("decomposition finished in %s: final_nodes=%d killed_nodes=%d", time.Since(start), result.FinalNodeCount, result.KilledNodeCount)

	if err := writeOutputs(cfg, runID, decomposer, result); err != nil {
		return err
	}

	metricsPath := filepath.Join(cfg.OutputDirectory, "METRICS.prom")
	if err := provider.WriteMetricsFile(metricsPath); err != nil {
		logger.WithError(err).Warnf("failed to write metrics file")
	}

	return nil
}

func writeOutputs(cfg *config.Config, runID string, decomposer *decompose.Decomposer, result *decompose.Result) error {
	topo := decomposer.Topology()

	if err := output.WriteTopologyTable(filepath.Join(cfg.OutputDirectory, "TOPOLOGY.txt"), topo); err != nil {
		return err
	}
	if err := output.WriteTopologyJSON(filepath.Join(cfg.OutputDirectory, "TOPOLOGY.json"), topo); err != nil {
		return err
	}
	if err := output.WriteEnvironment(filepath.Join(cfg.OutputDirectory, "ENVIRONMENT.txt"), topo, cfg.DatasetNameSeparator); err != nil {
		return err
	}
	if err := output.WriteMatrices(
		filepath.Join(cfg.OutputDirectory, "MATRIX-COUNT.txt"),
		filepath.Join(cfg.OutputDirectory, "MATRIX-PERCENT.txt"),
		topo, cfg.DatasetNameSeparator,
	); err != nil {
		return err
	}

	info := output.RunInfo{
		RunID:                   runID,
		Project:                 cfg.Project,
		RunDate:                 time.Now(),
		Version:                 version,
		RootAlignment:           cfg.AlignmentPath,
		OutputDirectory:         cfg.OutputDirectory,
		NodesDirectory:          cfg.NodesDirectory,
		InfoFilePath:            filepath.Join(cfg.OutputDirectory, "RUNINFO"),
		CmdLine:                 strings.Join(os.Args, " "),
		MinActualAbundance:      cfg.MinActualAbundance,
		MinSubstantiveAbundance: cfg.MinSubstantiveAbundance,
		TotalSeq:                result.RootSize,
		NumSequencesAfterQC:     result.RootSize,
		NumOutliersAfterRawTopology: countRawTopologyOutliers(decomposer.Outliers()),
		NumFinalNodes:               result.FinalNodeCount,
		OutliersRelocated:           result.OutliersRelocated,
	}
	if !cfg.SkipRemovingOutliers || cfg.RelocateOutliers {
		info.Refreshed = true
		info.NumOutliersAfterRefineNodes = result.OutliersExpelled
		info.NumSequencesAfterQCAfterRefresh = result.RootSize - result.OutliersExpelled
	}

	if err := output.WriteRunInfo(filepath.Join(cfg.OutputDirectory, "RUNINFO"), info); err != nil {
		return err
	}
	return output.WriteRunInfoJSON(filepath.Join(cfg.OutputDirectory, "RUNINFO.json"), info)
}

// countRawTopologyOutliers sums the read counts of every outlier entry
// expelled during the raw-topology kill rule, identified by an empty From
// (no owning node survived to claim it).
func countRawTopologyOutliers(outliers []*decompose.Outlier) int {
	total := 0
	for _, o := range outliers {
		if o.From == "" {
			total += len(o.IDs)
		}
	}
	return total
}
