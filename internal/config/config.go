// Package config centralizes decomposition-run configuration: the CLI
// surface, defaulting, validation, and output-directory preparation. A
// single validated Config struct with a Default constructor and
// sentinel-error Validate.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config holds every decomposition parameter settable from the command
// line, plus the derived output paths computed by Prepare.
type Config struct {
	// Required input
	AlignmentPath string

	// Decomposition thresholds
	MinEntropy              float64 // default 0.2
	NumberOfDiscriminants   int     // default 3
	MinActualAbundance      int     // "A", default 0
	MinSubstantiveAbundance int     // "M", default 4

	// Output naming
	OutputDirectory string
	Project         string

	// Sample naming
	DatasetNameSeparator string // default "_"

	// Phase toggles
	SkipRemovingOutliers    bool
	RelocateOutliers        bool
	GenerateFrequencyCurves bool // accepted for CLI compatibility; nothing reads it, visualization is out of scope
	Debug                   bool

	// NodesDirectory is populated by Prepare once the output directory
	// layout has been established.
	NodesDirectory string
}

// Default returns a Config with the algorithm's default threshold values.
func Default() *Config {
	return &Config{
		MinEntropy:              0.2,
		NumberOfDiscriminants:   3,
		MinActualAbundance:      0,
		MinSubstantiveAbundance: 4,
		DatasetNameSeparator:    "_",
	}
}

// Validate checks the configuration in isolation, before the alignment file
// or output directory are touched. It does not perform I/O beyond checking
// the alignment path is readable.
func (c *Config) Validate() error {
	if c.AlignmentPath == "" {
		return ErrMissingAlignment
	}
	if info, err := os.Stat(c.AlignmentPath); err != nil || info.IsDir() {
		return fmt.Errorf("%w: %s", ErrAlignmentUnreadable, c.AlignmentPath)
	}
	if f, err := os.Open(c.AlignmentPath); err != nil {
		return fmt.Errorf("%w: %s", ErrAlignmentUnreadable, c.AlignmentPath)
	} else {
		f.Close()
	}
	if c.MinEntropy < 0 {
		return ErrInvalidMinEntropy
	}
	if c.NumberOfDiscriminants <= 0 {
		return ErrInvalidDiscriminants
	}
	if c.MinActualAbundance < 0 {
		return ErrInvalidActualAbundance
	}
	if c.MinSubstantiveAbundance <= 0 {
		return ErrInvalidSubstantiveAbund
	}
	if c.DatasetNameSeparator == "" {
		return ErrEmptySeparator
	}
	return nil
}

// prefix builds the default run-prefix ("m0.20-A0-d3") used to name an
// output directory when one isn't given.
func (c *Config) prefix() string {
	return fmt.Sprintf("m%.2f-A%d-d%d", c.MinEntropy, c.MinActualAbundance, c.NumberOfDiscriminants)
}

// projectName derives the default project name from the alignment file's
// base name with its extension stripped, matching the original's
// os.path.basename(args.alignment).split('.')[0].
func (c *Config) projectName() string {
	base := filepath.Base(c.AlignmentPath)
	if i := strings.IndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}

// Prepare finalizes OutputDirectory and Project when not explicitly set,
// creates the output directory tree, and wipes a pre-existing NODES/
// directory so a stale run can't corrupt a fresh one. It returns the path
// to the (now-empty) NODES directory.
func (c *Config) Prepare() (string, error) {
	if c.Project == "" {
		c.Project = c.projectName()
	}
	if c.OutputDirectory == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrOutputDirNotCreatable, err)
		}
		dirName := strings.ReplaceAll(c.Project, " ", "_") + "-" + c.prefix()
		c.OutputDirectory = filepath.Join(cwd, dirName)
	}

	if err := os.MkdirAll(c.OutputDirectory, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputDirNotCreatable, err)
	}
	probe := filepath.Join(c.OutputDirectory, ".write-probe")
	if f, err := os.Create(probe); err != nil {
		return "", fmt.Errorf("%w: %s", ErrOutputDirNotWritable, c.OutputDirectory)
	} else {
		f.Close()
		os.Remove(probe)
	}

	nodesDir := filepath.Join(c.OutputDirectory, "NODES")
	if err := os.RemoveAll(nodesDir); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputDirNotCreatable, err)
	}
	if err := os.MkdirAll(nodesDir, 0o755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutputDirNotCreatable, err)
	}
	c.NodesDirectory = nodesDir
	return nodesDir, nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
