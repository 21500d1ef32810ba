package config

import "errors"

// Sentinel errors surfaced during configuration validation and
// preparation: bad inputs are caught here, before any output file is
// created.
var (
	// Input errors
	ErrMissingAlignment    = errors.New("config: --alignment is required")
	ErrAlignmentUnreadable = errors.New("config: alignment file is not accessible")

	// Parameter errors
	ErrInvalidMinEntropy       = errors.New("config: min-entropy must be non-negative")
	ErrInvalidDiscriminants    = errors.New("config: number-of-discriminants must be positive")
	ErrInvalidActualAbundance  = errors.New("config: min-actual-abundance must be non-negative")
	ErrInvalidSubstantiveAbund = errors.New("config: min-substantive-abundance must be positive")
	ErrEmptySeparator          = errors.New("config: dataset-name-separator must not be empty")

	// Output directory errors
	ErrOutputDirNotCreatable = errors.New("config: output directory does not exist and could not be created")
	ErrOutputDirNotWritable  = errors.New("config: output directory is not writable")

	// Root-size errors, raised once the alignment has been inspected
	ErrRootBelowActualAbundance = errors.New("config: alignment size is below min-actual-abundance")
)
