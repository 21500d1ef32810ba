package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeAlignment(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sample.fasta")
	if err := os.WriteFile(path, []byte(">a\nAAAA\n"), 0o644); err != nil {
		t.Fatalf("writing alignment: %v", err)
	}
	return path
}

func TestValidate(t *testing.T) {
	alignment := writeAlignment(t)

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid defaults",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing alignment",
			mutate:  func(c *Config) { c.AlignmentPath = "" },
			wantErr: ErrMissingAlignment,
		},
		{
			name:    "unreadable alignment",
			mutate:  func(c *Config) { c.AlignmentPath = filepath.Join(t.TempDir(), "missing.fasta") },
			wantErr: ErrAlignmentUnreadable,
		},
		{
			name:    "negative min entropy",
			mutate:  func(c *Config) { c.MinEntropy = -0.1 },
			wantErr: ErrInvalidMinEntropy,
		},
		{
			name:    "zero discriminants",
			mutate:  func(c *Config) { c.NumberOfDiscriminants = 0 },
			wantErr: ErrInvalidDiscriminants,
		},
		{
			name:    "negative actual abundance",
			mutate:  func(c *Config) { c.MinActualAbundance = -1 },
			wantErr: ErrInvalidActualAbundance,
		},
		{
			name:    "zero substantive abundance",
			mutate:  func(c *Config) { c.MinSubstantiveAbundance = 0 },
			wantErr: ErrInvalidSubstantiveAbund,
		},
		{
			name:    "empty separator",
			mutate:  func(c *Config) { c.DatasetNameSeparator = "" },
			wantErr: ErrEmptySeparator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.AlignmentPath = alignment
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestPrepare_DefaultsAndNodesDirectoryWipe(t *testing.T) {
	alignment := writeAlignment(t)
	outputDir := filepath.Join(t.TempDir(), "out")

	cfg := Default()
	cfg.AlignmentPath = alignment
	cfg.OutputDirectory = outputDir

	stalePath := filepath.Join(outputDir, "NODES", "stale.fasta")
	if err := os.MkdirAll(filepath.Dir(stalePath), 0o755); err != nil {
		t.Fatalf("seeding stale NODES dir: %v", err)
	}
	if err := os.WriteFile(stalePath, []byte("stale"), 0o644); err != nil {
		t.Fatalf("seeding stale file: %v", err)
	}

	nodesDir, err := cfg.Prepare()
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	if cfg.Project != "sample" {
		t.Fatalf("Project = %q, want sample", cfg.Project)
	}
	if _, err := os.Stat(stalePath); !os.IsNotExist(err) {
		t.Fatalf("stale NODES file still present: %v", err)
	}
	if nodesDir != filepath.Join(outputDir, "NODES") {
		t.Fatalf("NodesDirectory = %q, want %q", nodesDir, filepath.Join(outputDir, "NODES"))
	}
}

func TestClone_IsIndependent(t *testing.T) {
	cfg := Default()
	cfg.AlignmentPath = "a"
	clone := cfg.Clone()
	clone.AlignmentPath = "b"

	if cfg.AlignmentPath != "a" {
		t.Fatalf("mutating clone affected original: %q", cfg.AlignmentPath)
	}
}
