package node

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFasta(t *testing.T, records [][2]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.fasta")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, r := range records {
		if _, err := f.WriteString(">" + r[0] + "\n" + r[1] + "\n"); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	f.Close()
	return path
}

func TestRefresh_PopulatesStatistics(t *testing.T) {
	dir := t.TempDir()
	records := make([][2]string, 0, 100)
	for i := 0; i < 96; i++ {
		records = append(records, [2]string{"a", "AAAAA"})
	}
	for i := 0; i < 4; i++ {
		records = append(records, [2]string{"b", "AATAA"})
	}
	alignmentPath := writeFasta(t, records)

	n := New("000000000001", "root", 1, alignmentPath, filepath.Join(dir, "unique.fasta"))
	if err := n.Refresh(); err != nil {
		t.Fatalf("Refresh: %v", err)
	}

	if n.Size != 100 {
		t.Fatalf("Size = %d, want 100", n.Size)
	}
	if n.RepresentativeSeq != "AAAAA" {
		t.Fatalf("RepresentativeSeq = %q, want AAAAA", n.RepresentativeSeq)
	}
	if n.UniqueReadCounts[0] != 96 || n.UniqueReadCounts[1] != 4 {
		t.Fatalf("UniqueReadCounts = %v, want [96 4]", n.UniqueReadCounts)
	}
	wantDensity := 0.96
	if diff := n.Density - wantDensity; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("Density = %v, want %v", n.Density, wantDensity)
	}
	wantCUSR := 4.0 / 96.0
	if diff := n.CUSR - wantCUSR; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("CUSR = %v, want %v", n.CUSR, wantCUSR)
	}
}

func TestRefresh_Idempotent(t *testing.T) {
	records := [][2]string{{"a", "AAAA"}, {"b", "AAAA"}, {"c", "TTTT"}}
	alignmentPath := writeFasta(t, records)

	n := New("000000000001", "root", 1, alignmentPath, filepath.Join(t.TempDir(), "unique.fasta"))
	if err := n.Refresh(); err != nil {
		t.Fatalf("first Refresh: %v", err)
	}
	first := *n

	if err := n.Refresh(); err != nil {
		t.Fatalf("second Refresh: %v", err)
	}

	if n.Size != first.Size || n.Density != first.Density || n.CUSR != first.CUSR {
		t.Fatalf("refresh is not idempotent: first=%+v second=%+v", first, *n)
	}
}

func TestIsRoot(t *testing.T) {
	root := New("root", "", 0, "a", "b")
	if !root.IsRoot() {
		t.Fatalf("IsRoot() = false for the root node")
	}
	child := New("000000000001", "root", 1, "a", "b")
	if child.IsRoot() {
		t.Fatalf("IsRoot() = true for a non-root node")
	}
}
