package unique

import (
	"os"
	"path/filepath"
	"strings"
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

func TestUnique_Result(t *testing.T) {
	in := writeFasta(t, [][2]string{
		{"r1", "AAAA"},
		{"r2", "AAAA"},
		{"r3", "TTTT"},
		{"r4", "AAAA"},
	})
	out := filepath.Join(t.TempDir(), "unique.fasta")

	res, err := Unique(in, out)
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}

	if res.Representative != "AAAA" {
		t.Fatalf("Representative = %q, want AAAA", res.Representative)
	}
	if len(res.Sequences) != 2 {
		t.Fatalf("got %d unique sequences, want 2", len(res.Sequences))
	}
	if res.Counts[0] != 3 || res.Counts[1] != 1 {
		t.Fatalf("Counts = %v, want [3 1]", res.Counts)
	}
	if len(res.IDs[0]) != 3 {
		t.Fatalf("IDs[0] = %v, want 3 ids", res.IDs[0])
	}

	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if !strings.Contains(string(body), "|size=3") {
		t.Fatalf("output missing size-3 marker:\n%s", body)
	}
}

func TestUnique_EmptyAlignment(t *testing.T) {
	in := writeFasta(t, nil)
	out := filepath.Join(t.TempDir(), "unique.fasta")

	res, err := Unique(in, out)
	if err != nil {
		t.Fatalf("Unique: %v", err)
	}
	if res.Representative != "" {
		t.Fatalf("Representative = %q, want empty", res.Representative)
	}
	if len(res.Sequences) != 0 {
		t.Fatalf("got %d sequences, want 0", len(res.Sequences))
	}
}
