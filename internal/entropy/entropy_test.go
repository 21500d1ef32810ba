package entropy

import (
	"math"
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

func TestColumns_AllIdentical(t *testing.T) {
	path := writeFasta(t, [][2]string{{"a", "AAAA"}, {"b", "AAAA"}})

	values, err := Columns(path, false)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	for i, v := range values {
		if v != 0 {
			t.Fatalf("column %d entropy = %v, want 0 (no variation)", i, v)
		}
	}
}

func TestColumns_SingleVariantColumn(t *testing.T) {
	// 50/50 split at column 2 only; entropy there should be exactly 1 bit.
	records := make([][2]string, 0, 100)
	for i := 0; i < 50; i++ {
		records = append(records, [2]string{"a", "AAAAA"})
	}
	for i := 0; i < 50; i++ {
		records = append(records, [2]string{"b", "AATAA"})
	}
	path := writeFasta(t, records)

	values, err := Columns(path, false)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	for col, v := range values {
		if col == 2 {
			if math.Abs(v-1.0) > 1e-9 {
				t.Fatalf("column 2 entropy = %v, want 1.0", v)
			}
			continue
		}
		if v != 0 {
			t.Fatalf("column %d entropy = %v, want 0", col, v)
		}
	}
}

func TestColumns_UniquedWeighting(t *testing.T) {
	// Two unique sequences encoded with multiplicities 50 and 50 should
	// produce the same entropy as 50+50 raw records.
	path := writeFasta(t, [][2]string{
		{"uniq_00000000|size=50", "AAAAA"},
		{"uniq_00000001|size=50", "AATAA"},
	})

	values, err := Columns(path, true)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if math.Abs(values[2]-1.0) > 1e-9 {
		t.Fatalf("column 2 entropy = %v, want 1.0", values[2])
	}
}

func TestWeightOf(t *testing.T) {
	cases := map[string]int{
		"uniq_00000003|size=12": 12,
		"uniq_00000000|size=1":  1,
		"plain_read_id":         1,
		"bad|size=notanumber":   1,
	}
	for id, want := range cases {
		if got := weightOf(id); got != want {
			t.Errorf("weightOf(%q) = %d, want %d", id, got, want)
		}
	}
}

func TestShannon_UnknownCharacterCoercedToGapBucket(t *testing.T) {
	path := writeFasta(t, [][2]string{{"a", "N"}, {"b", "-"}})

	values, err := Columns(path, false)
	if err != nil {
		t.Fatalf("Columns: %v", err)
	}
	if values[0] != 0 {
		t.Fatalf("column 0 entropy = %v, want 0 (N and - both bucket to gap)", values[0])
	}
}
