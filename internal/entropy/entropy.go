package entropy

import (
	"math"
	"strconv"
	"strings"

	"github.com/meddecompose/decomposer/internal/align"
)

// symbolIndex maps a base to its bucket in the fixed five-symbol alphabet
// {A,C,G,T,-}; any character outside this set is coerced to '-'.
func symbolIndex(c byte) int {
	switch c {
	case 'A':
		return 0
	case 'C':
		return 1
	case 'G':
		return 2
	case 'T':
		return 3
	default:
		return 4 // unknown characters and gaps are both the '-' bucket
	}
}

// Columns returns the length-L vector of Shannon entropies for path, one
// entry per alignment column. When uniqued is true, each record's weight
// is the multiplicity encoded in its id line (package unique's "|size="
// suffix); a record without that suffix weighs 1.
func Columns(path string, uniqued bool) ([]float64, error) {
	var length int
	var counts [][5]int

	err := align.Each(path, func(r align.Record) error {
		if counts == nil {
			length = len(r.Seq)
			counts = make([][5]int, length)
		}
		weight := 1
		if uniqued {
			weight = weightOf(r.ID)
		}
		for col := 0; col < length; col++ {
			counts[col][symbolIndex(r.Seq[col])] += weight
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entropies := make([]float64, length)
	for col := range counts {
		entropies[col] = shannon(counts[col])
	}
	return entropies, nil
}

// weightOf extracts the multiplicity from a uniqued record's id line, e.g.
// "uniq_00000003|size=12" -> 12. Ids without the suffix weigh 1.
func weightOf(id string) int {
	const marker = "|size="
	i := strings.Index(id, marker)
	if i < 0 {
		return 1
	}
	n, err := strconv.Atoi(id[i+len(marker):])
	if err != nil || n <= 0 {
		return 1
	}
	return n
}

// shannon computes H = -sum(p_b * log2(p_b)) over the five-symbol alphabet,
// with the usual convention 0*log2(0) := 0.
func shannon(counts [5]int) float64 {
	total := 0
	for _, c := range counts {
		total += c
	}
	if total == 0 {
		return 0
	}
	h := 0.0
	for _, c := range counts {
		if c == 0 {
			continue
		}
		p := float64(c) / float64(total)
		h -= p * math.Log2(p)
	}
	return h
}
