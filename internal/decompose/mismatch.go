package decompose

// mismatchSet returns the column indices where a and b disagree. a and b
// are assumed to be the same length (both drawn from the same fixed-width
// alignment).
func mismatchSet(a, b string) []int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	cols := make([]int, 0)
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			cols = append(cols, i)
		}
	}
	return cols
}

// mismatchCount is the Hamming distance between a and b.
func mismatchCount(a, b string) int {
	return len(mismatchSet(a, b))
}

// maxVariationAllowed derives the outlier-removal tolerance:
// max(1, round(averageReadLength/100)).
func maxVariationAllowed(averageReadLength float64) int {
	v := int(averageReadLength/100 + 0.5)
	if v < 1 {
		return 1
	}
	return v
}
