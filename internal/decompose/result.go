package decompose

// Result summarizes one decomposition run for the RUNINFO output and for
// tests asserting the run's structural invariants.
type Result struct {
	AlignmentLength      int
	AverageReadLength    float64
	MaxVariationAllowed  int
	RootSize             int
	TotalNodes           int
	FinalNodeCount       int
	KilledNodeCount      int
	OutliersExpelled     int
	OutliersRelocated    int
	FinalNodeIDs         []string
}

// summarize computes a Result from the decomposer's current topology and
// outliers table.
func (d *Decomposer) summarize(expelled, relocated int) *Result {
	root, _ := d.topo.Get("root")
	rootSize := 0
	if root != nil {
		rootSize = root.Size
	}

	killed := 0
	for _, id := range d.topo.All() {
		n, ok := d.topo.Get(id)
		if ok && n.Killed {
			killed++
		}
	}

	final := d.topo.Final()

	return &Result{
		AlignmentLength:     d.alignmentLength,
		AverageReadLength:   d.averageReadLength,
		MaxVariationAllowed: d.maxVariationAllowed,
		RootSize:            rootSize,
		TotalNodes:          d.topo.Len(),
		FinalNodeCount:      len(final),
		KilledNodeCount:     killed,
		OutliersExpelled:    expelled,
		OutliersRelocated:   relocated,
		FinalNodeIDs:        final,
	}
}
