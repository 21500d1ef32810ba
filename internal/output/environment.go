package output

import (
	"bufio"
	"fmt"
	"os"
	"sort"

	"github.com/meddecompose/decomposer/internal/topology"
)

// sampleNodeCount is one cell of the sample x final-node matrix.
type sampleNodeCount struct {
	sample string
	nodeID string
	count  int
}

// buildMatrix derives the sample -> final-node -> count mapping from
// every final node's current read ids.
func buildMatrix(topo *topology.Topology, separator string) ([]sampleNodeCount, []string, []string) {
	counts := make(map[string]map[string]int) // node -> sample -> count
	samples := make(map[string]bool)
	finalIDs := topo.Final()

	for _, id := range finalIDs {
		n, ok := topo.Get(id)
		if !ok {
			continue
		}
		bySample := make(map[string]int)
		for _, readID := range n.ReadIDs {
			sample := SampleName(readID, separator)
			bySample[sample]++
			samples[sample] = true
		}
		counts[id] = bySample
	}

	sampleNames := make([]string, 0, len(samples))
	for s := range samples {
		sampleNames = append(sampleNames, s)
	}
	sort.Strings(sampleNames)

	cells := make([]sampleNodeCount, 0)
	for _, nodeID := range finalIDs {
		for _, sample := range sampleNames {
			if c := counts[nodeID][sample]; c > 0 {
				cells = append(cells, sampleNodeCount{sample: sample, nodeID: nodeID, count: c})
			}
		}
	}
	sort.Slice(cells, func(i, j int) bool {
		if cells[i].sample != cells[j].sample {
			return cells[i].sample < cells[j].sample
		}
		return cells[i].nodeID < cells[j].nodeID
	})

	return cells, finalIDs, sampleNames
}

// WriteEnvironment writes ENVIRONMENT.txt: one tab-separated line per
// (sample, node, count), sorted by sample then node for determinism.
func WriteEnvironment(path string, topo *topology.Topology, separator string) error {
	cells, _, _ := buildMatrix(topo, separator)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, c := range cells {
		fmt.Fprintf(w, "%s\t%s\t%d\n", c.sample, c.nodeID, c.count)
	}
	return w.Flush()
}

// WriteMatrices writes MATRIX-COUNT.txt (final nodes x samples, raw
// counts) and MATRIX-PERCENT.txt (the same cells expressed as a percentage
// of that sample's total reads across final nodes, normalized down each
// sample column).
func WriteMatrices(countPath, percentPath string, topo *topology.Topology, separator string) error {
	_, finalIDs, sampleNames := buildMatrix(topo, separator)

	counts := make(map[string]map[string]int)
	sampleTotals := make(map[string]int)
	for _, id := range finalIDs {
		n, _ := topo.Get(id)
		bySample := make(map[string]int)
		if n != nil {
			for _, readID := range n.ReadIDs {
				sample := SampleName(readID, separator)
				bySample[sample]++
				sampleTotals[sample]++
			}
		}
		counts[id] = bySample
	}

	if err := writeMatrixFile(countPath, finalIDs, sampleNames, func(nodeID, sample string) string {
		return fmt.Sprintf("%d", counts[nodeID][sample])
	}); err != nil {
		return err
	}

	return writeMatrixFile(percentPath, finalIDs, sampleNames, func(nodeID, sample string) string {
		total := sampleTotals[sample]
		if total == 0 {
			return "0.0000"
		}
		pct := float64(counts[nodeID][sample]) / float64(total) * 100
		return fmt.Sprintf("%.4f", pct)
	})
}

func writeMatrixFile(path string, nodeIDs, sampleNames []string, cell func(nodeID, sample string) string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	fmt.Fprint(w, "NodeID")
	for _, s := range sampleNames {
		fmt.Fprintf(w, "\t%s", s)
	}
	fmt.Fprint(w, "\n")

	for _, nodeID := range nodeIDs {
		fmt.Fprint(w, nodeID)
		for _, s := range sampleNames {
			fmt.Fprintf(w, "\t%s", cell(nodeID, s))
		}
		fmt.Fprint(w, "\n")
	}
	return w.Flush()
}
