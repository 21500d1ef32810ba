package unique

import (
	"fmt"

	"github.com/meddecompose/decomposer/internal/align"
)

// sizeSuffix is the id-line marker used to encode a unique group's
// multiplicity, e.g. ">uniq_00000003|size=12". entropy.go's uniqued reader
// parses this suffix back out.
const sizeSuffix = "|size="

// Result is the outcome of uniquing one alignment: its distinct sequences
// ordered by descending multiplicity, the matching counts and id lists,
// and the most abundant sequence as representative.
type Result struct {
	Sequences      []string
	Counts         []int
	IDs            [][]string
	Representative string
}

// Unique reads alignmentPath, computes its Result, and writes the uniqued
// form to outputPath using the size-annotated id encoding. Tie-breaking
// across equal counts is first-seen order, inherited from align.Unique.
func Unique(alignmentPath, outputPath string) (Result, error) {
	groups, err := align.Unique(alignmentPath)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Sequences: make([]string, len(groups)),
		Counts:    make([]int, len(groups)),
		IDs:       make([][]string, len(groups)),
	}
	for i, g := range groups {
		res.Sequences[i] = g.Seq
		res.Counts[i] = len(g.IDs)
		res.IDs[i] = g.IDs
	}
	if len(res.Sequences) > 0 {
		res.Representative = res.Sequences[0]
	}

	w, err := align.Create(outputPath)
	if err != nil {
		return Result{}, err
	}
	for i, seq := range res.Sequences {
		id := fmt.Sprintf("uniq_%08d%s%d", i, sizeSuffix, res.Counts[i])
		if err := w.Append(id, seq); err != nil {
			w.Close()
			return Result{}, err
		}
	}
	if err := w.Close(); err != nil {
		return Result{}, err
	}
	return res, nil
}

// SizeSuffix exposes the id-line marker. Package entropy does not call it;
// its weightOf keeps its own copy of the same marker.
func SizeSuffix() string { return sizeSuffix }
