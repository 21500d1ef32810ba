package align

import "sort"

// Group is one distinct sequence from an alignment together with every
// read id that carries it.
type Group struct {
	Seq string
	IDs []string
}

// Unique scans path once and returns its distinct sequences ordered by
// descending multiplicity (len(IDs)), breaking ties by first-seen order
// for reproducibility.
func Unique(path string) ([]Group, error) {
	order := make([]string, 0, 64)
	index := make(map[string]int, 64)
	groups := make([]Group, 0, 64)

	err := Each(path, func(r Record) error {
		i, ok := index[r.Seq]
		if !ok {
			i = len(groups)
			index[r.Seq] = i
			order = append(order, r.Seq)
			groups = append(groups, Group{Seq: r.Seq})
		}
		groups[i].IDs = append(groups[i].IDs, r.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return len(groups[i].IDs) > len(groups[j].IDs)
	})
	return groups, nil
}
