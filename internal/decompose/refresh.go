package decompose

// refreshFinalNodes recomputes every derived statistic on every final
// node. Run once after outlier removal and/or relocation so reported
// statistics reflect the modified alignments.
func (d *Decomposer) refreshFinalNodes() error {
	for _, id := range d.topo.Final() {
		n, ok := d.topo.Get(id)
		if !ok {
			continue
		}
		if err := n.Refresh(); err != nil {
			return err
		}
	}
	return nil
}
