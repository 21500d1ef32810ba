package topology

import (
	"fmt"
	"sort"

	"github.com/meddecompose/decomposer/internal/node"
)

// Topology maps node_id to its Node record and mints the monotonically
// increasing ids new splits consume.
type Topology struct {
	nodes   map[string]*node.Node
	counter int
}

// New returns an empty Topology with its id counter starting at 1 (the
// root is inserted directly under the literal id "root" and never minted).
func New() *Topology {
	return &Topology{nodes: make(map[string]*node.Node)}
}

// Insert adds or replaces a node's record.
func (t *Topology) Insert(n *node.Node) {
	t.nodes[n.NodeID] = n
}

// Get looks up a node by id.
func (t *Topology) Get(id string) (*node.Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// MintID returns the next zero-padded 12-digit node id and advances the
// counter.
func (t *Topology) MintID() string {
	t.counter++
	return fmt.Sprintf("%012d", t.counter)
}

// Len returns the number of nodes ever inserted (alive or killed).
func (t *Topology) Len() int { return len(t.nodes) }

// Alive returns the ids of every non-killed node, sorted ascending for
// deterministic iteration.
func (t *Topology) Alive() []string {
	out := make([]string, 0, len(t.nodes))
	for id, n := range t.nodes {
		if !n.Killed {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

// Final returns the ids of alive leaves (no children), sorted ascending.
func (t *Topology) Final() []string {
	alive := t.Alive()
	out := make([]string, 0, len(alive))
	for _, id := range alive {
		n := t.nodes[id]
		if len(n.Children) == 0 {
			out = append(out, id)
		}
	}
	return out
}

// All returns every node id ever inserted, sorted ascending.
func (t *Topology) All() []string {
	out := make([]string, 0, len(t.nodes))
	for id := range t.nodes {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
