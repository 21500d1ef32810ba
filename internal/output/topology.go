package output

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/meddecompose/decomposer/internal/node"
	"github.com/meddecompose/decomposer/internal/topology"
)

// topologySchema constrains TOPOLOGY.json's shape: a "nodes" array whose
// entries round-trip every field of node.Node. Validating before write
// catches a future field rename or a nil-slice-vs-empty-array regression
// before it reaches disk.
const topologySchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["nodes"],
  "properties": {
    "nodes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": [
          "node_id", "parent", "children", "level", "killed",
          "alignment_path", "unique_alignment_path", "read_ids",
          "unique_read_counts", "representative_seq", "size",
          "entropy", "entropy_sorted", "average_entropy",
          "discriminants", "competing_unique_sequences_ratio", "density"
        ],
        "properties": {
          "node_id": {"type": "string"},
          "parent": {"type": "string"},
          "children": {"type": "array", "items": {"type": "string"}},
          "level": {"type": "integer"},
          "killed": {"type": "boolean"},
          "alignment_path": {"type": "string"},
          "unique_alignment_path": {"type": "string"},
          "read_ids": {"type": "array", "items": {"type": "string"}},
          "unique_read_counts": {"type": "array", "items": {"type": "integer"}},
          "representative_seq": {"type": "string"},
          "size": {"type": "integer"},
          "entropy": {"type": "array", "items": {"type": "number"}},
          "entropy_sorted": {"type": "array"},
          "average_entropy": {"type": "number"},
          "discriminants": {"type": "array", "items": {"type": "integer"}},
          "competing_unique_sequences_ratio": {"type": "number"},
          "density": {"type": "number"}
        }
      }
    }
  }
}`

// topologyDump is the JSON envelope written to TOPOLOGY.json — a portable
// stand-in for the original's TOPOLOGY.cPickle.
type topologyDump struct {
	Nodes []*node.Node `json:"nodes"`
}

// WriteTopologyTable writes the tab-separated topology table: one line per
// alive node, node_id, size, parent_or_empty, level, children_csv.
func WriteTopologyTable(path string, topo *topology.Topology) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: creating %s: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, id := range topo.Alive() {
		n, ok := topo.Get(id)
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%s\n",
			n.NodeID, n.Size, n.Parent, n.Level, strings.Join(n.Children, ","))
	}
	return w.Flush()
}

// WriteTopologyJSON serializes every node ever inserted (alive or killed)
// into TOPOLOGY.json, validating the document against topologySchema
// before it touches disk.
func WriteTopologyJSON(path string, topo *topology.Topology) error {
	dump := topologyDump{Nodes: make([]*node.Node, 0, topo.Len())}
	for _, id := range topo.All() {
		n, ok := topo.Get(id)
		if ok {
			dump.Nodes = append(dump.Nodes, n)
		}
	}

	schemaLoader := gojsonschema.NewStringLoader(topologySchema)
	documentLoader := gojsonschema.NewGoLoader(dump)
	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("output: validating topology document: %w", err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("output: topology document failed schema validation: %s", strings.Join(msgs, "; "))
	}

	body, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling topology: %w", err)
	}
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("output: writing %s: %w", path, err)
	}
	return nil
}
