// Package refgraph materializes the reference graph of a schema document.
//
// The cycle detector walks this graph implicitly; refgraph builds it
// explicitly for export, the report server and Graphviz visualization. Node
// identifiers are canonical JSON pointers, the same identifiers that appear
// in cycle reports.
package refgraph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

// Node is one addressable schema node that participates in the graph.
type Node struct {
	ID string `json:"id" bson:"id"`

	// Ref is the node's "$ref" value, when it has one. External (absolute)
	// refs are recorded here even though they produce no edge.
	Ref string `json:"ref,omitempty" bson:"ref,omitempty"`

	// External marks nodes whose "$ref" cannot be resolved within the
	// document and is therefore a dead end for traversal.
	External bool `json:"external,omitempty" bson:"external,omitempty"`
}

// Edge is a directed reference edge between two nodes.
type Edge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// Graph is the canonical serialization format for reference graphs.
// Nodes and edges are sorted for deterministic output.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// Build walks doc from the root and every definitions entry and returns the
// full reference graph. The traversal mirrors the cycle detector's: same
// edge rules, same roots, iterative rather than call-recursive.
func Build(doc *schema.Document) Graph {
	type item struct {
		ptr  string
		node any
	}

	nodes := make(map[string]Node)
	var edges []Edge

	visit := func(stack []item, ptr string) []item {
		node, ok := doc.Resolve(ptr)
		if !ok {
			return stack
		}
		return append(stack, item{ptr, node})
	}

	var stack []item
	stack = visit(stack, schema.RootPointer)
	for _, root := range doc.DefinitionRoots() {
		stack = visit(stack, root)
	}

	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := nodes[it.ptr]; seen {
			continue
		}
		nodes[it.ptr] = describe(it.ptr, it.node)

		for _, target := range doc.EdgesFrom(it.ptr, it.node) {
			edges = append(edges, Edge{From: it.ptr, To: target})
			stack = visit(stack, target)
		}
	}

	out := Graph{Nodes: make([]Node, 0, len(nodes)), Edges: edges}
	for _, n := range nodes {
		out.Nodes = append(out.Nodes, n)
	}
	slices.SortFunc(out.Nodes, func(a, b Node) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(out.Edges, func(a, b Edge) int {
		if c := strings.Compare(a.From, b.From); c != 0 {
			return c
		}
		return strings.Compare(a.To, b.To)
	})
	return out
}

func describe(ptr string, node any) Node {
	n := Node{ID: ptr}
	obj, ok := node.(map[string]any)
	if !ok {
		return n
	}
	if ref, ok := obj["$ref"].(string); ok {
		n.Ref = ref
		n.External = !schema.IsLocalRef(ref)
	}
	return n
}

// NodeCount returns the number of nodes in the graph.
func (g Graph) NodeCount() int { return len(g.Nodes) }

// EdgeCount returns the number of edges in the graph.
func (g Graph) EdgeCount() int { return len(g.Edges) }

// Marshal converts a graph to indented JSON bytes.
func Marshal(g Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a graph as indented JSON to w.
func Write(g Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a graph to a JSON file with 0644 permissions.
func WriteFile(g Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}
