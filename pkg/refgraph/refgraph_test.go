package refgraph

import (
	"slices"
	"strings"
	"testing"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

func buildGraph(t *testing.T, src string) Graph {
	t.Helper()
	doc, err := schema.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return Build(doc)
}

func TestBuild(t *testing.T) {
	g := buildGraph(t, `{
		"properties": {"vm": {"$ref": "#/definitions/vm"}},
		"definitions": {
			"vm": {"type": "object"},
			"orphan": {"$ref": "https://example.com/x.json"}
		}
	}`)

	wantNodes := []string{
		"#",
		"#/definitions/orphan",
		"#/definitions/vm",
		"#/properties/vm",
	}
	gotNodes := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		gotNodes[i] = n.ID
	}
	if !slices.Equal(gotNodes, wantNodes) {
		t.Errorf("nodes = %v, want %v", gotNodes, wantNodes)
	}

	wantEdges := []Edge{
		{From: "#", To: "#/properties/vm"},
		{From: "#/properties/vm", To: "#/definitions/vm"},
	}
	if !slices.Equal(g.Edges, wantEdges) {
		t.Errorf("edges = %v, want %v", g.Edges, wantEdges)
	}
}

func TestBuild_ExternalRefMarked(t *testing.T) {
	g := buildGraph(t, `{
		"definitions": {"a": {"$ref": "https://example.com/other.json#/x"}}
	}`)

	var found bool
	for _, n := range g.Nodes {
		if n.ID == "#/definitions/a" {
			found = true
			if !n.External {
				t.Error("external ref node not marked External")
			}
			if n.Ref != "https://example.com/other.json#/x" {
				t.Errorf("Ref = %q", n.Ref)
			}
		}
	}
	if !found {
		t.Fatal("#/definitions/a not in graph")
	}
}

func TestBuild_Deterministic(t *testing.T) {
	const src = `{
		"definitions": {
			"a": {"$ref": "#/definitions/b"},
			"b": {"properties": {"x": {}, "y": {}}}
		}
	}`
	first := buildGraph(t, src)
	second := buildGraph(t, src)

	if !slices.Equal(first.Nodes, second.Nodes) || !slices.Equal(first.Edges, second.Edges) {
		t.Error("Build() not deterministic")
	}
}

func TestBuild_CyclicDocument(t *testing.T) {
	// Build must terminate on cyclic graphs; it deduplicates visited nodes.
	g := buildGraph(t, `{
		"definitions": {
			"a": {"$ref": "#/definitions/b"},
			"b": {"$ref": "#/definitions/a"}
		}
	}`)

	if g.NodeCount() != 3 { // root + a + b
		t.Errorf("NodeCount() = %d, want 3", g.NodeCount())
	}
	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	g := buildGraph(t, `{"properties": {"a": {}}}`)

	data, err := Marshal(g)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if !strings.Contains(string(data), `"#/properties/a"`) {
		t.Errorf("Marshal() missing node: %s", data)
	}
}

func TestToDOT(t *testing.T) {
	g := buildGraph(t, `{
		"properties": {"vm": {"$ref": "#/definitions/vm"}},
		"definitions": {"vm": {}}
	}`)

	dot := ToDOT(g)
	if !strings.HasPrefix(dot, "digraph refs {") {
		t.Errorf("ToDOT() prefix = %q", dot[:20])
	}
	if !strings.Contains(dot, `"#/properties/vm" -> "#/definitions/vm";`) {
		t.Errorf("ToDOT() missing edge:\n%s", dot)
	}
}
