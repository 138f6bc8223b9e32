package cycles

import (
	"fmt"
	"slices"
	"strings"
	"testing"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

func parseDoc(t *testing.T, src string) *schema.Document {
	t.Helper()
	doc, err := schema.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

func TestDetect_AcyclicDocument(t *testing.T) {
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"spec": {"$ref": "#/definitions/spec"}
		},
		"definitions": {
			"spec": {
				"type": "object",
				"properties": {"size": {"$ref": "#/definitions/size"}}
			},
			"size": {"type": "integer"}
		}
	}`)

	if cyc := Detect(doc); cyc != nil {
		t.Errorf("Detect() = %v, want nil", cyc)
	}
}

func TestDetect_SelfReference(t *testing.T) {
	doc := parseDoc(t, `{
		"definitions": {
			"a": {"$ref": "#/definitions/a"}
		}
	}`)

	cyc := Detect(doc)
	want := Cycle{"#/definitions/a", "#/definitions/a"}
	if !slices.Equal(cyc, want) {
		t.Errorf("Detect() = %v, want %v", cyc, want)
	}
}

func TestDetect_TwoNodeCycle(t *testing.T) {
	doc := parseDoc(t, `{
		"definitions": {
			"a": {"$ref": "#/definitions/b"},
			"b": {"$ref": "#/definitions/a"}
		}
	}`)

	cyc := Detect(doc)
	if cyc == nil {
		t.Fatal("Detect() = nil, want a cycle")
	}
	if cyc[0] != cyc[len(cyc)-1] {
		t.Errorf("cycle not closed: first = %q, last = %q", cyc[0], cyc[len(cyc)-1])
	}
	if !slices.Contains(cyc, "#/definitions/a") || !slices.Contains(cyc, "#/definitions/b") {
		t.Errorf("Detect() = %v, want both a and b present", cyc)
	}
	if len(cyc) != 3 {
		t.Errorf("len(cycle) = %d, want 3", len(cyc))
	}
}

func TestDetect_Idempotent(t *testing.T) {
	doc := parseDoc(t, `{
		"definitions": {
			"a": {"allOf": [{"$ref": "#/definitions/b"}]},
			"b": {"properties": {"x": {"$ref": "#/definitions/a"}}}
		}
	}`)

	first := Detect(doc)
	second := Detect(doc)
	if !slices.Equal(first, second) {
		t.Errorf("Detect() not deterministic: %v vs %v", first, second)
	}
	if first == nil {
		t.Error("Detect() = nil, want a cycle")
	}
}

func TestDetect_AbsoluteRefIsDeadEnd(t *testing.T) {
	doc := parseDoc(t, `{
		"definitions": {
			"a": {"$ref": "https://example.com/other.json#/definitions/a"}
		}
	}`)

	if cyc := Detect(doc); cyc != nil {
		t.Errorf("Detect() = %v, want nil for absolute ref", cyc)
	}
}

func TestDetect_CombinatorMediatedCycle(t *testing.T) {
	doc := parseDoc(t, `{
		"definitions": {
			"a": {"allOf": [{"$ref": "#/definitions/a"}]}
		}
	}`)

	cyc := Detect(doc)
	if cyc == nil {
		t.Fatal("Detect() = nil, want cycle through allOf")
	}
	want := Cycle{"#/definitions/a", "#/definitions/a/allOf/0", "#/definitions/a"}
	if !slices.Equal(cyc, want) {
		t.Errorf("Detect() = %v, want %v", cyc, want)
	}
}

func TestDetect_CycleThroughItemsAndNot(t *testing.T) {
	doc := parseDoc(t, `{
		"definitions": {
			"list": {"items": {"$ref": "#/definitions/entry"}},
			"entry": {"not": {"$ref": "#/definitions/list"}}
		}
	}`)

	cyc := Detect(doc)
	if cyc == nil {
		t.Fatal("Detect() = nil, want a cycle")
	}
	if cyc[0] != cyc[len(cyc)-1] {
		t.Errorf("cycle not closed: %v", cyc)
	}
}

func TestDetect_UnreachableDefinitions(t *testing.T) {
	// Nothing references "orphan", but it still cycles with itself.
	doc := parseDoc(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}},
		"definitions": {
			"orphan": {"additionalProperties": {"$ref": "#/definitions/orphan"}}
		}
	}`)

	if cyc := Detect(doc); cyc == nil {
		t.Error("Detect() = nil, want cycle in unreachable definition")
	}
}

func TestDetect_MalformedRefsAreNotEdges(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"ref not a string", `{"definitions": {"a": {"$ref": 42}}}`},
		{"ref not a pointer", `{"definitions": {"a": {"$ref": "#not-a-pointer"}}}`},
		{"ref bad escape", `{"definitions": {"a": {"$ref": "#/definitions/~2a"}}}`},
		{"ref unresolvable", `{"definitions": {"a": {"$ref": "#/definitions/missing"}}}`},
		{"boolean additionalProperties", `{"additionalProperties": true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cyc := Detect(parseDoc(t, tt.src)); cyc != nil {
				t.Errorf("Detect() = %v, want nil", cyc)
			}
		})
	}
}

func TestDetect_DegenerateDocuments(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"empty object", `{}`},
		{"scalar root", `"just a string"`},
		{"null root", `null`},
		{"array root", `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if cyc := Detect(parseDoc(t, tt.src)); cyc != nil {
				t.Errorf("Detect() = %v, want nil", cyc)
			}
		})
	}
}

func TestDetect_DeepAcyclicChain(t *testing.T) {
	// 10,000 sequential definitions each referencing the next must complete
	// without exhausting the stack.
	const n = 10000
	defs := make(map[string]any, n)
	for i := 0; i < n-1; i++ {
		defs[fmt.Sprintf("d%05d", i)] = map[string]any{
			"$ref": fmt.Sprintf("#/definitions/d%05d", i+1),
		}
	}
	defs[fmt.Sprintf("d%05d", n-1)] = map[string]any{"type": "string"}
	doc := schema.New(map[string]any{
		"$ref":        "#/definitions/d00000",
		"definitions": defs,
	})

	if cyc := Detect(doc); cyc != nil {
		t.Errorf("Detect() = %v, want nil", cyc)
	}
}

func TestDetect_DeepNestedCycle(t *testing.T) {
	// A long chain that loops back to its head.
	const n = 5000
	defs := make(map[string]any, n)
	for i := 0; i < n; i++ {
		next := (i + 1) % n
		defs[fmt.Sprintf("d%05d", i)] = map[string]any{
			"$ref": fmt.Sprintf("#/definitions/d%05d", next),
		}
	}
	doc := schema.New(map[string]any{"definitions": defs})

	cyc := Detect(doc)
	if cyc == nil {
		t.Fatal("Detect() = nil, want a cycle")
	}
	if got := len(cyc); got != n+1 {
		t.Errorf("len(cycle) = %d, want %d", got, n+1)
	}
}

func TestDetect_DoesNotMutateDocument(t *testing.T) {
	root := map[string]any{
		"definitions": map[string]any{
			"a": map[string]any{"$ref": "#/definitions/a"},
		},
	}
	doc := schema.New(root)
	Detect(doc)

	defs := root["definitions"].(map[string]any)
	if len(root) != 1 || len(defs) != 1 {
		t.Error("Detect() mutated the input document")
	}
	if inner := defs["a"].(map[string]any); inner["$ref"] != "#/definitions/a" {
		t.Error("Detect() mutated a nested node")
	}
}

func TestCycleString(t *testing.T) {
	c := Cycle{"#/definitions/a", "#/definitions/b", "#/definitions/a"}
	want := "#/definitions/a -> #/definitions/b -> #/definitions/a"
	if got := c.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
