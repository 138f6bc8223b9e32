package validate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestVectorPath(t *testing.T) {
	got := VectorPath("2019-04-01/Microsoft.Compute.json")
	want := "2019-04-01/Microsoft.Compute.tests.json"
	if got != want {
		t.Errorf("VectorPath() = %q, want %q", got, want)
	}
}

func TestIsVectorPath(t *testing.T) {
	if !IsVectorPath("a/b.tests.json") {
		t.Error("IsVectorPath(b.tests.json) = false")
	}
	if IsVectorPath("a/b.json") {
		t.Error("IsVectorPath(b.json) = true")
	}
}

func TestLoadVectors_Missing(t *testing.T) {
	vectors, err := LoadVectors(filepath.Join(t.TempDir(), "none.tests.json"))
	if err != nil {
		t.Fatalf("LoadVectors(missing) error: %v", err)
	}
	if vectors != nil {
		t.Errorf("LoadVectors(missing) = %v, want nil", vectors)
	}
}

func TestRunVectors(t *testing.T) {
	eng := newEngine(t, t.TempDir())
	doc := parseDoc(t, `{"type": "object", "required": ["name"]}`)
	sch, err := eng.CompileDocument("https://schema.management.azure.com/schemas/t.json", doc)
	if err != nil {
		t.Fatalf("CompileDocument() error: %v", err)
	}

	vectors := []Vector{
		{Name: "valid object", Data: map[string]any{"name": "x"}, Valid: true},
		{Name: "missing name", Data: map[string]any{}, Valid: false},
		{Name: "wrong expectation", Data: map[string]any{}, Valid: true},
	}

	results := RunVectors(sch, vectors)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}
	if !results[0].Passed || !results[1].Passed {
		t.Errorf("matching expectations should pass: %+v", results[:2])
	}
	if results[2].Passed {
		t.Error("mismatched expectation should fail")
	}
	if results[2].Message == "" {
		t.Error("failing vector should carry a message")
	}
}

func TestLoadVectors_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.tests.json")
	content := `{"tests": [
		{"name": "ok", "data": {"a": 1}, "valid": true},
		{"name": "bad", "data": [], "valid": false}
	]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	vectors, err := LoadVectors(path)
	if err != nil {
		t.Fatalf("LoadVectors() error: %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("len(vectors) = %d, want 2", len(vectors))
	}
	if vectors[0].Name != "ok" || !vectors[0].Valid {
		t.Errorf("vectors[0] = %+v", vectors[0])
	}
	if vectors[1].Name != "bad" || vectors[1].Valid {
		t.Errorf("vectors[1] = %+v", vectors[1])
	}
}
