package report

import (
	"path/filepath"
	"testing"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/validate"
)

func TestDocumentResult_Passed(t *testing.T) {
	tests := []struct {
		name string
		res  DocumentResult
		want bool
	}{
		{"all ok", DocumentResult{MetaSchema: OK(), Compile: OK(), Cycles: OK()}, true},
		{"skipped counts as pass", DocumentResult{MetaSchema: OK(), Compile: OK(), Cycles: Skipped("known cyclic")}, true},
		{"compile failed", DocumentResult{MetaSchema: OK(), Compile: Failed("bad ref"), Cycles: OK()}, false},
		{"cycle found", DocumentResult{MetaSchema: OK(), Compile: OK(), Cycles: Failed("cycle")}, false},
		{
			"vector failed",
			DocumentResult{
				MetaSchema: OK(), Compile: OK(), Cycles: OK(),
				Vectors: []validate.VectorResult{{Name: "v", Passed: false}},
			},
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.res.Passed(); got != tt.want {
				t.Errorf("Passed() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReport_Counts(t *testing.T) {
	r := New("testdata")
	if r.ID == "" {
		t.Error("New() should assign a run ID")
	}

	r.Add(DocumentResult{Path: "a.json", MetaSchema: OK(), Compile: OK(), Cycles: OK()})
	r.Add(DocumentResult{Path: "b.json", MetaSchema: OK(), Compile: Failed("x"), Cycles: OK()})

	if got := r.Total(); got != 2 {
		t.Errorf("Total() = %d, want 2", got)
	}
	if got := r.Failed(); got != 1 {
		t.Errorf("Failed() = %d, want 1", got)
	}
	if r.Passed() {
		t.Error("Passed() = true with a failing document")
	}

	if _, ok := r.Find("b.json"); !ok {
		t.Error("Find(b.json) = not found")
	}
	if _, ok := r.Find("c.json"); ok {
		t.Error("Find(c.json) = found")
	}
}

func TestReport_FileRoundTrip(t *testing.T) {
	r := New("testdata")
	r.Add(DocumentResult{
		Path:       "a.json",
		MetaSchema: OK(),
		Compile:    OK(),
		Cycles:     Failed("#/definitions/a -> #/definitions/a"),
		Cycle:      []string{"#/definitions/a", "#/definitions/a"},
	})

	path := filepath.Join(t.TempDir(), "report.json")
	if err := WriteFile(r, path); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error: %v", err)
	}
	if got.ID != r.ID {
		t.Errorf("ID = %q, want %q", got.ID, r.ID)
	}
	res, ok := got.Find("a.json")
	if !ok {
		t.Fatal("Find(a.json) = not found after round trip")
	}
	if res.Cycles.Status != StatusFailed {
		t.Errorf("Cycles.Status = %q, want %q", res.Cycles.Status, StatusFailed)
	}
	if len(res.Cycle) != 2 {
		t.Errorf("len(Cycle) = %d, want 2", len(res.Cycle))
	}
}
