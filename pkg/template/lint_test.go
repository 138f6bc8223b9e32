package template

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/loader"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/validate"
)

const deploymentSchema = `{
	"$schema": "http://json-schema.org/draft-04/schema#",
	"type": "object",
	"required": ["contentVersion", "resources"],
	"properties": {
		"contentVersion": {"type": "string"},
		"resources": {
			"type": "array",
			"items": {
				"type": "object",
				"required": ["type", "name"],
				"properties": {
					"type": {"type": "string"},
					"name": {"type": "string"}
				}
			}
		}
	}
}`

func newLinter(t *testing.T) *SchemaLinter {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "deploymentTemplate.json")
	if err := os.WriteFile(path, []byte(deploymentSchema), 0o644); err != nil {
		t.Fatal(err)
	}
	engine := validate.NewEngine(loader.New(loader.Options{CorpusRoot: dir}))
	return NewSchemaLinter(engine, path)
}

func parseDoc(t *testing.T, src string) *schema.Document {
	t.Helper()
	doc, err := schema.Parse(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	return doc
}

func TestLint_ValidTemplate(t *testing.T) {
	l := newLinter(t)
	tmpl := parseDoc(t, `{
		"contentVersion": "1.0.0.0",
		"resources": [{"type": "Microsoft.Storage/storageAccounts", "name": "sa1"}]
	}`)

	issues, err := l.Lint(context.Background(), tmpl)
	if err != nil {
		t.Fatalf("Lint() error: %v", err)
	}
	if len(issues) != 0 {
		t.Errorf("Lint() = %v, want no issues", issues)
	}
}

func TestLint_MissingRequired(t *testing.T) {
	l := newLinter(t)
	tmpl := parseDoc(t, `{"contentVersion": "1.0.0.0"}`)

	issues, err := l.Lint(context.Background(), tmpl)
	if err != nil {
		t.Fatalf("Lint() error: %v", err)
	}
	if len(issues) == 0 {
		t.Fatal("Lint() found no issues for a template missing resources")
	}
}

func TestLint_IssuePathPointsAtNode(t *testing.T) {
	l := newLinter(t)
	tmpl := parseDoc(t, `{
		"contentVersion": "1.0.0.0",
		"resources": [{"type": 42, "name": "sa1"}]
	}`)

	issues, err := l.Lint(context.Background(), tmpl)
	if err != nil {
		t.Fatalf("Lint() error: %v", err)
	}
	var found bool
	for _, is := range issues {
		if is.Path == "#/resources/0/type" {
			found = true
		}
	}
	if !found {
		t.Errorf("no issue at #/resources/0/type, got %v", issues)
	}
}

func TestLint_SchemaCompileFailure(t *testing.T) {
	engine := validate.NewEngine(loader.New(loader.Options{CorpusRoot: t.TempDir()}))
	l := NewSchemaLinter(engine, filepath.Join(t.TempDir(), "missing.json"))

	if _, err := l.Lint(context.Background(), parseDoc(t, `{}`)); err == nil {
		t.Error("Lint() with missing schema should fail")
	}
}

func TestLint_CanceledContext(t *testing.T) {
	l := newLinter(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := l.Lint(ctx, parseDoc(t, `{}`)); err == nil {
		t.Error("Lint() with canceled context should fail")
	}
}
