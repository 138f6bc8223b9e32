// Package template lints deployment templates against the root deployment
// schema. This is the in-process equivalent of the editor validation service:
// the same compiled schema that editors resolve over HTTPS is compiled here
// through the local corpus mirror.
package template

import (
	"context"
	stderrors "errors"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/errors"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/validate"
)

// Issue is one validation finding in a template.
type Issue struct {
	// Path is the canonical JSON pointer to the offending template node.
	Path string `json:"path"`
	// Message describes the violation.
	Message string `json:"message"`
}

// Linter checks deployment templates for schema violations.
type Linter interface {
	// Lint returns the issues found in tmpl. A nil slice means the template
	// is valid. The error is reserved for infrastructure failures such as
	// the deployment schema not compiling.
	Lint(ctx context.Context, tmpl *schema.Document) ([]Issue, error)
}

// SchemaLinter validates templates against a deployment schema compiled by
// the validation engine. The schema is compiled once on first use and reused
// across calls; the linter is safe for concurrent use.
type SchemaLinter struct {
	engine    *validate.Engine
	schemaURI string

	once     sync.Once
	compiled *jsonschema.Schema
	compErr  error
}

// NewSchemaLinter creates a linter validating against the schema at
// schemaURI, resolved through the engine's loader policy.
func NewSchemaLinter(engine *validate.Engine, schemaURI string) *SchemaLinter {
	return &SchemaLinter{engine: engine, schemaURI: schemaURI}
}

// Lint validates tmpl against the deployment schema.
func (l *SchemaLinter) Lint(ctx context.Context, tmpl *schema.Document) ([]Issue, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeTimeout, err, "lint canceled")
	}

	l.once.Do(func() {
		l.compiled, l.compErr = l.engine.Compile(l.schemaURI)
	})
	if l.compErr != nil {
		return nil, l.compErr
	}

	err := l.compiled.Validate(tmpl.Root())
	if err == nil {
		return nil, nil
	}

	var verr *jsonschema.ValidationError
	if !stderrors.As(err, &verr) {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "validate template")
	}
	return flatten(verr), nil
}

// flatten walks the validation error tree and turns its leaves into issues.
// Branch errors only restate their causes, so they are skipped.
func flatten(verr *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			issues = append(issues, Issue{
				Path:    schema.JoinPointer(e.InstanceLocation),
				Message: e.Error(),
			})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)
	return issues
}
