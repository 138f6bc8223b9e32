// Package validate wraps the external schema compiler/validator.
//
// Meta-schema conformance and compilability are both owned by
// github.com/santhosh-tekuri/jsonschema; this package only adapts its API to
// the toolkit's document model, URI policy and error codes. It shares the
// loaded document with the cycle detector but is otherwise unrelated to it.
package validate

import (
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/errors"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/loader"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

// DefaultDraftURI is assumed for documents without a "$schema" declaration.
// The provider corpus is authored against draft-04.
const DefaultDraftURI = "http://json-schema.org/draft-04/schema#"

// drafts maps supported meta-schema URIs (sans trailing "#") to the
// compiler's draft handles.
var drafts = map[string]*jsonschema.Draft{
	"http://json-schema.org/draft-04/schema": jsonschema.Draft4,
	"http://json-schema.org/draft-07/schema": jsonschema.Draft7,
}

// Engine is the boundary to the external validation library.
// It is stateless apart from the loader and safe for concurrent use.
type Engine struct {
	loader *loader.Loader
}

// NewEngine creates an Engine resolving cross-document refs through l.
func NewEngine(l *loader.Loader) *Engine {
	return &Engine{loader: l}
}

// CheckMetaSchema validates doc against its declared draft meta-schema.
// Documents without a declaration are checked against draft-04.
func (e *Engine) CheckMetaSchema(doc *schema.Document) error {
	uri := doc.SchemaURI()
	if uri == "" {
		uri = DefaultDraftURI
	}
	norm := strings.TrimSuffix(uri, "#")

	if _, ok := drafts[norm]; !ok {
		return errors.New(errors.ErrCodeMetaSchema, "unsupported meta-schema %s", uri)
	}

	// The compiler ships embedded copies of the draft meta-schemas, so this
	// compiles without touching the loader.
	meta, err := jsonschema.NewCompiler().Compile(norm)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "compile meta-schema %s", norm)
	}
	if err := meta.Validate(doc.Root()); err != nil {
		return errors.Wrap(errors.ErrCodeMetaSchema, err, "document does not conform to %s", uri)
	}
	return nil
}

// Compile checks that the schema at uri is compilable, resolving any
// cross-document refs through the loader's URI policy.
func (e *Engine) Compile(uri string) (*jsonschema.Schema, error) {
	doc, err := e.loader.Load(uri)
	if err != nil {
		return nil, err
	}
	return e.CompileDocument(uri, doc)
}

// CompileDocument compiles an already-loaded document registered under uri.
// The harness uses this to share one load between the meta-schema check,
// compilation and cycle detection.
func (e *Engine) CompileDocument(uri string, doc *schema.Document) (*jsonschema.Schema, error) {
	c := jsonschema.NewCompiler()
	c.UseLoader(e.loader.URLLoader())
	c.DefaultDraft(e.draftFor(doc))

	if err := c.AddResource(uri, doc.Root()); err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompileFailed, err, "register %s", uri)
	}
	sch, err := c.Compile(uri)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeCompileFailed, err, "compile %s", uri)
	}
	return sch, nil
}

func (e *Engine) draftFor(doc *schema.Document) *jsonschema.Draft {
	if d, ok := drafts[strings.TrimSuffix(doc.SchemaURI(), "#")]; ok {
		return d
	}
	return jsonschema.Draft4
}
