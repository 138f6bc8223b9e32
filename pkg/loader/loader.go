// Package loader resolves schema URIs to parsed documents.
//
// Three URI families are supported:
//
//  1. Provider-schema mirror URIs (the schema.management.azure.com prefix)
//     are rewritten to files under a local corpus directory, so the whole
//     corpus can be checked without network access.
//  2. The draft-04 and draft-07 meta-schema URIs short-circuit to embedded
//     copies of the meta-schema documents.
//  3. Anything else is treated as a literal local file path.
//
// Any other http(s) URI is rejected as unsupported: the toolkit never
// fetches arbitrary remote schemas.
package loader

import (
	"embed"
	stderrors "errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/errors"
	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

//go:embed metaschema/draft-04.json metaschema/draft-07.json
var metaschemaFS embed.FS

// DefaultMirrorPrefix is the URI prefix of the published schema mirror.
const DefaultMirrorPrefix = "https://schema.management.azure.com/schemas/"

// Meta-schema URIs short-circuited to embedded documents. Keys are stored
// without the trailing "#" so both spellings resolve.
var metaschemaFiles = map[string]string{
	"http://json-schema.org/draft-04/schema": "metaschema/draft-04.json",
	"http://json-schema.org/draft-07/schema": "metaschema/draft-07.json",
}

// Loader resolves schema URIs against a local corpus directory.
// The zero value is not usable; use New.
type Loader struct {
	mirrorPrefix string
	corpusRoot   string
}

// Options configures a Loader.
type Options struct {
	// MirrorPrefix overrides the published mirror prefix rewritten to the
	// corpus root. Defaults to DefaultMirrorPrefix.
	MirrorPrefix string

	// CorpusRoot is the local directory holding the schema corpus.
	// Defaults to the current directory.
	CorpusRoot string
}

// New creates a Loader with the given options.
func New(opts Options) *Loader {
	if opts.MirrorPrefix == "" {
		opts.MirrorPrefix = DefaultMirrorPrefix
	}
	if opts.CorpusRoot == "" {
		opts.CorpusRoot = "."
	}
	return &Loader{
		mirrorPrefix: opts.MirrorPrefix,
		corpusRoot:   opts.CorpusRoot,
	}
}

// Load resolves uri to a parsed schema document.
func (l *Loader) Load(uri string) (*schema.Document, error) {
	if path, ok := metaschemaFiles[strings.TrimSuffix(uri, "#")]; ok {
		return l.loadEmbedded(path)
	}

	if rel, ok := strings.CutPrefix(uri, l.mirrorPrefix); ok {
		rel = stripFragment(rel)
		if err := errors.ValidateSchemaPath(rel); err != nil {
			return nil, err
		}
		return l.loadFile(filepath.Join(l.corpusRoot, filepath.FromSlash(rel)))
	}

	if strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://") {
		return nil, errors.New(errors.ErrCodeUnsupportedURI, "refusing to fetch remote schema %s", uri)
	}

	return l.loadFile(stripFragment(uri))
}

// URLLoader adapts the Loader to the validation engine's loader interface,
// so cross-document refs encountered during compilation resolve through the
// same URI policy.
func (l *Loader) URLLoader() jsonschema.URLLoader {
	return engineLoader{l}
}

type engineLoader struct {
	l *Loader
}

func (e engineLoader) Load(url string) (any, error) {
	doc, err := e.l.Load(url)
	if err != nil {
		return nil, err
	}
	return doc.Root(), nil
}

func (l *Loader) loadEmbedded(path string) (*schema.Document, error) {
	f, err := metaschemaFS.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open embedded %s: %w", path, err)
	}
	defer f.Close()
	return schema.Parse(f)
}

func (l *Loader) loadFile(path string) (*schema.Document, error) {
	doc, err := schema.ParseFile(path)
	if stderrors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(errors.ErrCodeSchemaNotFound, err, "schema %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidSchema, err, "schema %s", path)
	}
	return doc, nil
}

// stripFragment drops a URI fragment; the compiler addresses fragments
// itself, the loader only fetches whole documents.
func stripFragment(uri string) string {
	if i := strings.IndexByte(uri, '#'); i >= 0 {
		return uri[:i]
	}
	return uri
}
