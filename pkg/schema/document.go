// Package schema models parsed JSON Schema documents as addressable trees.
//
// A Document wraps the plain value produced by encoding/json (nested
// map[string]any, []any and scalars). Nodes are identified by canonical
// JSON-pointer strings ("#", "#/definitions/Foo", ...) — identity is the
// path used to reach a node, not structural equality. The document is
// borrowed read-only: nothing in this package mutates it.
package schema

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Document is the root of a parsed JSON Schema.
type Document struct {
	root any
}

// New wraps an already-parsed JSON value.
func New(root any) *Document {
	return &Document{root: root}
}

// Parse decodes a JSON document from r.
func Parse(r io.Reader) (*Document, error) {
	var root any
	dec := json.NewDecoder(r)
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return &Document{root: root}, nil
}

// ParseFile reads and decodes the JSON document at path.
func ParseFile(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc, nil
}

// Root returns the underlying parsed value. Callers must not modify it.
func (d *Document) Root() any { return d.root }

// SchemaURI returns the document's declared "$schema" value, or "" if the
// root is not an object or carries no declaration.
func (d *Document) SchemaURI() string {
	obj, ok := d.root.(map[string]any)
	if !ok {
		return ""
	}
	uri, _ := obj["$schema"].(string)
	return uri
}

// Resolve walks a canonical local pointer to its node. Returns ok=false when
// the pointer is not a local JSON pointer or any token does not resolve
// (missing key, non-numeric or out-of-range array index).
func (d *Document) Resolve(ptr string) (any, bool) {
	tokens, ok := ParsePointer(ptr)
	if !ok {
		return nil, false
	}
	node := d.root
	for _, tok := range tokens {
		switch v := node.(type) {
		case map[string]any:
			child, found := v[tok]
			if !found {
				return nil, false
			}
			node = child
		case []any:
			idx, err := strconv.Atoi(tok)
			if err != nil || idx < 0 || idx >= len(v) {
				return nil, false
			}
			node = v[idx]
		default:
			return nil, false
		}
	}
	return node, true
}
