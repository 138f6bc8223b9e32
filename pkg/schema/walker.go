package schema

import (
	"slices"
	"sort"
	"strconv"
)

// Keywords whose values are themselves schemas and therefore produce
// reference edges. "definitions" is deliberately absent: definition entries
// are addressable targets, reached through "$ref" or as independent search
// roots, never as structural children of their parent.
const (
	keyRef         = "$ref"
	keyProperties  = "properties"
	keyAddlProps   = "additionalProperties"
	keyItems       = "items"
	keyNot         = "not"
	keyDefinitions = "definitions"
)

var applicatorLists = []string{"allOf", "anyOf", "oneOf"}

// EdgesFrom returns the ordered reference-edge targets of the node at ptr.
// The node value must be the one ptr resolves to; passing it in avoids a
// redundant resolution during traversal.
//
// Edge order is fixed and stable so repeated traversals of the same document
// visit targets identically: the "$ref" target first, then object-keyed
// constructs with their member keys sorted, then array constructs in index
// order. (encoding/json does not retain document key order, so sorted key
// order stands in for it; any fixed order satisfies determinism.)
//
// A "$ref" that is not a string, not a local pointer, or does not resolve
// within the document contributes no edge — unresolved references are dead
// ends for traversal purposes, not errors.
func (d *Document) EdgesFrom(ptr string, node any) []string {
	obj, ok := node.(map[string]any)
	if !ok {
		return nil
	}

	var targets []string

	if ref, ok := obj[keyRef].(string); ok {
		if tokens, ok := ParsePointer(ref); ok {
			canonical := JoinPointer(tokens)
			if _, found := d.Resolve(canonical); found {
				targets = append(targets, canonical)
			}
		}
	}

	if props, ok := obj[keyProperties].(map[string]any); ok {
		base := ChildPointer(ptr, keyProperties)
		for _, name := range sortedKeys(props) {
			targets = append(targets, ChildPointer(base, name))
		}
	}

	if _, ok := obj[keyAddlProps].(map[string]any); ok {
		targets = append(targets, ChildPointer(ptr, keyAddlProps))
	}

	switch items := obj[keyItems].(type) {
	case map[string]any:
		targets = append(targets, ChildPointer(ptr, keyItems))
	case []any:
		base := ChildPointer(ptr, keyItems)
		for i := range items {
			targets = append(targets, indexPointer(base, i))
		}
	}

	for _, kw := range applicatorLists {
		members, ok := obj[kw].([]any)
		if !ok {
			continue
		}
		base := ChildPointer(ptr, kw)
		for i := range members {
			targets = append(targets, indexPointer(base, i))
		}
	}

	if _, ok := obj[keyNot].(map[string]any); ok {
		targets = append(targets, ChildPointer(ptr, keyNot))
	}

	return targets
}

// DefinitionRoots returns the canonical pointers of every entry of every
// "definitions" object anywhere in the document, sorted. Definitions that
// nothing references can still contain cycles among themselves, so they
// serve as additional traversal roots.
//
// The scan uses an explicit work stack: document nesting depth is
// corpus-controlled and must not be able to exhaust the call stack.
func (d *Document) DefinitionRoots() []string {
	type item struct {
		ptr  string
		node any
	}
	var roots []string
	stack := []item{{RootPointer, d.root}}
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		switch v := it.node.(type) {
		case map[string]any:
			for _, key := range sortedKeys(v) {
				child := ChildPointer(it.ptr, key)
				if key == keyDefinitions {
					if defs, ok := v[key].(map[string]any); ok {
						for _, name := range sortedKeys(defs) {
							roots = append(roots, ChildPointer(child, name))
						}
					}
				}
				stack = append(stack, item{child, v[key]})
			}
		case []any:
			for i, elem := range v {
				stack = append(stack, item{indexPointer(it.ptr, i), elem})
			}
		}
	}
	sort.Strings(roots)
	return slices.Compact(roots)
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func indexPointer(base string, i int) string {
	return ChildPointer(base, strconv.Itoa(i))
}
