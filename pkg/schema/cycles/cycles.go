// Package cycles detects reference cycles in JSON Schema documents.
//
// A cycle is a sequence of local "$ref" / structural-combinator edges that
// returns to a node already on the current traversal path, indicating
// unbounded self-reference. External (absolute-URI) references are dead ends
// and never contribute to a cycle.
package cycles

import (
	"strings"

	"github.com/anthony-c-martin/azure-resource-manager-schemas/pkg/schema"
)

// Cycle is an ordered sequence of node pointers [n0, ..., nk, n0]; the first
// identifier repeats at the end, proving the revisit. A nil Cycle means no
// cycle was found.
type Cycle []string

// String renders the cycle in the harness failure-message convention,
// e.g. "#/definitions/a -> #/definitions/b -> #/definitions/a".
func (c Cycle) String() string {
	return strings.Join(c, " -> ")
}

// DFS node colors: white = unvisited, gray = on the current traversal path,
// black = fully explored and known cycle-free.
const (
	white = iota
	gray
	black
)

// Detect walks the reference graph of doc and returns one cycle, or nil if
// the graph is acyclic. The search starts at the document root and then at
// every definitions entry not reached by an earlier search, sharing one
// finished set across searches so total work stays O(nodes + edges).
//
// The result is deterministic: edge and root order are fixed (see
// [schema.Document.EdgesFrom]), so the same document always yields the same
// cycle. Detect never mutates doc and keeps no state between calls, making
// concurrent calls on independent documents safe.
func Detect(doc *schema.Document) Cycle {
	color := make(map[string]int)

	roots := append([]string{schema.RootPointer}, doc.DefinitionRoots()...)
	for _, root := range roots {
		if color[root] != white {
			continue
		}
		if cyc := search(doc, root, color); cyc != nil {
			return cyc
		}
	}
	return nil
}

// frame is one entry of the explicit DFS work stack. Traversal is iterative
// rather than call-recursive: nesting depth is corpus-controlled, and real
// provider schemas reach depths that would overflow a native call stack.
type frame struct {
	ptr     string
	targets []string
	next    int
}

// search runs one DFS from root. The color map is shared across searches;
// the on-path stack is private to this one.
func search(doc *schema.Document, root string, color map[string]int) Cycle {
	node, ok := doc.Resolve(root)
	if !ok {
		return nil
	}

	color[root] = gray
	stack := []*frame{{ptr: root, targets: doc.EdgesFrom(root, node)}}
	path := []string{root}

	for len(stack) > 0 {
		top := stack[len(stack)-1]

		if top.next >= len(top.targets) {
			color[top.ptr] = black
			stack = stack[:len(stack)-1]
			path = path[:len(path)-1]
			continue
		}

		target := top.targets[top.next]
		top.next++

		switch color[target] {
		case gray:
			return closeCycle(path, target)
		case white:
			child, ok := doc.Resolve(target)
			if !ok {
				continue
			}
			color[target] = gray
			stack = append(stack, &frame{ptr: target, targets: doc.EdgesFrom(target, child)})
			path = append(path, target)
		}
		// black: already proven cycle-free by a previous search.
	}
	return nil
}

// closeCycle slices the on-path stack from the first occurrence of repeated
// and appends the repeated pointer to close the sequence.
func closeCycle(path []string, repeated string) Cycle {
	for i, ptr := range path {
		if ptr == repeated {
			cyc := make(Cycle, 0, len(path)-i+1)
			cyc = append(cyc, path[i:]...)
			return append(cyc, repeated)
		}
	}
	// repeated is gray, so it must be on the path.
	return Cycle{repeated, repeated}
}
